package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sabstore/backend/internal/infrastructure/auth"
	"github.com/sabstore/backend/internal/interfaces/http/handler"
	"github.com/sabstore/backend/internal/interfaces/http/middleware"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine) *Router {
	return &Router{
		engine:     engine,
		apiVersion: "v1",
		registrars: make([]RouteRegistrar, 0),
	}
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes under the versioned API prefix
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// StorefrontRoutes registers the shopper-facing endpoints. Authentication is
// optional: guests shop under a session, logged-in users under their account.
type StorefrontRoutes struct {
	jwtService      *auth.JWTService
	cartHandler     *handler.CartHandler
	checkoutHandler *handler.CheckoutHandler
	paymentHandler  *handler.PaymentHandler
	orderHandler    *handler.OrderHandler
}

// NewStorefrontRoutes creates the storefront route registrar
func NewStorefrontRoutes(
	jwtService *auth.JWTService,
	cartHandler *handler.CartHandler,
	checkoutHandler *handler.CheckoutHandler,
	paymentHandler *handler.PaymentHandler,
	orderHandler *handler.OrderHandler,
) *StorefrontRoutes {
	return &StorefrontRoutes{
		jwtService:      jwtService,
		cartHandler:     cartHandler,
		checkoutHandler: checkoutHandler,
		paymentHandler:  paymentHandler,
		orderHandler:    orderHandler,
	}
}

// RegisterRoutes registers storefront routes
func (r *StorefrontRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	shop := rg.Group("")
	shop.Use(middleware.OptionalJWTAuthMiddleware(r.jwtService))
	shop.Use(middleware.CartSession())

	cart := shop.Group("/cart")
	{
		cart.GET("", r.cartHandler.Get)
		cart.POST("/items", r.cartHandler.AddItem)
		cart.PATCH("/items/:itemId", r.cartHandler.UpdateItem)
		cart.DELETE("/items/:itemId", r.cartHandler.RemoveItem)
		cart.DELETE("", r.cartHandler.Clear)
		cart.POST("/merge", r.cartHandler.Merge)
	}

	shop.POST("/checkout", r.checkoutHandler.Checkout)
	shop.GET("/verify-payment/:reference/:orderReference", r.paymentHandler.Verify)

	orders := shop.Group("/orders")
	{
		orders.GET("", r.orderHandler.List)
		orders.GET("/:reference", r.orderHandler.GetByReference)
	}

	authed := shop.Group("")
	authed.Use(middleware.JWTAuthMiddleware(r.jwtService))
	authed.GET("/transactions", r.paymentHandler.ListTransactions)
}

// AdminRoutes registers the back-office endpoints. Every route requires an
// authenticated admin.
type AdminRoutes struct {
	jwtService   *auth.JWTService
	orderHandler *handler.OrderHandler
	eposHandler  *handler.EposHandler
}

// NewAdminRoutes creates the admin route registrar
func NewAdminRoutes(jwtService *auth.JWTService, orderHandler *handler.OrderHandler, eposHandler *handler.EposHandler) *AdminRoutes {
	return &AdminRoutes{
		jwtService:   jwtService,
		orderHandler: orderHandler,
		eposHandler:  eposHandler,
	}
}

// RegisterRoutes registers admin routes
func (r *AdminRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.JWTAuthMiddleware(r.jwtService))
	admin.Use(middleware.RequireAdmin())

	orders := admin.Group("/orders")
	{
		orders.GET("", r.orderHandler.ListAll)
		orders.GET("/:id", r.orderHandler.Get)
		orders.PATCH("/status/:id", r.orderHandler.UpdateFulfillment)
	}

	epos := rg.Group("/epos")
	epos.Use(middleware.JWTAuthMiddleware(r.jwtService))
	epos.Use(middleware.RequireAdmin())
	{
		epos.GET("/logs", r.eposHandler.ListLogs)
		epos.GET("/logs/:id", r.eposHandler.GetLog)
		epos.POST("/logs/:id/retry", r.eposHandler.RetryLog)
		epos.GET("/orders/:orderId/logs", r.eposHandler.ListOrderLogs)
	}
}

// WebhookRoutes registers endpoints called by external systems. They carry no
// user authentication.
type WebhookRoutes struct {
	eposnowWebhookHandler *handler.EposnowWebhookHandler
}

// NewWebhookRoutes creates the webhook route registrar
func NewWebhookRoutes(eposnowWebhookHandler *handler.EposnowWebhookHandler) *WebhookRoutes {
	return &WebhookRoutes{eposnowWebhookHandler: eposnowWebhookHandler}
}

// RegisterRoutes registers webhook routes
func (r *WebhookRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/eposnow/sale", r.eposnowWebhookHandler.HandleSale)
}
