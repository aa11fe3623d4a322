package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	cartapp "github.com/sabstore/backend/internal/application/cart"
	checkoutapp "github.com/sabstore/backend/internal/application/checkout"
	inventoryapp "github.com/sabstore/backend/internal/application/inventory"
	orderapp "github.com/sabstore/backend/internal/application/order"
	paymentapp "github.com/sabstore/backend/internal/application/payment"
	pricingapp "github.com/sabstore/backend/internal/application/pricing"
	syncapp "github.com/sabstore/backend/internal/application/sync"
	"github.com/sabstore/backend/internal/domain/shared"
	"github.com/sabstore/backend/internal/infrastructure/auth"
	"github.com/sabstore/backend/internal/infrastructure/cache"
	"github.com/sabstore/backend/internal/infrastructure/config"
	"github.com/sabstore/backend/internal/infrastructure/event"
	"github.com/sabstore/backend/internal/infrastructure/gateway"
	"github.com/sabstore/backend/internal/infrastructure/logger"
	"github.com/sabstore/backend/internal/infrastructure/notification"
	"github.com/sabstore/backend/internal/infrastructure/persistence"
	"github.com/sabstore/backend/internal/infrastructure/pos"
	"github.com/sabstore/backend/internal/interfaces/http/handler"
	"github.com/sabstore/backend/internal/interfaces/http/middleware"
	"github.com/sabstore/backend/internal/interfaces/http/router"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with zap-backed GORM logging
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := persistence.AutoMigrate(db.DB); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connected and migrated")

	// Idempotency store: Redis when reachable, in-memory otherwise. The
	// in-memory store is fine for a single replica.
	var idemStore shared.IdempotencyStore
	redisStore, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory idempotency store", zap.Error(err))
		idemStore = cache.NewInMemoryIdempotencyStore()
	} else {
		log.Info("Redis idempotency store connected",
			zap.String("host", cfg.Redis.Host), zap.Int("port", cfg.Redis.Port))
		idemStore = redisStore
	}
	defer func() {
		if err := idemStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	couponRepo := persistence.NewGormCouponRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	stockRepo := persistence.NewGormStockRepository(db.DB)
	syncLogRepo := persistence.NewGormSyncLogRepository(db.DB)
	syncTaskRepo := persistence.NewGormSyncTaskRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Event bus and notification fanout
	eventBus := event.NewInMemoryEventBus(log)
	if cfg.Mail.Enabled {
		notifier := notification.NewFulfillmentNotifier(notification.NewLogSender(log), log)
		eventBus.Subscribe(notifier)
		log.Info("Fulfillment notifications enabled",
			zap.Strings("events", notifier.EventTypes()))
	}
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// External integrations
	paystack := gateway.NewPaystackGateway(gateway.PaystackConfig{
		BaseURL:   cfg.Paystack.BaseURL,
		SecretKey: cfg.Paystack.SecretKey,
		Timeout:   cfg.Paystack.Timeout,
	}, log)

	locationID, err := strconv.Atoi(cfg.Eposnow.LocationID)
	if err != nil && cfg.Eposnow.LocationID != "" {
		log.Warn("Invalid EPOSNow location id, defaulting to 0",
			zap.String("location_id", cfg.Eposnow.LocationID))
	}
	posClient := pos.NewEposnowClient(pos.EposnowConfig{
		BaseURL:    cfg.Eposnow.BaseURL,
		APIKey:     cfg.Eposnow.APIKey,
		LocationID: locationID,
		Timeout:    cfg.Eposnow.Timeout,
	}, log)

	// Application services
	taxRate := decimal.NewFromFloat(cfg.Store.TaxRatePercent)
	pricingService := pricingapp.NewService(couponRepo, log)
	cartService := cartapp.NewService(cartRepo, productRepo, log)
	checkoutService := checkoutapp.NewService(txScope, pricingService, taxRate, log)
	deductionService := inventoryapp.NewDeductionService(stockRepo, syncLogRepo, log)
	verificationService := paymentapp.NewVerificationService(
		paystack, txScope, deductionService,
		idemStore, shared.DefaultIdempotencyConfig(),
		eventBus, log,
	)
	paymentQueryService := paymentapp.NewQueryService(transactionRepo)
	orderService := orderapp.NewService(orderRepo, eventBus, log)
	syncLogService := syncapp.NewLogService(syncLogRepo, syncTaskRepo, productRepo, orderRepo, log)

	// POS sync dispatcher
	if cfg.Sync.Enabled {
		dispatcher := syncapp.NewDispatcher(
			syncTaskRepo, syncLogRepo, posClient,
			syncapp.RetryPolicy{
				MaxAttempts: cfg.Sync.MaxAttempts,
				BaseDelay:   cfg.Sync.BaseDelay,
			},
			syncapp.DispatcherConfig{
				BatchSize:    cfg.Sync.BatchSize,
				PollInterval: cfg.Sync.PollInterval,
				CallTimeout:  cfg.Eposnow.Timeout,
			},
			log,
		)
		if err := dispatcher.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sync dispatcher", zap.Error(err))
		}
		defer func() {
			if err := dispatcher.Stop(context.Background()); err != nil {
				log.Error("Error stopping sync dispatcher", zap.Error(err))
			}
		}()
		log.Info("POS sync dispatcher started",
			zap.Int("batch_size", cfg.Sync.BatchSize),
			zap.Duration("poll_interval", cfg.Sync.PollInterval),
		)
	}

	// HTTP layer
	jwtService := auth.NewJWTService(cfg.JWT)
	cartHandler := handler.NewCartHandler(cartService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	paymentHandler := handler.NewPaymentHandler(verificationService, paymentQueryService)
	orderHandler := handler.NewOrderHandler(orderService)
	eposHandler := handler.NewEposHandler(syncLogService)
	webhookHandler := handler.NewEposnowWebhookHandler(productRepo, deductionService, log)
	systemHandler := handler.NewSystemHandler(db)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-Cart-Session"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	engine.GET("/healthz", systemHandler.Health)

	r := router.NewRouter(engine)
	r.Register(router.NewStorefrontRoutes(jwtService, cartHandler, checkoutHandler, paymentHandler, orderHandler)).
		Register(router.NewAdminRoutes(jwtService, orderHandler, eposHandler)).
		Register(router.NewWebhookRoutes(webhookHandler))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
