package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sabstore/backend/internal/infrastructure/auth"
	"github.com/sabstore/backend/internal/interfaces/http/dto"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	JWTUserIDKey  = "jwt_user_id"
	JWTRoleKey    = "jwt_role"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTAuthMiddleware requires a valid access token
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromRequest(c, jwtService)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}
		storeClaims(c, claims)
		c.Next()
	}
}

// OptionalJWTAuthMiddleware extracts claims when a valid token is present but
// never rejects the request. Guest shoppers pass through without claims.
func OptionalJWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromRequest(c, jwtService)
		if err == nil {
			storeClaims(c, claims)
		}
		c.Next()
	}
}

// RequireAdmin rejects requests whose claims lack the admin role.
// Must run after JWTAuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil || !claims.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Admin access required"))
			return
		}
		c.Next()
	}
}

func claimsFromRequest(c *gin.Context, jwtService *auth.JWTService) (*auth.Claims, error) {
	authHeader := c.GetHeader(AuthHeaderKey)
	if authHeader == "" || !strings.HasPrefix(authHeader, BearerPrefix) {
		return nil, auth.ErrInvalidToken
	}
	tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
	if tokenString == "" {
		return nil, auth.ErrInvalidToken
	}
	return jwtService.ValidateAccessToken(tokenString)
}

func storeClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(JWTClaimsKey, claims)
	c.Set(JWTUserIDKey, claims.UserID)
	c.Set(JWTRoleKey, claims.Role)
}

func abortUnauthorized(c *gin.Context, err error) {
	code := dto.ErrCodeTokenInvalid
	message := "Invalid token"
	switch err {
	case auth.ErrExpiredToken:
		code = dto.ErrCodeTokenExpired
		message = "Token has expired"
	case auth.ErrInvalidToken, auth.ErrInvalidClaims, auth.ErrMissingUserID:
		// default
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message))
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetJWTUserID retrieves the user ID from JWT claims in context
func GetJWTUserID(c *gin.Context) string {
	if userID, exists := c.Get(JWTUserIDKey); exists {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return ""
}
