package middlewares

import (
	"net/http"
	"strings"
	"time"

	"voting-registry/internal/api/interfaces"
	"voting-registry/internal/api/models"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

// CallerKey is the context key holding the authenticated caller address.
const CallerKey = "caller"

// AuthRequired middleware validates JWT tokens and resolves the caller
// address from the token claims.
func AuthRequired(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortUnauthorized(c, models.ErrCodeUnauthorized, "Authorization token required")
			return
		}

		claims, err := services.AuthService().ValidateToken(token)
		if err != nil {
			abortUnauthorized(c, models.ErrCodeInvalidToken, "Invalid or expired token: "+err.Error())
			return
		}

		if !common.IsHexAddress(claims.Address) {
			abortUnauthorized(c, models.ErrCodeInvalidToken, "Token address claim is not a valid address")
			return
		}

		c.Set(CallerKey, common.HexToAddress(claims.Address))
		c.Next()
	}
}

// SuperAdminRequired middleware ensures the caller is the configured
// super-admin. Must run after AuthRequired.
func SuperAdminRequired(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, exists := c.Get(CallerKey)
		if !exists || caller.(common.Address) != services.Ledger().SuperAdmin() {
			c.JSON(http.StatusForbidden, models.BaseResponse{
				Success: false,
				Error: &models.ErrorInfo{
					Code:    models.ErrCodeForbidden,
					Message: "Super admin access required",
				},
				Timestamp: time.Now().Unix(),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// WSAuthRequired middleware authenticates WebSocket upgrade requests using a
// token query parameter, since browsers cannot set headers on upgrades.
func WSAuthRequired(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required for WebSocket"})
			c.Abort()
			return
		}

		claims, err := services.AuthService().ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token: " + err.Error()})
			c.Abort()
			return
		}

		c.Set(CallerKey, common.HexToAddress(claims.Address))
		c.Next()
	}
}

// Caller returns the authenticated caller address from the request context.
func Caller(c *gin.Context) (common.Address, bool) {
	v, exists := c.Get(CallerKey)
	if !exists {
		return common.Address{}, false
	}
	addr, ok := v.(common.Address)
	return addr, ok
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.JSON(http.StatusUnauthorized, models.BaseResponse{
		Success: false,
		Error: &models.ErrorInfo{
			Code:    code,
			Message: message,
		},
		Timestamp: time.Now().Unix(),
	})
	c.Abort()
}

// extractToken extracts JWT token from Authorization header
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}
