package handlers

import (
	"errors"
	"net/http"
	"time"

	"voting-registry/internal/api/interfaces"
	"voting-registry/internal/api/models"
	"voting-registry/internal/ledger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// HealthCheck provides a simple health check endpoint
func HealthCheck(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := map[string]models.HealthCheck{
			"registry": registryCheck(services),
		}

		status := "healthy"
		for _, check := range checks {
			if check.Status != "healthy" {
				status = "degraded"
			}
		}

		c.JSON(http.StatusOK, models.HealthCheckResponse{
			Status:    status,
			Timestamp: time.Now().Unix(),
			Version:   "1.0.0",
			Uptime:    int64(time.Since(startTime).Seconds()),
			Checks:    checks,
		})
	}
}

func registryCheck(services interfaces.Services) models.HealthCheck {
	_, err := services.Ledger().Registry()
	switch {
	case err == nil:
		return models.HealthCheck{Status: "healthy"}
	case errors.Is(err, ledger.ErrRegistryNotFound):
		return models.HealthCheck{Status: "healthy", Message: "Registry not initialized yet"}
	default:
		return models.HealthCheck{Status: "unhealthy", Message: err.Error()}
	}
}

// IssueDevToken signs a JWT for the given address. Registered only when the
// server runs in development mode.
func IssueDevToken(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.TokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		if !common.IsHexAddress(req.Address) {
			respondBadRequest(c, "address must be a hex address")
			return
		}

		token, err := services.AuthService().GenerateToken(common.HexToAddress(req.Address).Hex())
		if err != nil {
			respondError(c, models.NewAPIError(models.ErrCodeInternalError, "Failed to sign token", http.StatusInternalServerError))
			return
		}

		respondOK(c, http.StatusOK, "", &models.AuthResponse{
			Token:     token,
			ExpiresIn: int64(services.GetConfig().Security.JWTExpiration.Seconds()),
		})
	}
}
