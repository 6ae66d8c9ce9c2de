package handlers

import (
	"net/http"
	"strconv"
	"time"

	"voting-registry/internal/api/middlewares"
	"voting-registry/internal/api/models"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

func getClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.ClientIP()
}

// caller resolves the authenticated address; responds 401 when missing.
func caller(c *gin.Context) (common.Address, bool) {
	addr, ok := middlewares.Caller(c)
	if !ok {
		respondError(c, models.NewAPIError(models.ErrCodeUnauthorized, "Authentication required", http.StatusUnauthorized))
	}
	return addr, ok
}

func respondOK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, models.BaseResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().Unix(),
		RequestID: c.GetString("request_id"),
	})
}

func respondError(c *gin.Context, apiErr *models.APIError) {
	c.JSON(apiErr.StatusCode, models.BaseResponse{
		Success: false,
		Error: &models.ErrorInfo{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		},
		Timestamp: time.Now().Unix(),
		RequestID: c.GetString("request_id"),
	})
}

func respondLedgerError(c *gin.Context, err error) {
	respondError(c, models.FromLedgerError(err))
}

func respondBadRequest(c *gin.Context, details string) {
	respondError(c, models.NewAPIError(models.ErrCodeInvalidRequest, "Invalid request format", http.StatusBadRequest).WithDetails(details))
}

func electionIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "election id must be a non-negative integer")
		return 0, false
	}
	return id, true
}

func candidateIDParam(c *gin.Context) (uint32, bool) {
	id, err := strconv.ParseUint(c.Param("candidate_id"), 10, 32)
	if err != nil {
		respondBadRequest(c, "candidate id must be a non-negative integer")
		return 0, false
	}
	return uint32(id), true
}

func addressParam(c *gin.Context, name string) (common.Address, bool) {
	raw := c.Param(name)
	if !common.IsHexAddress(raw) {
		respondBadRequest(c, name+" must be a hex address")
		return common.Address{}, false
	}
	return common.HexToAddress(raw), true
}
