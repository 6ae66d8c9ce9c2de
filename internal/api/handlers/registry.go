package handlers

import (
	"net/http"

	"voting-registry/internal/api/interfaces"
	"voting-registry/internal/api/models"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

// InitializeRegistry creates the admin registry singleton
func InitializeRegistry(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr, ok := caller(c)
		if !ok {
			return
		}

		reg, err := services.Ledger().InitializeRegistry(addr)
		if err != nil {
			respondLedgerError(c, err)
			return
		}

		respondOK(c, http.StatusCreated, "Registry initialized", models.NewRegistryResponse(reg))
	}
}

// GetRegistry returns the registry singleton
func GetRegistry(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		reg, err := services.Ledger().Registry()
		if err != nil {
			respondLedgerError(c, err)
			return
		}

		respondOK(c, http.StatusOK, "", models.NewRegistryResponse(reg))
	}
}

// PauseSystem sets the global pause flag
func PauseSystem(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr, ok := caller(c)
		if !ok {
			return
		}

		if err := services.Ledger().PauseSystem(addr); err != nil {
			respondLedgerError(c, err)
			return
		}

		respondOK(c, http.StatusOK, "System paused", nil)
	}
}

// UnpauseSystem clears the global pause flag
func UnpauseSystem(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr, ok := caller(c)
		if !ok {
			return
		}

		if err := services.Ledger().UnpauseSystem(addr); err != nil {
			respondLedgerError(c, err)
			return
		}

		respondOK(c, http.StatusOK, "System unpaused", nil)
	}
}

// AddAdmin registers a delegated administrator
func AddAdmin(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr, ok := caller(c)
		if !ok {
			return
		}

		var req models.AddAdminRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		if !common.IsHexAddress(req.Authority) {
			respondBadRequest(c, "authority must be a hex address")
			return
		}

		admin, err := services.Ledger().AddAdmin(addr, common.HexToAddress(req.Authority), req.Name, req.Permissions)
		if err != nil {
			respondLedgerError(c, err)
			return
		}

		respondOK(c, http.StatusCreated, "Admin added", models.NewAdminResponse(admin))
	}
}

// GetAdmin returns a delegated administrator record
func GetAdmin(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		authority, ok := addressParam(c, "authority")
		if !ok {
			return
		}

		admin, err := services.Ledger().Admin(authority)
		if err != nil {
			respondLedgerError(c, err)
			return
		}

		respondOK(c, http.StatusOK, "", models.NewAdminResponse(admin))
	}
}

// UpdateAdminPermissions replaces an admin's capability set
func UpdateAdminPermissions(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr, ok := caller(c)
		if !ok {
			return
		}
		authority, ok := addressParam(c, "authority")
		if !ok {
			return
		}

		var req models.UpdatePermissionsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, err.Error())
			return
		}

		admin, err := services.Ledger().UpdateAdminPermissions(addr, authority, req.Permissions)
		if err != nil {
			respondLedgerError(c, err)
			return
		}

		respondOK(c, http.StatusOK, "Admin permissions updated", models.NewAdminResponse(admin))
	}
}

// DeactivateAdmin marks an admin inactive
func DeactivateAdmin(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr, ok := caller(c)
		if !ok {
			return
		}
		authority, ok := addressParam(c, "authority")
		if !ok {
			return
		}

		if err := services.Ledger().DeactivateAdmin(addr, authority); err != nil {
			respondLedgerError(c, err)
			return
		}

		respondOK(c, http.StatusOK, "Admin deactivated", nil)
	}
}
