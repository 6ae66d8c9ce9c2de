package interfaces

import (
	"voting-registry/internal/api/ws"
	"voting-registry/internal/ledger"
	"voting-registry/pkg/config"
	"voting-registry/pkg/logger"
)

// Services defines the interface for API services
type Services interface {
	GetLogger() *logger.Logger
	GetConfig() *config.Config
	Ledger() *ledger.Service
	AuthService() AuthServiceInterface
	EventHub() *ws.Hub
}
