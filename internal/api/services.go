package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"voting-registry/internal/api/interfaces"
	"voting-registry/internal/api/ws"
	"voting-registry/internal/ledger"
	"voting-registry/pkg/config"
	"voting-registry/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

// Services contains all the dependencies for API handlers
type Services struct {
	LedgerService *ledger.Service
	Logger        *logger.Logger
	Config        *config.Config
	Hub           *ws.Hub
}

// NewServices creates a new services container and wires registry events
// into the WebSocket hub.
func NewServices(ledgerService *ledger.Service, log *logger.Logger, cfg *config.Config) *Services {
	services := &Services{
		LedgerService: ledgerService,
		Logger:        log,
		Config:        cfg,
		Hub:           ws.NewHub(log),
	}

	ledgerService.SetEventCallback(func(event ledger.Event) {
		services.Hub.Broadcast(event)
	})

	return services
}

// Stop disconnects WebSocket clients
func (s *Services) Stop() {
	s.Logger.Info("Stopping API services...")
	s.Hub.Stop()
	s.Logger.Info("All API services stopped")
}

// Interface implementation methods
func (s *Services) GetLogger() *logger.Logger {
	return s.Logger
}

func (s *Services) GetConfig() *config.Config {
	return s.Config
}

func (s *Services) Ledger() *ledger.Service {
	return s.LedgerService
}

func (s *Services) EventHub() *ws.Hub {
	return s.Hub
}

func (s *Services) AuthService() interfaces.AuthServiceInterface {
	return s
}

// GenerateToken signs a JWT carrying the caller address
func (s *Services) GenerateToken(address string) (string, error) {
	secretKey := s.Config.Security.JWTSecret
	if secretKey == "" {
		return "", errors.New("JWT secret key not configured")
	}

	expiration := s.Config.Security.JWTExpiration
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"address": address,
		"exp":     time.Now().Add(expiration).Unix(),
		"iat":     time.Now().Unix(),
	})

	return token.SignedString([]byte(secretKey))
}

// ValidateToken implements the AuthServiceInterface
func (s *Services) ValidateToken(token string) (*interfaces.Claims, error) {
	token = strings.TrimPrefix(token, "Bearer ")

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		secretKey := s.Config.Security.JWTSecret
		if secretKey == "" {
			return nil, errors.New("JWT secret key not configured")
		}

		return []byte(secretKey), nil
	})

	if err != nil {
		return nil, fmt.Errorf("invalid token: %v", err)
	}

	if !parsedToken.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	address, ok := claims["address"].(string)
	if !ok {
		return nil, errors.New("missing address claim")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, errors.New("missing expiration claim")
	}

	if time.Now().Unix() > int64(exp) {
		return nil, errors.New("token has expired")
	}

	return &interfaces.Claims{
		Address:   address,
		ExpiresAt: int64(exp),
	}, nil
}
