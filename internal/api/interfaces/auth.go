package interfaces

// Claims represents JWT token claims
type Claims struct {
	Address   string `json:"address"`
	ExpiresAt int64  `json:"expires_at"`
}

type AuthServiceInterface interface {
	GenerateToken(address string) (string, error)
	ValidateToken(token string) (*Claims, error)
}
