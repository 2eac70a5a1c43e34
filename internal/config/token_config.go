package config

import "time"

const (
	TokenFormatOpaque = "opaque"
	TokenFormatJWT    = "jwt"
)

type Token struct{}

var _ TokenConfig = Token{}

// GetTokenFormat selects "opaque" (<username>-access-<hex>) or "jwt".
func (Token) GetTokenFormat() string {
	return GetEnv("TOKEN_FORMAT", TokenFormatOpaque)
}

// GetTokenSecret is the HMAC key for the jwt format.
func (Token) GetTokenSecret() string {
	return GetEnv("TOKEN_SECRET", "admin-mock-server-dev-secret")
}

func (Token) GetTokenRandomLength() int {
	return 16 // 16 bytes = 32 hex chars
}

func (Token) GetAccessTokenExpiry() time.Duration {
	return GetDurationEnv("ACCESS_TOKEN_TTL", 1*time.Hour)
}

func (Token) GetRefreshTokenExpiry() time.Duration {
	return GetDurationEnv("REFRESH_TOKEN_TTL", 30*24*time.Hour) // 30 days
}
