package jwt

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-admin-session/token/keys"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Token types carried in the "typ" claim.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Creator signs session tokens.
type Creator struct {
	signer keys.Signer
}

// NewCreator creates a new JWT creator
func NewCreator(signer keys.Signer) *Creator {
	return &Creator{
		signer: signer,
	}
}

// Create signs a token of the given type for username, expiring at expiresAt.
func (c *Creator) Create(username, tokenType string, expiresAt time.Time) (string, error) {
	claims := jwtlib.MapClaims{
		"sub": username,             // The account the token was issued to
		"typ": tokenType,            // access or refresh
		"iat": NowTimeFunc().Unix(), // Issued At
		"exp": expiresAt.Unix(),     // Expiry
		"jti": uuid.New().String(),  // Unique token ID, keeps rotated tokens distinct within a second
	}

	signedToken, err := c.signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return signedToken, nil
}
