package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-admin-session/token/keys"
)

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrWrongTokenType = errors.New("wrong token type")
)

// TokenIntrospection is what a verified token says about itself.
type TokenIntrospection struct {
	Active    bool      `json:"active"`
	Subject   string    `json:"sub,omitempty"`
	Type      string    `json:"typ,omitempty"`
	ID        string    `json:"jti,omitempty"`
	IssuedAt  time.Time `json:"iat,omitzero"`
	ExpiresAt time.Time `json:"exp,omitzero"`
}

// Inspector checks signatures of tokens produced by a Creator.
type Inspector struct {
	signer keys.Signer
}

func NewInspector(signer keys.Signer) *Inspector {
	return &Inspector{
		signer: signer,
	}
}

// Introspect verifies the signature and type of rawToken. Expiry is reported
// through Active but is not an error: the backend decides expiry from the
// account record so a jwt and an opaque token expire identically.
func (i *Inspector) Introspect(rawToken, tokenType string) (*TokenIntrospection, error) {
	if strings.TrimSpace(rawToken) == "" {
		return &TokenIntrospection{Active: false}, ErrMalformedToken
	}

	token, err := jwtlib.ParseWithClaims(rawToken, jwtlib.MapClaims{}, i.signer.GetVerificationKey,
		jwtlib.WithValidMethods([]string{i.signer.GetSigningMethod().Alg()}),
		jwtlib.WithoutClaimsValidation(),
	)
	if err != nil {
		return &TokenIntrospection{Active: false}, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}
	if !token.Valid {
		return &TokenIntrospection{Active: false}, ErrMalformedToken
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return &TokenIntrospection{Active: false}, errors.New("error extracting claims from token")
	}

	typ, _ := claims["typ"].(string)
	if typ != tokenType {
		return &TokenIntrospection{Active: false}, fmt.Errorf("%w: got %q, want %q", ErrWrongTokenType, typ, tokenType)
	}

	sub, _ := claims.GetSubject()
	jti, _ := claims["jti"].(string)

	result := &TokenIntrospection{
		Subject: sub,
		Type:    typ,
		ID:      jti,
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		result.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		result.ExpiresAt = exp.Time
	}
	result.Active = result.ExpiresAt.IsZero() || !NowTimeFunc().After(result.ExpiresAt)
	return result, nil
}
