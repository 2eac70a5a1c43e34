// Package token issues and checks the mock backend's session tokens.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/jrsteele09/go-admin-session/internal/config"
	"github.com/jrsteele09/go-admin-session/internal/errors"
	"github.com/jrsteele09/go-admin-session/token/jwt"
	"github.com/jrsteele09/go-admin-session/token/keys"
)

// Kind distinguishes the two halves of a token pair.
type Kind string

const (
	KindAccess  Kind = jwt.TypeAccess
	KindRefresh Kind = jwt.TypeRefresh
)

// Issued is a freshly minted token and the instant it stops being accepted.
type Issued struct {
	Token     string
	ExpiresAt time.Time
}

// Pair is an access/refresh pair issued together.
type Pair struct {
	Access  Issued
	Refresh Issued
}

type Manager struct {
	format             string
	randomLength       int
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	creator            *jwt.Creator
	inspector          *jwt.Inspector
	nowFunc            func() time.Time
}

type ManagerOption func(*Manager)

func WithTokenExpiry(accessTokenExpiry, refreshTokenExpiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.accessTokenExpiry = accessTokenExpiry
		m.refreshTokenExpiry = refreshTokenExpiry
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

// New builds a Manager from the token configuration. The jwt format needs a
// non-empty TOKEN_SECRET.
func New(cfg config.TokenConfig, options ...ManagerOption) (*Manager, error) {
	m := &Manager{
		format:             cfg.GetTokenFormat(),
		randomLength:       cfg.GetTokenRandomLength(),
		accessTokenExpiry:  cfg.GetAccessTokenExpiry(),
		refreshTokenExpiry: cfg.GetRefreshTokenExpiry(),
		nowFunc:            time.Now,
	}

	switch m.format {
	case config.TokenFormatOpaque:
	case config.TokenFormatJWT:
		signer, err := keys.NewHMACSigner(cfg.GetTokenSecret())
		if err != nil {
			return nil, errors.Wrapf(err, "token format %s", m.format)
		}
		m.creator = jwt.NewCreator(signer)
		m.inspector = jwt.NewInspector(signer)
	default:
		return nil, errors.Wrapf(errors.ErrUnsupportedFormat, "token format %q", m.format)
	}

	for _, opt := range options {
		opt(m)
	}

	if m.randomLength <= 0 {
		m.randomLength = 16
	}
	if m.accessTokenExpiry <= 0 {
		m.accessTokenExpiry = time.Hour
	}
	if m.refreshTokenExpiry <= 0 {
		m.refreshTokenExpiry = 30 * 24 * time.Hour
	}
	return m, nil
}

func (m *Manager) Format() string {
	return m.format
}

// Issue mints a new access and refresh token for username.
func (m *Manager) Issue(username string) (*Pair, error) {
	access, err := m.create(username, KindAccess, m.accessTokenExpiry)
	if err != nil {
		return nil, err
	}
	refresh, err := m.create(username, KindRefresh, m.refreshTokenExpiry)
	if err != nil {
		return nil, err
	}
	return &Pair{Access: *access, Refresh: *refresh}, nil
}

// IsExpired reports whether expiresAt lies in the past. The instant itself is
// still valid.
func (m *Manager) IsExpired(expiresAt time.Time) bool {
	return m.nowFunc().After(expiresAt)
}

// Verify checks that raw could have been issued by this manager as kind.
// Opaque tokens are checked for shape only; the account lookup decides the rest.
func (m *Manager) Verify(raw string, kind Kind) error {
	if m.format == config.TokenFormatJWT {
		_, err := m.inspector.Introspect(raw, string(kind))
		if err != nil {
			return errors.Wrapf(errors.ErrInvalidToken, "%v", err)
		}
		return nil
	}

	marker := "-" + string(kind) + "-"
	idx := strings.LastIndex(raw, marker)
	if idx <= 0 || len(raw)-idx-len(marker) != hex.EncodedLen(m.randomLength) {
		return errors.Wrapf(errors.ErrInvalidToken, "unexpected %s token shape", kind)
	}
	return nil
}

func (m *Manager) create(username string, kind Kind, ttl time.Duration) (*Issued, error) {
	expiresAt := m.nowFunc().Add(ttl)

	if m.format == config.TokenFormatJWT {
		signed, err := m.creator.Create(username, string(kind), expiresAt)
		if err != nil {
			return nil, err
		}
		return &Issued{Token: signed, ExpiresAt: expiresAt}, nil
	}

	tokenBytes := make([]byte, m.randomLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return &Issued{
		Token:     fmt.Sprintf("%s-%s-%s", username, kind, hex.EncodeToString(tokenBytes)),
		ExpiresAt: expiresAt,
	}, nil
}
