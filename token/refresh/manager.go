// Package refresh records issued token pairs against accounts and rotates them.
package refresh

import (
	"fmt"
	"sync"

	"github.com/jrsteele09/go-admin-session/apimodel"
	"github.com/jrsteele09/go-admin-session/internal/errors"
	"github.com/jrsteele09/go-admin-session/token"
	"github.com/jrsteele09/go-admin-session/users"
)

// Manager handles token pair creation and refresh token rotation
type Manager struct {
	repo   users.UserRepo
	tokens *token.Manager
	lock   sync.Mutex
}

// NewManager creates a new refresh token manager
func NewManager(repo users.UserRepo, tokens *token.Manager) *Manager {
	return &Manager{
		repo:   repo,
		tokens: tokens,
	}
}

// Create issues a new pair for user and stores it on the account, replacing
// whatever pair the account held before (one live session per account).
func (m *Manager) Create(user *users.User) (*apimodel.TokenPair, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	return m.issue(user)
}

// Rotate exchanges a refresh token for a new pair. The presented token stops
// working as soon as the new pair is stored.
func (m *Manager) Rotate(refreshToken string) (*apimodel.TokenPair, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	user, err := m.repo.GetByRefreshToken(refreshToken)
	if errors.Is(err, errors.ErrUserNotFound) {
		return nil, errors.ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, err
	}

	if err := m.tokens.Verify(refreshToken, token.KindRefresh); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidRefreshToken, "%v", err)
	}
	if m.tokens.IsExpired(user.RefreshTokenExpiresAt) {
		return nil, errors.ErrRefreshTokenExpired
	}

	return m.issue(user)
}

func (m *Manager) issue(user *users.User) (*apimodel.TokenPair, error) {
	pair, err := m.tokens.Issue(user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	user.AccessToken = pair.Access.Token
	user.AccessTokenExpiresAt = pair.Access.ExpiresAt
	user.RefreshToken = pair.Refresh.Token
	user.RefreshTokenExpiresAt = pair.Refresh.ExpiresAt
	if err := m.repo.Upsert(user); err != nil {
		return nil, fmt.Errorf("failed to store tokens: %w", err)
	}

	return &apimodel.TokenPair{
		AccessToken:  pair.Access.Token,
		RefreshToken: pair.Refresh.Token,
	}, nil
}
