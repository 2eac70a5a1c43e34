// Package lockscreen holds the dashboard's lock screen state.
package lockscreen

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/jrsteele09/go-admin-session/storage"
)

// State is the persisted lock info. Only a bcrypt hash of the password is kept.
type State struct {
	IsLocked     bool   `json:"isLocked"`
	PasswordHash string `json:"lockPassword,omitempty"`
}

type Lock struct {
	mu      sync.Mutex
	state   State
	backend storage.Backend
	key     string
	logger  zerolog.Logger
}

type Option func(*Lock)

func WithLogger(logger zerolog.Logger) Option {
	return func(l *Lock) {
		l.logger = logger
	}
}

// New restores any saved lock state from backend.
func New(backend storage.Backend, keys storage.Keys, opts ...Option) *Lock {
	l := &Lock{
		backend: backend,
		key:     keys.LockInfo(),
		logger:  log.Logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	if _, err := storage.GetJSON(context.Background(), backend, l.key, &l.state); err != nil {
		l.logger.Warn().Err(err).Msg("Failed to restore lock state")
		l.state = State{}
	}
	return l
}

func (l *Lock) IsLocked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.IsLocked
}

// Lock locks the screen behind password.
func (l *Lock) Lock(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing lock password: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.state = State{IsLocked: true, PasswordHash: string(hash)}
	if err := storage.SetJSON(context.Background(), l.backend, l.key, l.state); err != nil {
		l.logger.Warn().Err(err).Msg("Failed to persist lock state")
	}
	return nil
}

// Unlock reports whether password matches; on a match the lock is released.
func (l *Lock) Unlock(password string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.state.IsLocked {
		return true
	}
	if bcrypt.CompareHashAndPassword([]byte(l.state.PasswordHash), []byte(password)) != nil {
		return false
	}
	l.clear()
	return true
}

// Reset releases the lock without a password.
func (l *Lock) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clear()
}

func (l *Lock) clear() {
	l.state = State{}
	if err := l.backend.Delete(context.Background(), l.key); err != nil {
		l.logger.Warn().Err(err).Msg("Failed to remove lock state")
	}
}
