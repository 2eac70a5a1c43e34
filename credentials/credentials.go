// Package credentials holds the access/refresh token pair and the cached user
// profile on top of a storage.Backend.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-admin-session/apimodel"
	"github.com/jrsteele09/go-admin-session/storage"
)

// ErrNoAccessToken is returned by Token when nobody is logged in.
var ErrNoAccessToken = errors.New("no access token stored")

type Kind int

const (
	AccessToken Kind = iota
	RefreshToken
)

func (k Kind) String() string {
	switch k {
	case AccessToken:
		return "access_token"
	case RefreshToken:
		return "refresh_token"
	}
	return "unknown"
}

// Credentials is a snapshot of the stored token pair.
// Expiries are zero for opaque tokens and filled from the exp claim for JWTs.
type Credentials struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// OAuth2Token views the pair as an oauth2.Token. A zero expiry never expires.
func (c Credentials) OAuth2Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		Expiry:       c.AccessTokenExpiry,
	}
}

// Store is the single owner of persisted credentials.
// Storage failures are logged and reported as absence; no method returns them.
type Store struct {
	mu      sync.RWMutex
	backend storage.Backend
	keys    storage.Keys
	logger  zerolog.Logger
}

var _ oauth2.TokenSource = (*Store)(nil)

type Option func(*Store)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func New(backend storage.Backend, keys storage.Keys, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		keys:    keys,
		logger:  log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Keys() storage.Keys {
	return s.keys
}

// Get returns the stored token of the given kind.
func (s *Store) Get(kind Kind) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(kind)
}

func (s *Store) get(kind Kind) (string, bool) {
	key := s.keys.AccessToken()
	if kind == RefreshToken {
		key = s.keys.RefreshToken()
	}
	v, found, err := s.backend.Get(context.Background(), key)
	if err != nil {
		s.logger.Warn().Err(err).Str("kind", kind.String()).Msg("Failed to read token from storage")
		return "", false
	}
	if !found || v == "" {
		return "", false
	}
	return v, true
}

// Set stores both tokens in one backend write.
func (s *Store) Set(accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(accessToken, refreshToken)
}

// SetIf stores the pair only while the stored refresh token is still
// expectedRefresh. It reports false when the session was cleared or replaced
// in the meantime, leaving storage untouched.
func (s *Store) SetIf(expectedRefresh, accessToken, refreshToken string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.get(RefreshToken)
	if !ok || current != expectedRefresh {
		return false
	}
	s.set(accessToken, refreshToken)
	return true
}

func (s *Store) set(accessToken, refreshToken string) {
	err := s.backend.Set(context.Background(), map[string]string{
		s.keys.AccessToken():  accessToken,
		s.keys.RefreshToken(): refreshToken,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist tokens")
	}
}

// Clear removes both tokens and the cached profile.
// It reports whether any of them were present, so only one of several
// concurrent callers observes true.
func (s *Store) Clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	present := false
	for _, key := range s.keys.Session() {
		v, found, err := s.backend.Get(context.Background(), key)
		if err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Failed to read session key")
			present = true
			continue
		}
		if found && v != "" {
			present = true
		}
	}

	if err := s.backend.Delete(context.Background(), s.keys.Session()...); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to remove session from storage")
	}
	return present
}

// Profile returns the cached user profile.
func (s *Store) Profile() (*apimodel.UserInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var info apimodel.UserInfo
	found, err := storage.GetJSON(context.Background(), s.backend, s.keys.UserInfo(), &info)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to read cached profile")
		return nil, false
	}
	if !found {
		return nil, false
	}
	return &info, true
}

func (s *Store) SetProfile(info *apimodel.UserInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setProfile(info)
}

// SetProfileIfActive caches info only while an access token is stored.
// It reports false, caching nothing, once the session was cleared.
func (s *Store) SetProfileIfActive(info *apimodel.UserInfo) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.get(AccessToken); !ok {
		return false
	}
	s.setProfile(info)
	return true
}

func (s *Store) setProfile(info *apimodel.UserInfo) {
	if info == nil {
		if err := s.backend.Delete(context.Background(), s.keys.UserInfo()); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to remove cached profile")
		}
		return
	}

	raw, err := json.Marshal(info)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to encode profile")
		return
	}
	if err := s.backend.Set(context.Background(), map[string]string{s.keys.UserInfo(): string(raw)}); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to cache profile")
	}
}

// Credentials returns the current pair with any expiries the tokens carry.
func (s *Store) Credentials() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()

	access, _ := s.get(AccessToken)
	refresh, _ := s.get(RefreshToken)
	return Credentials{
		AccessToken:        access,
		AccessTokenExpiry:  ExpiryOf(access),
		RefreshToken:       refresh,
		RefreshTokenExpiry: ExpiryOf(refresh),
	}
}

// Token implements oauth2.TokenSource over the stored pair.
func (s *Store) Token() (*oauth2.Token, error) {
	c := s.Credentials()
	if c.AccessToken == "" {
		return nil, ErrNoAccessToken
	}
	return c.OAuth2Token(), nil
}

// ExpiryOf reads the exp claim of a JWT without verifying it.
// Opaque tokens and JWTs without exp yield the zero time.
func ExpiryOf(token string) time.Time {
	if token == "" {
		return time.Time{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
