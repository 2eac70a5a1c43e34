package credentials_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-admin-session/apimodel"
	"github.com/jrsteele09/go-admin-session/credentials"
	"github.com/jrsteele09/go-admin-session/storage"
)

type testFixture struct {
	backend *storage.Memory
	store   *credentials.Store
	keys    storage.Keys
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	backend := storage.NewMemory()
	keys := storage.NewKeys("test:")
	return &testFixture{
		backend: backend,
		keys:    keys,
		store:   credentials.New(backend, keys, credentials.WithLogger(zerolog.Nop())),
	}
}

func TestStore_SetGet(t *testing.T) {
	f := setupTestFixture(t)

	_, ok := f.store.Get(credentials.AccessToken)
	require.False(t, ok)

	f.store.Set("admin-access-1", "admin-refresh-1")

	access, ok := f.store.Get(credentials.AccessToken)
	require.True(t, ok)
	require.Equal(t, "admin-access-1", access)

	refresh, ok := f.store.Get(credentials.RefreshToken)
	require.True(t, ok)
	require.Equal(t, "admin-refresh-1", refresh)

	raw, found, err := f.backend.Get(context.Background(), f.keys.AccessToken())
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "admin-access-1", raw, "tokens are stored raw")
}

func TestStore_SetIf(t *testing.T) {
	f := setupTestFixture(t)
	f.store.Set("admin-access-1", "admin-refresh-1")

	require.True(t, f.store.SetIf("admin-refresh-1", "admin-access-2", "admin-refresh-2"))
	access, _ := f.store.Get(credentials.AccessToken)
	require.Equal(t, "admin-access-2", access)

	require.False(t, f.store.SetIf("admin-refresh-1", "admin-access-3", "admin-refresh-3"), "stale refresh token")
	access, _ = f.store.Get(credentials.AccessToken)
	require.Equal(t, "admin-access-2", access)

	require.True(t, f.store.Clear())
	require.False(t, f.store.SetIf("admin-refresh-2", "admin-access-3", "admin-refresh-3"), "cleared session")
	_, ok := f.store.Get(credentials.AccessToken)
	require.False(t, ok)
}

func TestStore_ClearIsAGate(t *testing.T) {
	f := setupTestFixture(t)
	f.store.Set("a", "r")
	f.store.SetProfile(&apimodel.UserInfo{ID: 1, Username: "admin"})

	require.True(t, f.store.Clear())
	require.False(t, f.store.Clear())

	_, ok := f.store.Profile()
	require.False(t, ok)
	_, ok = f.store.Get(credentials.RefreshToken)
	require.False(t, ok)
}

func TestStore_ConcurrentClearOnlyOneWins(t *testing.T) {
	f := setupTestFixture(t)
	f.store.Set("a", "r")

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.store.Clear() {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, wins)
}

func TestStore_Profile(t *testing.T) {
	f := setupTestFixture(t)

	info := &apimodel.UserInfo{
		ID:          1,
		Username:    "admin",
		Nickname:    "Administrator",
		Permissions: []string{"system:user:list"},
		Menus:       []apimodel.Menu{{ID: 1, Name: "Dashboard", Title: "Dashboard"}},
	}
	f.store.SetProfile(info)

	got, ok := f.store.Profile()
	require.True(t, ok)
	require.Equal(t, info, got)

	f.store.SetProfile(nil)
	_, ok = f.store.Profile()
	require.False(t, ok)
}

func TestStore_CredentialsFromJWT(t *testing.T) {
	f := setupTestFixture(t)

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	f.store.Set(signed, "admin-refresh-0123456789abcdef0123456789abcdef")

	c := f.store.Credentials()
	require.True(t, exp.Equal(c.AccessTokenExpiry))
	require.True(t, c.RefreshTokenExpiry.IsZero(), "opaque tokens carry no expiry")

	tok, err := f.store.Token()
	require.NoError(t, err)
	require.True(t, tok.Valid())
}

func TestStore_TokenExpired(t *testing.T) {
	f := setupTestFixture(t)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	f.store.Set(signed, "r")

	tok, err := f.store.Token()
	require.NoError(t, err)
	require.False(t, tok.Valid())
}

func TestStore_TokenWithoutLogin(t *testing.T) {
	f := setupTestFixture(t)
	_, err := f.store.Token()
	require.ErrorIs(t, err, credentials.ErrNoAccessToken)
}

type failingBackend struct{}

func (failingBackend) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk on fire")
}
func (failingBackend) Set(context.Context, map[string]string) error {
	return errors.New("disk on fire")
}
func (failingBackend) Delete(context.Context, ...string) error { return errors.New("disk on fire") }

func TestStore_SwallowsStorageErrors(t *testing.T) {
	s := credentials.New(failingBackend{}, storage.NewKeys(""), credentials.WithLogger(zerolog.Nop()))

	require.NotPanics(t, func() {
		s.Set("a", "r")
		s.SetProfile(&apimodel.UserInfo{})
	})
	_, ok := s.Get(credentials.AccessToken)
	require.False(t, ok)
	_, ok = s.Profile()
	require.False(t, ok)
}
