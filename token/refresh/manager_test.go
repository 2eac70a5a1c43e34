package refresh_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-admin-session/internal/config"
	"github.com/jrsteele09/go-admin-session/internal/errors"
	"github.com/jrsteele09/go-admin-session/token"
	"github.com/jrsteele09/go-admin-session/token/refresh"
	"github.com/jrsteele09/go-admin-session/users"
	fakeuserrepo "github.com/jrsteele09/go-admin-session/users/repofake"
)

type testTokenConfig struct{}

func (testTokenConfig) GetTokenFormat() string               { return config.TokenFormatOpaque }
func (testTokenConfig) GetTokenSecret() string               { return "" }
func (testTokenConfig) GetTokenRandomLength() int            { return 16 }
func (testTokenConfig) GetAccessTokenExpiry() time.Duration  { return time.Hour }
func (testTokenConfig) GetRefreshTokenExpiry() time.Duration { return time.Hour }

type testFixture struct {
	repo    users.UserRepo
	manager *refresh.Manager
	now     time.Time
	mu      sync.Mutex
}

func (f *testFixture) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{
		repo: fakeuserrepo.NewFakeUserRepo(),
		now:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, users.SeedRepo(f.repo))

	tokens, err := token.New(testTokenConfig{}, token.WithNowFunc(func() time.Time {
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.now
	}))
	require.NoError(t, err)

	f.manager = refresh.NewManager(f.repo, tokens)
	return f
}

func (f *testFixture) login(t *testing.T) string {
	t.Helper()
	admin, err := f.repo.GetByUsername("admin")
	require.NoError(t, err)
	pair, err := f.manager.Create(admin)
	require.NoError(t, err)
	return pair.RefreshToken
}

func TestCreateStoresPairOnAccount(t *testing.T) {
	f := setupTestFixture(t)
	admin, err := f.repo.GetByUsername("admin")
	require.NoError(t, err)

	pair, err := f.manager.Create(admin)
	require.NoError(t, err)

	stored, err := f.repo.GetByAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, admin.ID, stored.ID)
	require.Equal(t, pair.RefreshToken, stored.RefreshToken)
	require.Equal(t, f.now.Add(time.Hour), stored.AccessTokenExpiresAt)
}

func TestRotateInvalidatesPreviousTokens(t *testing.T) {
	f := setupTestFixture(t)
	first := f.login(t)

	pair, err := f.manager.Rotate(first)
	require.NoError(t, err)
	require.NotEqual(t, first, pair.RefreshToken)

	_, err = f.manager.Rotate(first)
	require.ErrorIs(t, err, errors.ErrInvalidRefreshToken)

	_, err = f.manager.Rotate(pair.RefreshToken)
	require.NoError(t, err)
}

func TestRotateExpired(t *testing.T) {
	f := setupTestFixture(t)
	rt := f.login(t)

	f.advance(time.Hour)
	_, err := f.manager.Rotate(rt)
	require.NoError(t, err, "the expiry instant itself is still valid")

	rt = f.login(t)
	f.advance(time.Hour + time.Second)
	_, err = f.manager.Rotate(rt)
	require.ErrorIs(t, err, errors.ErrRefreshTokenExpired)
}

func TestRotateUnknown(t *testing.T) {
	f := setupTestFixture(t)
	_, err := f.manager.Rotate("admin-refresh-00000000000000000000000000000000")
	require.ErrorIs(t, err, errors.ErrInvalidRefreshToken)
}

func TestConcurrentRotateOnlyOneWins(t *testing.T) {
	f := setupTestFixture(t)
	rt := f.login(t)

	const n = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.manager.Rotate(rt); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, wins)
}
