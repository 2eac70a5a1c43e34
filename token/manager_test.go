package token_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-admin-session/internal/config"
	"github.com/jrsteele09/go-admin-session/internal/errors"
	"github.com/jrsteele09/go-admin-session/token"
)

type testTokenConfig struct {
	format string
	secret string
}

func (c testTokenConfig) GetTokenFormat() string               { return c.format }
func (c testTokenConfig) GetTokenSecret() string               { return c.secret }
func (c testTokenConfig) GetTokenRandomLength() int            { return 16 }
func (c testTokenConfig) GetAccessTokenExpiry() time.Duration  { return time.Hour }
func (c testTokenConfig) GetRefreshTokenExpiry() time.Duration { return 30 * 24 * time.Hour }

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func setupManager(t *testing.T, format string) *token.Manager {
	t.Helper()
	m, err := token.New(testTokenConfig{format: format, secret: "test-secret"},
		token.WithNowFunc(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return m
}

func TestIssueOpaque(t *testing.T) {
	m := setupManager(t, config.TokenFormatOpaque)

	pair, err := m.Issue("admin")
	require.NoError(t, err)

	require.Regexp(t, regexp.MustCompile(`^admin-access-[0-9a-f]{32}$`), pair.Access.Token)
	require.Regexp(t, regexp.MustCompile(`^admin-refresh-[0-9a-f]{32}$`), pair.Refresh.Token)
	require.Equal(t, fixedNow.Add(time.Hour), pair.Access.ExpiresAt)
	require.Equal(t, fixedNow.Add(30*24*time.Hour), pair.Refresh.ExpiresAt)

	again, err := m.Issue("admin")
	require.NoError(t, err)
	require.NotEqual(t, pair.Access.Token, again.Access.Token)

	require.NoError(t, m.Verify(pair.Access.Token, token.KindAccess))
	require.NoError(t, m.Verify(pair.Refresh.Token, token.KindRefresh))
	require.ErrorIs(t, m.Verify(pair.Access.Token, token.KindRefresh), errors.ErrInvalidToken)
	require.ErrorIs(t, m.Verify("garbage", token.KindAccess), errors.ErrInvalidToken)
}

func TestIssueJWT(t *testing.T) {
	m := setupManager(t, config.TokenFormatJWT)
	require.Equal(t, config.TokenFormatJWT, m.Format())

	pair, err := m.Issue("test-user")
	require.NoError(t, err)

	require.NoError(t, m.Verify(pair.Access.Token, token.KindAccess))
	require.NoError(t, m.Verify(pair.Refresh.Token, token.KindRefresh))
	require.ErrorIs(t, m.Verify(pair.Refresh.Token, token.KindAccess), errors.ErrInvalidToken)

	other, err := token.New(testTokenConfig{format: config.TokenFormatJWT, secret: "other-secret"})
	require.NoError(t, err)
	require.ErrorIs(t, other.Verify(pair.Access.Token, token.KindAccess), errors.ErrInvalidToken)
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := token.New(testTokenConfig{format: "paseto"})
	require.ErrorIs(t, err, errors.ErrUnsupportedFormat)

	_, err = token.New(testTokenConfig{format: config.TokenFormatJWT})
	require.Error(t, err)
}

func TestIsExpired(t *testing.T) {
	m := setupManager(t, config.TokenFormatOpaque)

	require.False(t, m.IsExpired(fixedNow))
	require.False(t, m.IsExpired(fixedNow.Add(time.Second)))
	require.True(t, m.IsExpired(fixedNow.Add(-time.Millisecond)))
}
