package loginattempts_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-admin-session/server/loginattempts"
)

func TestCacheRepoCounts(t *testing.T) {
	repo := loginattempts.NewCacheRepo(time.Minute)

	require.Equal(t, 0, repo.Count("admin"))
	for i := 1; i <= 3; i++ {
		n, err := repo.Fail("admin")
		require.NoError(t, err)
		require.Equal(t, i, n)
	}
	require.Equal(t, 3, repo.Count("admin"))
	require.Equal(t, 0, repo.Count("test"))

	repo.Reset("admin")
	require.Equal(t, 0, repo.Count("admin"))
}

func TestCacheRepoWindowExpires(t *testing.T) {
	repo := loginattempts.NewCacheRepo(50 * time.Millisecond)

	_, err := repo.Fail("admin")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return repo.Count("admin") == 0
	}, time.Second, 10*time.Millisecond)

	n, err := repo.Fail("admin")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
