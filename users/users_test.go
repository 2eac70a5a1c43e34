package users_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-admin-session/internal/errors"
	"github.com/jrsteele09/go-admin-session/users"
	"github.com/jrsteele09/go-admin-session/users/filerepo"
	fakeuserrepo "github.com/jrsteele09/go-admin-session/users/repofake"
)

func repos(t *testing.T) map[string]users.UserRepo {
	t.Helper()

	fr, err := filerepo.New(filepath.Join(t.TempDir(), "data", "db.json"))
	require.NoError(t, err)

	return map[string]users.UserRepo{
		"fake": fakeuserrepo.NewFakeUserRepo(),
		"file": fr,
	}
}

func TestSeedRepo(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, users.SeedRepo(repo))
			require.NoError(t, users.SeedRepo(repo), "seeding twice is a no-op")

			list, err := repo.List()
			require.NoError(t, err)
			require.Len(t, list, 2)
			require.Equal(t, "admin", list[0].Username)
			require.Equal(t, "test", list[1].Username)

			admin, err := repo.GetByUsername("admin")
			require.NoError(t, err)
			require.True(t, admin.CheckPassword(users.DefaultPassword))
			require.False(t, admin.CheckPassword("wrong"))
			require.Len(t, admin.Permissions, 6)
		})
	}
}

func TestRepoLookups(t *testing.T) {
	expiry := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			u := &users.User{Username: "alice", Nickname: "Alice"}
			require.NoError(t, repo.Upsert(u))
			require.NotZero(t, u.ID)

			u.AccessToken = "alice-access-aa"
			u.AccessTokenExpiresAt = expiry
			u.RefreshToken = "alice-refresh-bb"
			require.NoError(t, repo.Upsert(u))

			byID, err := repo.GetByID(u.ID)
			require.NoError(t, err)
			require.Equal(t, "Alice", byID.Nickname)
			require.True(t, expiry.Equal(byID.AccessTokenExpiresAt))

			byAccess, err := repo.GetByAccessToken("alice-access-aa")
			require.NoError(t, err)
			require.Equal(t, u.ID, byAccess.ID)

			byRefresh, err := repo.GetByRefreshToken("alice-refresh-bb")
			require.NoError(t, err)
			require.Equal(t, u.ID, byRefresh.ID)

			_, err = repo.GetByAccessToken("")
			require.ErrorIs(t, err, errors.ErrUserNotFound)
			_, err = repo.GetByRefreshToken("nope")
			require.ErrorIs(t, err, errors.ErrUserNotFound)
			_, err = repo.GetByUsername("bob")
			require.ErrorIs(t, err, errors.ErrUserNotFound)

			require.ErrorIs(t, repo.Upsert(&users.User{}), errors.ErrInvalidArgument)
		})
	}
}

func TestRepoReturnsCopies(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()
	require.NoError(t, users.SeedRepo(repo))

	admin, err := repo.GetByUsername("admin")
	require.NoError(t, err)
	admin.Permissions[0] = "changed"
	admin.Menus[0].Title = "changed"

	again, err := repo.GetByUsername("admin")
	require.NoError(t, err)
	require.Equal(t, "system:user:list", again.Permissions[0])
	require.NotEqual(t, "changed", again.Menus[0].Title)
}

func TestFileRepoPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")

	first, err := filerepo.New(path)
	require.NoError(t, err)
	require.NoError(t, users.SeedRepo(first))

	admin, err := first.GetByUsername("admin")
	require.NoError(t, err)
	admin.RefreshToken = "admin-refresh-cc"
	require.NoError(t, first.Upsert(admin))

	second, err := filerepo.New(path)
	require.NoError(t, err)
	reloaded, err := second.GetByRefreshToken("admin-refresh-cc")
	require.NoError(t, err)
	require.Equal(t, admin.ID, reloaded.ID)
}

func TestInfoOmitsSecrets(t *testing.T) {
	seeded, err := users.Seed()
	require.NoError(t, err)

	info := seeded[1].Info()
	require.Equal(t, "test", info.Username)
	require.NotNil(t, info.Menus)
	require.Equal(t, []string{"system:user:list"}, info.Permissions)

	empty := (&users.User{Username: "x"}).Info()
	require.NotNil(t, empty.Menus)
	require.NotNil(t, empty.Permissions)
}
