package tabs_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-admin-session/apimodel"
	"github.com/jrsteele09/go-admin-session/internal/utils"
	"github.com/jrsteele09/go-admin-session/routes"
	"github.com/jrsteele09/go-admin-session/storage"
	"github.com/jrsteele09/go-admin-session/tabs"
)

type testFixture struct {
	backend *storage.Memory
	keys    storage.Keys
	history *routes.History
	tabs    *tabs.Store
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	f := &testFixture{
		backend: storage.NewMemory(),
		keys:    storage.NewKeys("test:"),
		history: routes.NewHistory(routes.Location{Path: routes.PathDashboard}),
	}
	f.tabs = tabs.New(f.backend, f.keys, f.history, tabs.WithLogger(zerolog.Nop()))
	return f
}

func paths(list []tabs.Tab) []string {
	out := make([]string, 0, len(list))
	for _, t := range list {
		out = append(out, t.Path)
	}
	return out
}

func (f *testFixture) open(t *testing.T, ps ...string) {
	t.Helper()
	for _, p := range ps {
		f.tabs.Add(tabs.Tab{Path: p, Title: p})
	}
}

func TestStore_AddByRoute(t *testing.T) {
	f := setupTestFixture(t)

	f.tabs.AddByRoute(routes.Location{Path: routes.PathLogin})
	f.tabs.AddByRoute(routes.Location{Path: routes.PathNotFound})
	f.tabs.AddByRoute(routes.Location{Path: "/system/user", Name: "SystemUser", Meta: routes.Meta{Title: "用户管理"}})
	f.tabs.AddByRoute(routes.Location{Path: "/system/user", Name: "SystemUser"})
	f.tabs.AddByRoute(routes.Location{Path: "/profile", Name: "Profile"})

	list := f.tabs.Tabs()
	require.Equal(t, []string{"/system/user", "/profile"}, paths(list))
	require.Equal(t, "用户管理", list[0].Title)
	require.Equal(t, "Profile", list[1].Title, "falls back to the route name")
}

func TestStore_InitAffixPinsInFront(t *testing.T) {
	f := setupTestFixture(t)
	f.open(t, "/profile", "/system/role")

	f.tabs.InitAffix([]apimodel.Menu{
		{Name: "System", Path: utils.Ptr("/system"), Children: []apimodel.Menu{
			{Name: "SystemUser", Path: utils.Ptr("/system/user"), Title: "用户管理", IsAffix: 1},
			{Name: "SystemRole", Path: utils.Ptr("/system/role"), Title: "角色管理", IsAffix: 1},
		}},
		{Name: "NoPath", IsAffix: 1},
	})

	list := f.tabs.Tabs()
	require.Equal(t, []string{"/system/user", "/profile", "/system/role"}, paths(list))
	require.True(t, list[0].IsAffix)
	require.True(t, list[2].IsAffix, "existing tab becomes affix")
}

func TestStore_CloseSkipsAffixAndMovesActive(t *testing.T) {
	f := setupTestFixture(t)
	f.open(t, "/a", "/b", "/c")
	f.tabs.ToggleAffix("/a")
	f.history.Push(routes.Location{Path: "/c"})

	f.tabs.Close("/a")
	require.Len(t, f.tabs.Tabs(), 3)

	f.tabs.Close("/c")
	require.Equal(t, []string{"/a", "/b"}, paths(f.tabs.Tabs()))
	require.Equal(t, "/b", f.history.Current().Path)

	f.tabs.Close("/missing")
	require.Len(t, f.tabs.Tabs(), 2)
}

func TestStore_CloseLeftRightOthers(t *testing.T) {
	f := setupTestFixture(t)
	f.open(t, "/a", "/b", "/c", "/d", "/e")
	f.tabs.ToggleAffix("/a")
	f.history.Push(routes.Location{Path: "/b"})

	f.tabs.CloseRight("/d")
	require.Equal(t, []string{"/a", "/b", "/c", "/d"}, paths(f.tabs.Tabs()))

	f.tabs.CloseLeft("/c")
	require.Equal(t, []string{"/a", "/c", "/d"}, paths(f.tabs.Tabs()))
	require.Equal(t, "/c", f.history.Current().Path, "active tab was closed")

	f.tabs.CloseOthers("/d")
	require.Equal(t, []string{"/a", "/d"}, paths(f.tabs.Tabs()))
	require.Equal(t, "/d", f.history.Current().Path)
}

func TestStore_CloseAll(t *testing.T) {
	f := setupTestFixture(t)
	f.open(t, "/a", "/b")

	f.tabs.CloseAll()
	require.Empty(t, f.tabs.Tabs())
	require.Equal(t, routes.PathRoot, f.history.Current().Path)

	f.open(t, "/x", "/y")
	f.tabs.ToggleAffix("/y")
	f.tabs.CloseAll()
	require.Equal(t, []string{"/y"}, paths(f.tabs.Tabs()))
	require.Equal(t, "/y", f.history.Current().Path)
}

func TestStore_PersistsAndClears(t *testing.T) {
	f := setupTestFixture(t)
	f.open(t, "/a", "/b")

	restored := tabs.New(f.backend, f.keys, f.history, tabs.WithLogger(zerolog.Nop()))
	require.Equal(t, []string{"/a", "/b"}, paths(restored.Tabs()))

	f.tabs.ToggleAffix("/a")
	f.tabs.Clear()
	require.Empty(t, f.tabs.Tabs())

	_, found, err := f.backend.Get(context.Background(), f.keys.Tabs())
	require.NoError(t, err)
	require.False(t, found)
}

func TestStore_Reload(t *testing.T) {
	f := setupTestFixture(t)
	f.tabs.Reload("/system/user")

	current := f.history.Current()
	require.Equal(t, "/redirect/system/user", current.Path)
	require.True(t, current.Replace)
}
