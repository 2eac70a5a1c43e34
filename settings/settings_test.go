package settings_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-admin-session/internal/utils"
	"github.com/jrsteele09/go-admin-session/settings"
	"github.com/jrsteele09/go-admin-session/storage"
)

type testFixture struct {
	backend  *storage.Memory
	keys     storage.Keys
	registry *settings.Registry
	store    *settings.Store
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	f := &testFixture{
		backend:  storage.NewMemory(),
		keys:     storage.NewKeys("test:"),
		registry: settings.NewRegistry(),
	}
	f.store = settings.New(f.backend, f.keys, f.registry, settings.WithLogger(zerolog.Nop()))
	return f
}

func TestStore_Defaults(t *testing.T) {
	f := setupTestFixture(t)
	s := f.store.Settings()

	require.Equal(t, settings.ThemeSystem, s.Theme)
	require.Equal(t, settings.LayoutVertical, s.Layout)
	require.Equal(t, 220, s.SidebarWidth)
	require.True(t, s.IsShowTags)
	require.Nil(t, s.PrimaryColor)
}

func TestStore_ApplyDispatchesAndPersists(t *testing.T) {
	f := setupTestFixture(t)

	var themes []settings.Theme
	f.registry.OnTheme(func(s settings.Settings, e settings.ThemeChanged) {
		require.Equal(t, e.Theme, s.Theme, "handlers see the new state")
		themes = append(themes, e.Theme)
	})
	var widths []int
	f.registry.OnSidebarWidth(func(_ settings.Settings, e settings.SidebarWidthChanged) {
		widths = append(widths, e.Width)
	})

	require.NoError(t, f.store.Apply(settings.ThemeChanged{Theme: settings.ThemeDark}))
	require.NoError(t, f.store.Apply(settings.SidebarWidthChanged{Width: 260}))
	require.NoError(t, f.store.Apply(settings.ToggleChanged{Toggle: settings.ToggleShowTags, Value: false}))
	require.NoError(t, f.store.Apply(settings.PrimaryColorChanged{Color: utils.Ptr("#409eff")}))

	require.Equal(t, []settings.Theme{settings.ThemeDark}, themes)
	require.Equal(t, []int{260}, widths)

	restored := settings.New(f.backend, f.keys, nil, settings.WithLogger(zerolog.Nop()))
	s := restored.Settings()
	require.Equal(t, settings.ThemeDark, s.Theme)
	require.Equal(t, 260, s.SidebarWidth)
	require.False(t, s.IsShowTags)
	require.Equal(t, "#409eff", utils.Value(s.PrimaryColor))
	require.True(t, s.IsDark(false))
}

func TestStore_RejectsInvalidChanges(t *testing.T) {
	f := setupTestFixture(t)

	called := false
	f.registry.OnLayout(func(settings.Settings, settings.LayoutChanged) { called = true })

	tests := []settings.Event{
		settings.ThemeChanged{Theme: "neon"},
		settings.LayoutChanged{Layout: "diagonal"},
		settings.SidebarWidthChanged{Width: 10},
		settings.PageTransitionChanged{Transition: "spin"},
		settings.PrimaryColorChanged{Color: utils.Ptr("")},
		settings.ToggleChanged{Toggle: 99},
	}
	for _, ev := range tests {
		require.ErrorIs(t, f.store.Apply(ev), settings.ErrInvalidSetting, "%T", ev)
	}
	require.False(t, called)
	require.Equal(t, settings.Defaults(), f.store.Settings())
}

type foreignEvent struct {
	settings.Event
}

func TestRegistry_UnknownEventPanics(t *testing.T) {
	r := settings.NewRegistry()
	require.Panics(t, func() {
		r.Dispatch(settings.Defaults(), foreignEvent{})
	})
}

func TestRegistry_HandlerCanRegisterDuringDispatch(t *testing.T) {
	r := settings.NewRegistry()
	var late int
	r.OnTheme(func(settings.Settings, settings.ThemeChanged) {
		r.OnTheme(func(settings.Settings, settings.ThemeChanged) { late++ })
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Dispatch(settings.Defaults(), settings.ThemeChanged{Theme: settings.ThemeDark})
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatch deadlocked on registration")
	}
	require.Zero(t, late, "handlers added during a dispatch wait for the next one")

	r.Dispatch(settings.Defaults(), settings.ThemeChanged{Theme: settings.ThemeLight})
	require.Equal(t, 1, late)
}

func TestSettings_IsDark(t *testing.T) {
	s := settings.Defaults()
	require.True(t, s.IsDark(true))
	require.False(t, s.IsDark(false))

	s.Theme = settings.ThemeLight
	require.False(t, s.IsDark(true))
}
