// Package settings holds the dashboard preferences and dispatches typed change
// events to registered side-effect handlers.
package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-admin-session/storage"
)

var ErrInvalidSetting = errors.New("invalid setting")

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

type Layout string

const (
	LayoutVertical   Layout = "vertical"
	LayoutHorizontal Layout = "horizontal"
)

type PageTransition string

const (
	TransitionNone        PageTransition = "none"
	TransitionFade        PageTransition = "fade"
	TransitionSlideLeft   PageTransition = "slide-left"
	TransitionSlideBottom PageTransition = "slide-bottom"
	TransitionSlideTop    PageTransition = "slide-top"
)

const (
	MinSidebarWidth = 160
	MaxSidebarWidth = 400
)

type Settings struct {
	Theme                 Theme          `json:"theme"`
	Layout                Layout         `json:"layout"`
	SidebarWidth          int            `json:"sidebarWidth"`
	SidebarCollapsed      bool           `json:"sidebarCollapsed"`
	IsShowTags            bool           `json:"isShowTags"`
	IsShowBreadcrumb      bool           `json:"isShowBreadcrumb"`
	IsShowProgress        bool           `json:"isShowProgress"`
	IsShowFullscreen      bool           `json:"isShowFullscreen"`
	IsNeedWatermark       bool           `json:"isNeedWatermark"`
	PageTransitionType    PageTransition `json:"pageTransitionType"`
	SettingsDrawerVisible bool           `json:"settingsDrawerVisible"`
	PrimaryColor          *string        `json:"primaryColor"` // nil keeps the theme's default
}

func Defaults() Settings {
	return Settings{
		Theme:              ThemeSystem,
		Layout:             LayoutVertical,
		SidebarWidth:       220,
		IsShowTags:         true,
		IsShowBreadcrumb:   true,
		IsShowProgress:     true,
		PageTransitionType: TransitionFade,
	}
}

// IsDark resolves the theme, using systemDark for ThemeSystem.
func (s Settings) IsDark(systemDark bool) bool {
	switch s.Theme {
	case ThemeDark:
		return true
	case ThemeLight:
		return false
	}
	return systemDark
}

// Store owns the current settings. Each change is validated, persisted, then dispatched.
type Store struct {
	mu       sync.Mutex
	state    Settings
	backend  storage.Backend
	key      string
	registry *Registry
	logger   zerolog.Logger
}

type Option func(*Store)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New loads saved settings over the defaults.
func New(backend storage.Backend, keys storage.Keys, registry *Registry, opts ...Option) *Store {
	s := &Store{
		state:    Defaults(),
		backend:  backend,
		key:      keys.Settings(),
		registry: registry,
		logger:   log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	saved := Defaults()
	found, err := storage.GetJSON(context.Background(), backend, s.key, &saved)
	switch {
	case err != nil:
		s.logger.Warn().Err(err).Msg("Failed to restore settings, using defaults")
	case found:
		s.state = saved
	}
	return s
}

func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Apply changes one setting and runs its side effects.
func (s *Store) Apply(ev Event) error {
	if err := ev.validate(); err != nil {
		return err
	}

	s.mu.Lock()
	ev.apply(&s.state)
	snapshot := s.state
	if err := storage.SetJSON(context.Background(), s.backend, s.key, snapshot); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist settings")
	}
	s.mu.Unlock()

	if s.registry != nil {
		s.registry.Dispatch(snapshot, ev)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidSetting}, args...)...)
}
