package settings

import (
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// Registry holds side-effect handlers per event type.
type Registry struct {
	mu             sync.RWMutex
	theme          []func(Settings, ThemeChanged)
	layout         []func(Settings, LayoutChanged)
	sidebarWidth   []func(Settings, SidebarWidthChanged)
	fullscreen     []func(Settings, FullscreenChanged)
	primaryColor   []func(Settings, PrimaryColorChanged)
	pageTransition []func(Settings, PageTransitionChanged)
	toggle         []func(Settings, ToggleChanged)
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) OnTheme(fn func(Settings, ThemeChanged)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.theme = append(r.theme, fn)
}

func (r *Registry) OnLayout(fn func(Settings, LayoutChanged)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layout = append(r.layout, fn)
}

func (r *Registry) OnSidebarWidth(fn func(Settings, SidebarWidthChanged)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sidebarWidth = append(r.sidebarWidth, fn)
}

func (r *Registry) OnFullscreen(fn func(Settings, FullscreenChanged)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fullscreen = append(r.fullscreen, fn)
}

func (r *Registry) OnPrimaryColor(fn func(Settings, PrimaryColorChanged)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.primaryColor = append(r.primaryColor, fn)
}

func (r *Registry) OnPageTransition(fn func(Settings, PageTransitionChanged)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pageTransition = append(r.pageTransition, fn)
}

func (r *Registry) OnToggle(fn func(Settings, ToggleChanged)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toggle = append(r.toggle, fn)
}

// Dispatch runs the handlers registered for ev's type. Handlers run outside
// the registry lock and may register further handlers.
// It panics on an event type it does not know.
func (r *Registry) Dispatch(s Settings, ev Event) {
	switch e := ev.(type) {
	case ThemeChanged:
		for _, fn := range snapshot(&r.mu, &r.theme) {
			fn(s, e)
		}
	case LayoutChanged:
		for _, fn := range snapshot(&r.mu, &r.layout) {
			fn(s, e)
		}
	case SidebarWidthChanged:
		for _, fn := range snapshot(&r.mu, &r.sidebarWidth) {
			fn(s, e)
		}
	case FullscreenChanged:
		for _, fn := range snapshot(&r.mu, &r.fullscreen) {
			fn(s, e)
		}
	case PrimaryColorChanged:
		for _, fn := range snapshot(&r.mu, &r.primaryColor) {
			fn(s, e)
		}
	case PageTransitionChanged:
		for _, fn := range snapshot(&r.mu, &r.pageTransition) {
			fn(s, e)
		}
	case ToggleChanged:
		for _, fn := range snapshot(&r.mu, &r.toggle) {
			fn(s, e)
		}
	default:
		panic(fmt.Sprintf("settings: no dispatch for event %T", ev))
	}
}

func snapshot[F any](mu *sync.RWMutex, handlers *[]F) []F {
	mu.RLock()
	defer mu.RUnlock()
	return slices.Clone(*handlers)
}

// LogHandlers registers handlers that log the side effects a UI would perform.
func LogHandlers(r *Registry, logger zerolog.Logger) {
	r.OnTheme(func(s Settings, e ThemeChanged) {
		logger.Info().Str("theme", string(e.Theme)).Bool("dark", s.IsDark(false)).Msg("Theme applied")
	})
	r.OnPrimaryColor(func(s Settings, e PrimaryColorChanged) {
		if e.Color == nil {
			logger.Info().Msg("Primary color cleared")
			return
		}
		logger.Info().Str("color", *e.Color).Msg("Primary color applied")
	})
	r.OnFullscreen(func(_ Settings, e FullscreenChanged) {
		logger.Info().Bool("enabled", e.Enabled).Msg("Fullscreen toggled")
	})
	r.OnSidebarWidth(func(_ Settings, e SidebarWidthChanged) {
		logger.Debug().Int("width", e.Width).Msg("Sidebar resized")
	})
}
