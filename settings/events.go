package settings

// Event is one settings change. The set of events is closed.
type Event interface {
	validate() error
	apply(*Settings)
}

type ThemeChanged struct{ Theme Theme }

type LayoutChanged struct{ Layout Layout }

type SidebarWidthChanged struct{ Width int }

type FullscreenChanged struct{ Enabled bool }

// PrimaryColorChanged sets a preset colour; nil restores the theme default.
type PrimaryColorChanged struct{ Color *string }

type PageTransitionChanged struct{ Transition PageTransition }

// Toggle names the boolean settings without side effects of their own.
type Toggle int

const (
	ToggleSidebarCollapsed Toggle = iota
	ToggleShowTags
	ToggleShowBreadcrumb
	ToggleShowProgress
	ToggleNeedWatermark
	ToggleSettingsDrawer
)

type ToggleChanged struct {
	Toggle Toggle
	Value  bool
}

func (e ThemeChanged) validate() error {
	switch e.Theme {
	case ThemeLight, ThemeDark, ThemeSystem:
		return nil
	}
	return invalid("theme %q", e.Theme)
}

func (e ThemeChanged) apply(s *Settings) { s.Theme = e.Theme }

func (e LayoutChanged) validate() error {
	switch e.Layout {
	case LayoutVertical, LayoutHorizontal:
		return nil
	}
	return invalid("layout %q", e.Layout)
}

func (e LayoutChanged) apply(s *Settings) { s.Layout = e.Layout }

func (e SidebarWidthChanged) validate() error {
	if e.Width < MinSidebarWidth || e.Width > MaxSidebarWidth {
		return invalid("sidebar width %d outside [%d, %d]", e.Width, MinSidebarWidth, MaxSidebarWidth)
	}
	return nil
}

func (e SidebarWidthChanged) apply(s *Settings) { s.SidebarWidth = e.Width }

func (e FullscreenChanged) validate() error   { return nil }
func (e FullscreenChanged) apply(s *Settings) { s.IsShowFullscreen = e.Enabled }

func (e PrimaryColorChanged) validate() error {
	if e.Color != nil && *e.Color == "" {
		return invalid("empty primary color")
	}
	return nil
}

func (e PrimaryColorChanged) apply(s *Settings) { s.PrimaryColor = e.Color }

func (e PageTransitionChanged) validate() error {
	switch e.Transition {
	case TransitionNone, TransitionFade, TransitionSlideLeft, TransitionSlideBottom, TransitionSlideTop:
		return nil
	}
	return invalid("page transition %q", e.Transition)
}

func (e PageTransitionChanged) apply(s *Settings) { s.PageTransitionType = e.Transition }

func (e ToggleChanged) validate() error {
	if e.Toggle < ToggleSidebarCollapsed || e.Toggle > ToggleSettingsDrawer {
		return invalid("toggle %d", e.Toggle)
	}
	return nil
}

func (e ToggleChanged) apply(s *Settings) {
	switch e.Toggle {
	case ToggleSidebarCollapsed:
		s.SidebarCollapsed = e.Value
	case ToggleShowTags:
		s.IsShowTags = e.Value
	case ToggleShowBreadcrumb:
		s.IsShowBreadcrumb = e.Value
	case ToggleShowProgress:
		s.IsShowProgress = e.Value
	case ToggleNeedWatermark:
		s.IsNeedWatermark = e.Value
	case ToggleSettingsDrawer:
		s.SettingsDrawerVisible = e.Value
	}
}
