// Package tabs keeps the dashboard's open page tabs.
package tabs

import (
	"context"
	"net/url"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-admin-session/apimodel"
	"github.com/jrsteele09/go-admin-session/internal/utils"
	"github.com/jrsteele09/go-admin-session/routes"
	"github.com/jrsteele09/go-admin-session/storage"
)

// Tab is one open page, identified by its path.
type Tab struct {
	Path    string     `json:"path"`
	Title   string     `json:"title"`
	Icon    string     `json:"icon,omitempty"`
	IsAffix bool       `json:"isAffix,omitempty"`
	Name    string     `json:"name,omitempty"`
	Query   url.Values `json:"query,omitempty"`
}

// Store is the ordered tab list. Affix tabs cannot be closed.
// Every change is persisted under the tabs key.
type Store struct {
	mu      sync.Mutex
	tabs    []Tab
	backend storage.Backend
	key     string
	nav     routes.Navigator
	logger  zerolog.Logger
}

type Option func(*Store)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New loads any saved tabs from backend.
func New(backend storage.Backend, keys storage.Keys, nav routes.Navigator, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     keys.Tabs(),
		nav:     nav,
		logger:  log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := storage.GetJSON(context.Background(), backend, s.key, &s.tabs); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to restore tabs")
		s.tabs = nil
	}
	return s
}

func (s *Store) Tabs() []Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tabs)
}

// Add appends tab unless a tab with the same path is open.
func (s *Store) Add(tab Tab) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(tab.Path) >= 0 {
		return
	}
	s.tabs = append(s.tabs, tab)
	s.persist()
}

// AddByRoute opens a tab for a navigated location. Login and 404 never get a tab.
func (s *Store) AddByRoute(loc routes.Location) {
	if loc.Path == routes.PathLogin || loc.Path == routes.PathNotFound {
		return
	}

	title := loc.Meta.Title
	if title == "" {
		title = loc.Name
	}
	if title == "" {
		title = loc.Path
	}

	s.Add(Tab{
		Path:    loc.Path,
		Title:   title,
		Icon:    loc.Meta.Icon,
		IsAffix: loc.Meta.IsAffix,
		Name:    loc.Name,
		Query:   loc.Query,
	})
}

// InitAffix pins a tab for every affix menu with a path, in front of the others.
func (s *Store) InitAffix(menus []apimodel.Menu) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pinned []Tab
	for _, m := range apimodel.FlattenMenus(menus) {
		path := utils.Value(m.Path)
		if m.IsAffix != 1 || path == "" {
			continue
		}
		if i := s.indexOf(path); i >= 0 {
			s.tabs[i].IsAffix = true
			continue
		}
		pinned = append(pinned, Tab{
			Path:    path,
			Title:   m.Title,
			Icon:    utils.Value(m.Icon),
			IsAffix: true,
			Name:    m.Name,
		})
	}
	s.tabs = append(pinned, s.tabs...)
	s.persist()
}

// Close removes a non-affix tab. Closing the active tab moves to the last remaining one.
func (s *Store) Close(path string) {
	s.mu.Lock()
	i := s.indexOf(path)
	if i < 0 || s.tabs[i].IsAffix {
		s.mu.Unlock()
		return
	}
	s.tabs = slices.Delete(s.tabs, i, i+1)
	s.persist()

	next := routes.PathRoot
	if len(s.tabs) > 0 {
		next = s.tabs[len(s.tabs)-1].Path
	}
	s.mu.Unlock()

	if s.nav.Current().Path == path {
		s.nav.Push(routes.ParseLocation(next))
	}
}

// CloseLeft closes the non-affix tabs left of path.
func (s *Store) CloseLeft(path string) {
	s.mu.Lock()
	i := s.indexOf(path)
	if i <= 0 {
		s.mu.Unlock()
		return
	}
	s.keep(func(j int, t Tab) bool { return t.IsAffix || j >= i })
	s.mu.Unlock()

	s.ensureActive(path)
}

// CloseRight closes the non-affix tabs right of path.
func (s *Store) CloseRight(path string) {
	s.mu.Lock()
	i := s.indexOf(path)
	if i < 0 || i == len(s.tabs)-1 {
		s.mu.Unlock()
		return
	}
	s.keep(func(j int, t Tab) bool { return t.IsAffix || j <= i })
	s.mu.Unlock()

	s.ensureActive(path)
}

// CloseOthers keeps path and the affix tabs.
func (s *Store) CloseOthers(path string) {
	s.mu.Lock()
	s.keep(func(_ int, t Tab) bool { return t.IsAffix || t.Path == path })
	s.mu.Unlock()

	s.ensureActive(path)
}

// CloseAll keeps only affix tabs and moves to the first of them, or home.
func (s *Store) CloseAll() {
	s.mu.Lock()
	s.keep(func(_ int, t Tab) bool { return t.IsAffix })
	next := routes.PathRoot
	if len(s.tabs) > 0 {
		next = s.tabs[0].Path
	}
	s.mu.Unlock()

	s.nav.Push(routes.ParseLocation(next))
}

func (s *Store) ToggleAffix(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(path); i >= 0 {
		s.tabs[i].IsAffix = !s.tabs[i].IsAffix
		s.persist()
	}
}

// Reload re-enters path through the redirect route.
func (s *Store) Reload(path string) {
	s.nav.Replace(routes.Location{Name: routes.NameRedirect, Path: "/redirect" + path})
}

// Clear drops every tab, affix included.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tabs = nil
	if err := s.backend.Delete(context.Background(), s.key); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to remove tabs from storage")
	}
}

// ensureActive moves to path when the current page no longer has a tab.
func (s *Store) ensureActive(path string) {
	current := s.nav.Current().Path

	s.mu.Lock()
	open := s.indexOf(current) >= 0
	s.mu.Unlock()

	if !open {
		s.nav.Push(routes.ParseLocation(path))
	}
}

func (s *Store) keep(fn func(int, Tab) bool) {
	kept := s.tabs[:0:0]
	for i, t := range s.tabs {
		if fn(i, t) {
			kept = append(kept, t)
		}
	}
	s.tabs = kept
	s.persist()
}

func (s *Store) indexOf(path string) int {
	return slices.IndexFunc(s.tabs, func(t Tab) bool { return t.Path == path })
}

func (s *Store) persist() {
	if err := storage.SetJSON(context.Background(), s.backend, s.key, s.tabs); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist tabs")
	}
}
