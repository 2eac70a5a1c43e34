package routes

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-admin-session/apimodel"
	"github.com/jrsteele09/go-admin-session/internal/utils"
)

// Registry is the active route table: static routes plus the dynamic routes
// unlocked by the current user's menus.
type Registry struct {
	mu       sync.RWMutex
	catalog  map[string]Route
	table    map[string]Route // path -> route
	dynamic  []Route
	removers []func()
	logger   zerolog.Logger
}

type RegistryOption func(*Registry)

func WithRegistryLogger(logger zerolog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates a registry that can unlock the routes in catalog.
func NewRegistry(catalog []Route, opts ...RegistryOption) *Registry {
	r := &Registry{
		catalog: make(map[string]Route, len(catalog)),
		table:   make(map[string]Route),
		logger:  log.Logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, route := range catalog {
		r.catalog[route.Name] = route
	}
	for _, route := range StaticRoutes {
		r.table[route.Path] = route
	}
	return r
}

// Register adds every catalog route whose name appears in the menu tree,
// taking title, icon and flags from the menu. Returns the routes added.
func (r *Registry) Register(menus []apimodel.Menu) []Route {
	if len(menus) == 0 {
		r.logger.Warn().Msg("Menu list is empty, no dynamic routes registered")
		return nil
	}

	byName := make(map[string]apimodel.Menu)
	for _, m := range apimodel.FlattenMenus(menus) {
		byName[m.Name] = m
	}

	names := make([]string, 0, len(r.catalog))
	for name := range r.catalog {
		if _, ok := byName[name]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	r.mu.Lock()
	defer r.mu.Unlock()

	added := make([]Route, 0, len(names))
	for _, name := range names {
		menu := byName[name]
		route := r.catalog[name]
		if path := utils.Value(menu.Path); path != "" {
			route.Path = path
		}
		route.Meta.Title = menu.Title
		route.Meta.Icon = utils.Value(menu.Icon)
		route.Meta.IsAffix = menu.IsAffix == 1
		route.Meta.IsCache = menu.IsCache == 1

		r.removers = append(r.removers, r.add(route))
		r.dynamic = append(r.dynamic, route)
		added = append(added, route)
	}

	r.logger.Debug().Int("routes", len(added)).Msg("Registered dynamic routes")
	return added
}

// add puts route in the table and returns the function that takes it out again.
func (r *Registry) add(route Route) func() {
	r.table[route.Path] = route
	return func() {
		if current, ok := r.table[route.Path]; ok && current.Name == route.Name {
			delete(r.table, route.Path)
		}
	}
}

// RemoveAll removes every dynamically registered route.
func (r *Registry) RemoveAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, remove := range r.removers {
		remove()
	}
	r.removers = nil
	r.dynamic = nil
}

// Routes returns the dynamic routes currently registered.
func (r *Registry) Routes() []Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Route(nil), r.dynamic...)
}

// Resolve looks up the route serving path.
func (r *Registry) Resolve(path string) (Route, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	route, ok := r.table[path]
	return route, ok
}
