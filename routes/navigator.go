package routes

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

const maxRedirects = 10

var (
	ErrNavigationCancelled = errors.New("navigation cancelled")
	ErrTooManyRedirects    = errors.New("too many redirects")
)

// Navigator moves the user between locations.
type Navigator interface {
	Current() Location
	Push(to Location)
	Replace(to Location)
}

// History is an in-memory Navigator that records every navigation.
type History struct {
	mu        sync.Mutex
	entries   []Location
	navs      []Location
	afterEach []func(Location)
}

var _ Navigator = (*History)(nil)

func NewHistory(start Location) *History {
	return &History{entries: []Location{start}}
}

// AfterEach registers fn to run after every completed navigation.
func (h *History) AfterEach(fn func(Location)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.afterEach = append(h.afterEach, fn)
}

func (h *History) Current() Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[len(h.entries)-1]
}

func (h *History) Push(to Location) {
	h.mu.Lock()
	h.entries = append(h.entries, to)
	h.navs = append(h.navs, to)
	hooks := slices.Clone(h.afterEach)
	h.mu.Unlock()

	for _, fn := range hooks {
		fn(to)
	}
}

func (h *History) Replace(to Location) {
	to.Replace = true

	h.mu.Lock()
	h.entries[len(h.entries)-1] = to
	h.navs = append(h.navs, to)
	hooks := slices.Clone(h.afterEach)
	h.mu.Unlock()

	for _, fn := range hooks {
		fn(to)
	}
}

// Navigations returns every location navigated to, in order.
func (h *History) Navigations() []Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Location(nil), h.navs...)
}

// Len is the number of history entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Navigate resolves raw through the guard, following redirects, and applies
// the final location to nav.
func Navigate(ctx context.Context, g *Guard, nav Navigator, raw string) (Location, error) {
	to := ParseLocation(raw)
	for range maxRedirects {
		to = g.resolve(to)

		d := g.BeforeEach(ctx, to)
		switch {
		case d.Allow:
			if to.Replace {
				nav.Replace(to)
			} else {
				nav.Push(to)
			}
			return to, nil
		case d.Cancel:
			return nav.Current(), ErrNavigationCancelled
		case d.Redirect != nil:
			to = *d.Redirect
		default:
			return nav.Current(), fmt.Errorf("guard returned no decision for %s", to.FullPath())
		}
	}
	return nav.Current(), fmt.Errorf("%w: %s", ErrTooManyRedirects, raw)
}

// resolve fills name and meta from the route table. Unknown paths go to /404.
func (g *Guard) resolve(to Location) Location {
	if to.Path == PathRoot {
		to.Path = PathDashboard
	}
	route, ok := g.registry.Resolve(to.Path)
	if !ok {
		// Until the user's routes are registered an unknown path may still be unlocked.
		if !g.HasRegisteredRoutes() {
			return to
		}
		return Location{Name: NameNotFound, Path: PathNotFound, Meta: notFoundMeta(), Replace: to.Replace}
	}
	to.Name = route.Name
	to.Meta = route.Meta
	return to
}

func notFoundMeta() Meta {
	for _, r := range StaticRoutes {
		if r.Name == NameNotFound {
			return r.Meta
		}
	}
	return Meta{IsWhiteList: true}
}
