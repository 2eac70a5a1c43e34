package routes

import (
	"context"
	"net/url"
	"sync"

	"github.com/jrsteele09/go-admin-session/apimodel"
)

// Session is what the guard needs from the session controller.
type Session interface {
	IsAuthenticated() bool
	Menus() []apimodel.Menu
	FetchProfile(ctx context.Context) error
	Logout(redirect string)
}

// Decision is the guard's verdict on one navigation.
type Decision struct {
	Allow    bool
	Redirect *Location
	Cancel   bool
}

func allow() Decision               { return Decision{Allow: true} }
func cancel() Decision              { return Decision{Cancel: true} }
func redirect(to Location) Decision { return Decision{Redirect: &to} }

func (d Decision) String() string {
	switch {
	case d.Allow:
		return "allow"
	case d.Cancel:
		return "cancel"
	case d.Redirect != nil:
		return "redirect " + d.Redirect.FullPath()
	}
	return "none"
}

// Guard decides whether a navigation may proceed and registers the user's
// dynamic routes on first use.
type Guard struct {
	session  Session
	registry *Registry

	mu         sync.Mutex
	registered bool
}

func NewGuard(session Session, registry *Registry) *Guard {
	return &Guard{
		session:  session,
		registry: registry,
	}
}

func (g *Guard) Registry() *Registry {
	return g.registry
}

// IsAuthenticated reports whether the session holds an access token.
func (g *Guard) IsAuthenticated() bool {
	return g.session.IsAuthenticated()
}

func (g *Guard) HasRegisteredRoutes() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.registered
}

// RegisterRoutesFor registers the routes unlocked by menus and marks the table ready.
// Routes from an earlier registration are removed first. Nothing is registered,
// and false returned, when the session is no longer authenticated.
func (g *Guard) RegisterRoutesFor(menus []apimodel.Menu) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.session.IsAuthenticated() {
		return false
	}
	g.registry.RemoveAll()
	g.registry.Register(menus)
	g.registered = true
	return true
}

// Reset removes the dynamic routes and clears the registered flag.
func (g *Guard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.registry.RemoveAll()
	g.registered = false
}

// BeforeEach runs before every navigation.
func (g *Guard) BeforeEach(ctx context.Context, to Location) Decision {
	if g.isWhiteListed(to) {
		if to.Path == PathLogin && g.session.IsAuthenticated() {
			return redirect(Location{Path: PathDashboard})
		}
		return allow()
	}

	if !g.session.IsAuthenticated() {
		return redirect(Location{
			Path:  PathLogin,
			Query: url.Values{QueryRedirect: []string{to.FullPath()}},
		})
	}

	if g.HasRegisteredRoutes() {
		return allow()
	}

	if len(g.session.Menus()) == 0 {
		if err := g.session.FetchProfile(ctx); err != nil {
			g.session.Logout(to.FullPath())
			return cancel()
		}
	}

	// A logout during the fetch already navigated away.
	if !g.RegisterRoutesFor(g.session.Menus()) {
		return cancel()
	}

	// Navigate again so the target resolves against the new table.
	to.Replace = true
	return redirect(to)
}

func (g *Guard) isWhiteListed(to Location) bool {
	if to.Path == PathLogin || to.Meta.IsWhiteList {
		return true
	}
	if route, ok := g.registry.Resolve(to.Path); ok {
		return route.Meta.IsWhiteList
	}
	return false
}
