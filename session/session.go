// Package session ties login, profile and logout to the credential store,
// the route guard and the dependent dashboard state.
package session

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-admin-session/api"
	"github.com/jrsteele09/go-admin-session/apimodel"
	"github.com/jrsteele09/go-admin-session/credentials"
	"github.com/jrsteele09/go-admin-session/lockscreen"
	"github.com/jrsteele09/go-admin-session/routes"
	"github.com/jrsteele09/go-admin-session/tabs"
)

// ErrSessionEnded is returned when a logout overtook a login or profile fetch.
var ErrSessionEnded = errors.New("session ended")

// Controller owns the in-memory session. It is safe for concurrent use.
type Controller struct {
	api      *api.Client
	store    *credentials.Store
	nav      routes.Navigator
	registry *routes.Registry
	guard    *routes.Guard
	tabs     *tabs.Store
	lock     *lockscreen.Lock
	catalog  []routes.Route
	logger   zerolog.Logger

	mu               sync.RWMutex
	user             *apimodel.UserInfo
	menus            []apimodel.Menu
	permissions      map[string]struct{}
	affixInitialized bool
}

var _ routes.Session = (*Controller)(nil)

type Option func(*Controller)

func WithTabs(t *tabs.Store) Option {
	return func(c *Controller) {
		c.tabs = t
	}
}

func WithLock(l *lockscreen.Lock) Option {
	return func(c *Controller) {
		c.lock = l
	}
}

// WithCatalog sets the routes menus can unlock. Defaults to routes.DefaultCatalog.
func WithCatalog(catalog []routes.Route) Option {
	return func(c *Controller) {
		c.catalog = catalog
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

type afterEacher interface {
	AfterEach(fn func(routes.Location))
}

// New wires a controller to client and nav. The client's logout hook is taken
// over, and a profile cached by an earlier run is restored.
func New(client *api.Client, nav routes.Navigator, opts ...Option) *Controller {
	c := &Controller{
		api:     client,
		store:   client.Request().Store(),
		nav:     nav,
		catalog: routes.DefaultCatalog,
		logger:  log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.registry = routes.NewRegistry(c.catalog, routes.WithRegistryLogger(c.logger))
	c.guard = routes.NewGuard(c, c.registry)

	client.Request().OnLogout(func(reason error) {
		c.logger.Warn().Err(reason).Msg("Session ended by the server")
		c.Logout("")
	})
	if h, ok := nav.(afterEacher); ok {
		h.AfterEach(c.afterNavigation)
	}

	if c.IsAuthenticated() {
		if info, ok := c.store.Profile(); ok {
			c.setProfile(info)
		}
	}
	return c
}

func (c *Controller) Guard() *routes.Guard {
	return c.guard
}

func (c *Controller) Navigator() routes.Navigator {
	return c.nav
}

// Navigate sends the user to raw through the permission guard.
func (c *Controller) Navigate(ctx context.Context, raw string) (routes.Location, error) {
	return routes.Navigate(ctx, c.guard, c.nav, raw)
}

// Login authenticates, loads the profile and registers the user's routes.
// Empty fields are rejected without a request.
func (c *Controller) Login(ctx context.Context, params apimodel.LoginParams) error {
	if strings.TrimSpace(params.Username) == "" || params.Password == "" {
		return &apimodel.CodeError{Code: apimodel.CodeMissingCredentials, Msg: apimodel.MsgMissingCredentials}
	}

	pair, err := c.api.Login(ctx, params)
	if err != nil {
		return err
	}
	c.store.Set(pair.AccessToken, pair.RefreshToken)

	if err := c.FetchProfile(ctx); err != nil {
		return err
	}

	if !c.guard.RegisterRoutesFor(c.Menus()) {
		return ErrSessionEnded
	}
	c.initAffixTabs()

	c.logger.Info().Str("username", params.Username).Msg("Logged in")
	return nil
}

// FetchProfile loads the current user's profile, menus and permissions.
// A profile arriving after a concurrent Logout is dropped with ErrSessionEnded.
func (c *Controller) FetchProfile(ctx context.Context) error {
	info, err := c.api.GetUserInfo(ctx)
	if err != nil {
		return err
	}

	// Logout clears the store before taking c.mu, so holding c.mu across the
	// cache write and the in-memory update keeps the two consistent.
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.store.SetProfileIfActive(info) {
		c.logger.Debug().Msg("Profile arrived after logout, dropped")
		return ErrSessionEnded
	}
	c.applyProfile(info)
	return nil
}

// Logout clears the session and replaces the current page with the login page,
// remembering redirect (or the current path when empty).
// Concurrent and repeated calls are safe; only the call that actually cleared
// the credentials tears down and navigates.
func (c *Controller) Logout(redirect string) {
	if !c.store.Clear() {
		c.logger.Debug().Msg("Logout skipped, no session")
		return
	}

	c.mu.Lock()
	c.user = nil
	c.menus = nil
	c.permissions = nil
	c.affixInitialized = false
	c.mu.Unlock()

	if c.tabs != nil {
		c.tabs.Clear()
	}
	if c.lock != nil {
		c.lock.Reset()
	}
	c.guard.Reset()

	if redirect == "" {
		redirect = c.nav.Current().FullPath()
	}
	c.nav.Replace(routes.LoginLocation(redirect))
	c.logger.Info().Str("redirect", redirect).Msg("Logged out")
}

func (c *Controller) IsAuthenticated() bool {
	_, ok := c.store.Get(credentials.AccessToken)
	return ok
}

func (c *Controller) User() *apimodel.UserInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

func (c *Controller) Menus() []apimodel.Menu {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.menus
}

// Permissions returns the permission codes, sorted.
func (c *Controller) Permissions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.permissions))
	for p := range c.permissions {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

func (c *Controller) HasPermission(permission string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.permissions[permission]
	return ok
}

func (c *Controller) setProfile(info *apimodel.UserInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyProfile(info)
}

// applyProfile requires c.mu.
func (c *Controller) applyProfile(info *apimodel.UserInfo) {
	perms := make(map[string]struct{}, len(info.Permissions))
	for _, p := range info.Permissions {
		perms[p] = struct{}{}
	}

	c.user = info
	c.menus = info.Menus
	c.permissions = perms
}

func (c *Controller) initAffixTabs() {
	if c.tabs == nil {
		return
	}

	c.mu.Lock()
	if c.affixInitialized || len(c.menus) == 0 {
		c.mu.Unlock()
		return
	}
	c.affixInitialized = true
	menus := c.menus
	c.mu.Unlock()

	c.tabs.InitAffix(menus)
}

// afterNavigation records a tab for every completed navigation.
func (c *Controller) afterNavigation(loc routes.Location) {
	if c.tabs == nil {
		return
	}
	c.initAffixTabs()
	if loc.Name == routes.NameRedirect {
		return
	}
	c.tabs.AddByRoute(loc)
}
