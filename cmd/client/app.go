package main

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-admin-session/api"
	"github.com/jrsteele09/go-admin-session/credentials"
	"github.com/jrsteele09/go-admin-session/internal/config"
	"github.com/jrsteele09/go-admin-session/lockscreen"
	"github.com/jrsteele09/go-admin-session/refresh"
	"github.com/jrsteele09/go-admin-session/request"
	"github.com/jrsteele09/go-admin-session/routes"
	"github.com/jrsteele09/go-admin-session/session"
	"github.com/jrsteele09/go-admin-session/settings"
	"github.com/jrsteele09/go-admin-session/storage"
	"github.com/jrsteele09/go-admin-session/storage/filestore"
	"github.com/jrsteele09/go-admin-session/storage/valkeystore"
	"github.com/jrsteele09/go-admin-session/tabs"
)

// app is one dashboard instance: persisted state plus the live session.
type app struct {
	backend  storage.Backend
	keys     storage.Keys
	client   *request.Client
	history  *routes.History
	tabs     *tabs.Store
	settings *settings.Store
	session  *session.Controller
	close    func()
}

func openBackend(cfg config.Config) (storage.Backend, func(), error) {
	if addr := cfg.GetValkeyAddr(); addr != "" {
		store, err := valkeystore.Dial(addr)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to valkey: %w", err)
		}
		log.Debug().Str("addr", addr).Msg("Using valkey storage")
		return store, store.Close, nil
	}

	store, err := filestore.Open(cfg.GetStorageFile())
	if err != nil {
		return nil, nil, fmt.Errorf("opening client state: %w", err)
	}
	log.Debug().Str("path", store.Path()).Msg("Using file storage")
	return store, func() {}, nil
}

func newApp(cfg config.Config) (*app, error) {
	backend, closeBackend, err := openBackend(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{
		backend: backend,
		keys:    storage.NewKeys(cfg.GetStoragePrefix()),
		close:   closeBackend,
	}

	store := credentials.New(a.backend, a.keys)
	a.client = request.New(baseURL, store,
		request.WithTimeout(cfg.GetRequestTimeout()),
		request.WithRefreshOptions(
			refresh.WithRefreshTimeout(cfg.GetRefreshTimeout()),
			refresh.WithWaitTimeout(cfg.GetRefreshWaitTimeout()),
		),
	)

	a.history = routes.NewHistory(routes.ParseLocation(routes.PathRoot))
	a.tabs = tabs.New(a.backend, a.keys, a.history)

	registry := settings.NewRegistry()
	settings.LogHandlers(registry, log.Logger)
	a.settings = settings.New(a.backend, a.keys, registry)

	a.session = session.New(api.New(a.client), a.history,
		session.WithTabs(a.tabs),
		session.WithLock(lockscreen.New(a.backend, a.keys)),
	)
	return a, nil
}
