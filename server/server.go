package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-admin-session/internal/config"
	"github.com/jrsteele09/go-admin-session/server/loginattempts"
	"github.com/jrsteele09/go-admin-session/token"
	"github.com/jrsteele09/go-admin-session/token/refresh"
	"github.com/jrsteele09/go-admin-session/users"
)

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	prefix   string
	mux      *http.ServeMux
	handler  http.Handler
	routes   []string
	config   config.Config
	users    users.UserRepo
	tokens   *token.Manager
	sessions *refresh.Manager
	attempts loginattempts.Repo
}

type Option func(*Server)

// WithTokenManager replaces the token manager built from config, e.g. to pin the clock in tests.
func WithTokenManager(m *token.Manager) Option {
	return func(s *Server) {
		s.tokens = m
	}
}

// WithLoginAttempts replaces the failed-login counter used when rate limiting is enabled.
func WithLoginAttempts(repo loginattempts.Repo) Option {
	return func(s *Server) {
		s.attempts = repo
	}
}

func New(config config.Config, userRepo users.UserRepo, options ...Option) (*Server, error) {
	s := &Server{
		env:    config.GetEnv(),
		prefix: config.GetAPIPrefix(),
		mux:    http.NewServeMux(),
		config: config,
		users:  userRepo,
	}

	for _, opt := range options {
		opt(s)
	}

	if s.tokens == nil {
		tokens, err := token.New(config)
		if err != nil {
			return nil, fmt.Errorf("[Server New] failed to create token manager: %w", err)
		}
		s.tokens = tokens
	}
	if s.attempts == nil && config.GetEnableRateLimiting() {
		s.attempts = loginattempts.NewCacheRepo(config.GetLoginLockoutWindow())
	}
	s.sessions = refresh.NewManager(userRepo, s.tokens)

	if err := s.InitialiseSystem(); err != nil {
		return nil, fmt.Errorf("[Server New] Failed to initialise the system: %w", err)
	}

	s.initRoutes()
	s.handler = ChainMiddleware(s.mux.ServeHTTP, s.RecoverMiddleware, s.LoggingMiddleware, s.CorsMiddleware)
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// RegisterRouteFunc mounts handler under the API prefix. pattern is "METHOD /path".
func (s *Server) RegisterRouteFunc(pattern string, handler http.HandlerFunc) {
	method, path, found := strings.Cut(pattern, " ")
	if !found {
		method, path = "", pattern
	}
	full := strings.TrimSpace(method + " " + s.prefix + path)
	s.routes = append(s.routes, full)
	s.mux.HandleFunc(full, handler)
}

func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func colourMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", colourMethod(method), path)
}

func logError(method, path, error string) {
	log.Error().Msgf("[%-19s] %s %s", colourMethod(method), path, Red+error+ResetColor)
}
