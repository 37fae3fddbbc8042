// Package server is a development backend for the viewer API. It serves the
// login, verify, hospital entry and share endpoints from in-memory repos so
// the session client can be exercised end to end.
package server

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-viewer-session/internal/config"
	"github.com/jrsteele09/go-viewer-session/shares"
	"github.com/jrsteele09/go-viewer-session/tenants"
	"github.com/jrsteele09/go-viewer-session/token"
	"github.com/jrsteele09/go-viewer-session/users"
)

// Repos groups the stores the backend reads and writes.
type Repos struct {
	Users   users.AccountRepo
	Tenants tenants.Repo
	Shares  shares.Repo
}

type Server struct {
	env     string // Environment (e.g., "DEV", "PROD")
	router  *mux.Router
	routes  []string
	config  config.Config
	repos   Repos
	tokens  *token.Issuer
	nowFunc func() time.Time

	seedPassword string
}

// ServerOption defines a function type to modify the Server instance.
type ServerOption func(*Server)

// WithIssuer replaces the token issuer built from config.
func WithIssuer(issuer *token.Issuer) ServerOption {
	return func(s *Server) {
		s.tokens = issuer
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServerOption {
	return func(s *Server) {
		s.nowFunc = nowFunc
	}
}

func New(config config.Config, repos Repos, options ...ServerOption) (*Server, error) {
	if repos.Users == nil || repos.Tenants == nil || repos.Shares == nil {
		return nil, fmt.Errorf("[Server New] users, tenants and shares repos are required")
	}
	s := &Server{
		env:     config.GetEnv(),
		router:  mux.NewRouter(),
		config:  config,
		repos:   repos,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.tokens == nil {
		issuer, err := newIssuer(config, s.nowFunc)
		if err != nil {
			return nil, fmt.Errorf("[Server New] failed to create token issuer: %w", err)
		}
		s.tokens = issuer
	}

	// Bootstrap: ensure the seed hospital and account exist
	ctx := context.Background()
	generated, err := s.InitialiseSystem(ctx)
	if err != nil {
		return nil, fmt.Errorf("[Server New] Failed to initialise the system: %w", err)
	}
	s.seedPassword = generated

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func newIssuer(cfg config.Config, nowFunc func() time.Time) (*token.Issuer, error) {
	secret := []byte(cfg.GetTokenSecret())
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate token secret: %w", err)
		}
		log.Warn().Msg("TOKEN_SECRET not set, tokens will not survive a restart")
	}
	return token.NewIssuer(secret, token.WithTTL(cfg.GetTokenTTL()), token.WithNowTime(nowFunc))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Tokens exposes the issuer so tooling can mint entry links.
func (s *Server) Tokens() *token.Issuer {
	return s.tokens
}

// GeneratedSeedPassword is the password created for the seed account at
// bootstrap, or empty when one was configured.
func (s *Server) GeneratedSeedPassword() string {
	return s.seedPassword
}

func (s *Server) RegisterRouteFunc(path string, handler http.HandlerFunc, methods ...string) {
	for _, m := range methods {
		s.routes = append(s.routes, m+" "+path)
	}
	// Preflight requests are answered by CorsMiddleware.
	s.router.HandleFunc(path, handler).Methods(append(methods, http.MethodOptions)...)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		logRoute(parts[0], parts[1])
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%s] %s", colourMethod(method), path)
}
