package main

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-viewer-session/app"
	"github.com/jrsteele09/go-viewer-session/auth"
	"github.com/jrsteele09/go-viewer-session/backend"
	"github.com/jrsteele09/go-viewer-session/credentials"
	"github.com/jrsteele09/go-viewer-session/guard"
	"github.com/jrsteele09/go-viewer-session/internal/config"
	"github.com/jrsteele09/go-viewer-session/profile"
	"github.com/jrsteele09/go-viewer-session/sessions"
)

// session wires the stores, the backend client and the flows for one
// command invocation.
type session struct {
	cfg      config.Config
	creds    *credentials.Store
	profiles *profile.Store
	state    *sessions.State
	client   *backend.Client
	auth     *auth.Service
	app      *app.App
	closers  []func() error
}

func openSession(ctx context.Context, cfg config.Config) (s *session, err error) {
	s = &session{cfg: cfg}
	defer func() {
		if err != nil {
			_ = s.Close()
		}
	}()

	durable, closeDurable, err := openStore(ctx, cfg.GetDurableStore(), cfg, "")
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, closeDurable)
	volatile, closeVolatile, err := openStore(ctx, cfg.GetVolatileStore(), cfg, cfg.GetTabID())
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, closeVolatile)

	s.creds = credentials.New(durable)
	s.profiles = profile.New(volatile)
	s.state = sessions.New(ctx, s.profiles, s.creds)

	s.client, err = backend.New(cfg.GetAPIBaseURL(), backend.WithTimeout(cfg.GetHTTPTimeout()))
	if err != nil {
		return nil, err
	}
	s.auth, err = auth.NewService(cfg, auth.Deps{Credentials: s.creds, Profiles: s.profiles, State: s.state, Backend: s.client})
	if err != nil {
		return nil, err
	}
	g, err := guard.New(guard.Deps{Credentials: s.creds, Profiles: s.profiles, State: s.state, Verifier: s.client})
	if err != nil {
		return nil, err
	}
	s.app, err = app.New(s.auth, g)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("durable", string(cfg.GetDurableStore())).Str("volatile", string(cfg.GetVolatileStore())).Str("tab", cfg.GetTabID()).Msg("Session opened")
	return s, nil
}

func (s *session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	s.closers = nil
	return errors.Join(errs...)
}
