// Package sessions holds the in-memory session state consulted by the UI.
// A State is created once per tab and handed to the components that need
// it; there is no package-level instance.
package sessions

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-viewer-session/credentials"
	"github.com/jrsteele09/go-viewer-session/profile"
	"github.com/jrsteele09/go-viewer-session/users"
)

// Session is the observable session. Enabled implies User != nil.
type Session struct {
	User    *users.Profile
	Enabled bool
}

// Authenticated reports whether the session carries a usable identity.
func (s Session) Authenticated() bool {
	return s.Enabled && s.User != nil
}

// Partial is merged into the session by State.Set. Nil fields are left
// untouched; use SetUser(ctx, nil) to clear the user.
type Partial struct {
	User    *users.Profile
	Enabled *bool
}

// State is the session state container. All transitions are synchronous
// and never fail: storage errors are logged, the in-memory transition
// still happens.
type State struct {
	mu       sync.RWMutex
	session  Session
	profiles *profile.Store
	creds    *credentials.Store
}

// New creates the state and hydrates it from the tab's profile store.
// A malformed stored profile is logged, removed and treated as absent.
func New(ctx context.Context, profiles *profile.Store, creds *credentials.Store) *State {
	s := &State{profiles: profiles, creds: creds}

	p, err := profiles.Load(ctx)
	switch {
	case err == nil:
		s.session = Session{User: p, Enabled: true}
	case errors.Is(err, profile.ErrNoProfile):
	case errors.Is(err, profile.ErrMalformedProfile):
		log.Warn().Err(err).Msg("Discarding stored user profile")
		if err := profiles.Remove(ctx); err != nil {
			log.Err(err).Msg("Failed to remove malformed user profile")
		}
	default:
		log.Err(err).Msg("Failed to read stored user profile")
	}
	return s
}

// Get returns a copy of the current session.
func (s *State) Get() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySession(s.session)
}

// SetUser replaces the user and mirrors it into the profile store. Clearing
// the user also disables the session.
func (s *State) SetUser(ctx context.Context, p *users.Profile) {
	if err := s.profiles.Save(ctx, p); err != nil {
		log.Err(err).Msg("Failed to store user profile")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.User = copyProfile(p)
	if p == nil {
		s.session.Enabled = false
	}
}

// SetEnabled flips the enabled flag. Enabling a session without a user is
// ignored.
func (s *State) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if enabled && s.session.User == nil {
		log.Warn().Msg("Ignoring enable request for a session without a user")
		return
	}
	s.session.Enabled = enabled
}

// Set merges p into the session without touching storage.
func (s *State) Set(p Partial) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.User != nil {
		s.session.User = copyProfile(p.User)
	}
	if p.Enabled != nil {
		if *p.Enabled && s.session.User == nil {
			log.Warn().Msg("Ignoring enable request for a session without a user")
		} else {
			s.session.Enabled = *p.Enabled
		}
	}
}

// Reset removes the profile entry, the token and the label, then returns
// the session to its initial value.
func (s *State) Reset(ctx context.Context) {
	if err := s.profiles.Remove(ctx); err != nil {
		log.Err(err).Msg("Failed to remove user profile")
	}
	if err := s.creds.Clear(ctx); err != nil {
		log.Err(err).Msg("Failed to clear stored credentials")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = Session{}
}

func copySession(in Session) Session {
	return Session{User: copyProfile(in.User), Enabled: in.Enabled}
}

func copyProfile(p *users.Profile) *users.Profile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
