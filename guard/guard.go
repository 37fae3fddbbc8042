// Package guard decides whether a protected route may render. Each Verify
// call takes a generation number; a result whose generation is no longer
// the latest, or whose token changed while it was in flight, is discarded
// without touching any store.
package guard

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-viewer-session/auth"
	"github.com/jrsteele09/go-viewer-session/backend"
	"github.com/jrsteele09/go-viewer-session/credentials"
	"github.com/jrsteele09/go-viewer-session/internal/utils"
	"github.com/jrsteele09/go-viewer-session/navigation"
	"github.com/jrsteele09/go-viewer-session/profile"
	"github.com/jrsteele09/go-viewer-session/sessions"
)

type State int

const (
	Verifying State = iota
	Authorized
	Denied
)

func (s State) String() string {
	switch s {
	case Verifying:
		return "verifying"
	case Authorized:
		return "authorized"
	case Denied:
		return "denied"
	}
	return "unknown"
}

// Verifier checks a stored token against the backend.
type Verifier interface {
	VerifySession(ctx context.Context, token string) error
}

var _ Verifier = (*backend.Client)(nil)

// Decision is the outcome of one Verify call.
type Decision struct {
	State State
	// Redirect is set when State is Denied.
	Redirect navigation.Target
	// Err is a *auth.FlowError of kind auth.ErrVerification when a stored
	// session was rejected. It is informational; the redirect is the
	// handling.
	Err error
	// Stale marks a result that was superseded while in flight. Nothing
	// was written and the caller should ignore it.
	Stale bool
}

type Deps struct {
	Credentials *credentials.Store
	Profiles    *profile.Store
	State       *sessions.State
	Verifier    Verifier
}

type Guard struct {
	deps Deps

	mu         sync.Mutex
	generation uint64
	// bound is the token the current session was last authorized with.
	bound string
}

func New(deps Deps) (*Guard, error) {
	if deps.Credentials == nil || deps.Profiles == nil || deps.State == nil || deps.Verifier == nil {
		return nil, errors.New("[guard.New] credentials, profiles, state and verifier are required")
	}
	return &Guard{deps: deps}, nil
}

// begin starts a new generation, invalidating every call still in flight.
func (g *Guard) begin() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.generation++
	return g.generation
}

// Verify runs the guard for path. It blocks for the duration of the
// verification call; there is no timeout beyond what ctx carries.
func (g *Guard) Verify(ctx context.Context, path string) Decision {
	gen := g.begin()

	token, err := g.deps.Credentials.Token(ctx)
	if err != nil {
		if !errors.Is(err, credentials.ErrCredentialNotFound) {
			log.Err(err).Msg("Guard: failed to read stored token")
		}
		return g.apply(ctx, gen, "", func() Decision {
			if g.deps.State.Get().Authenticated() {
				// The token went away under a live session.
				g.purge(ctx)
			}
			return Decision{State: Denied, Redirect: navigation.Login(path)}
		})
	}

	if g.deps.State.Get().Authenticated() && g.trust(token) {
		return Decision{State: Authorized}
	}

	verifyErr := g.deps.Verifier.VerifySession(ctx, token)
	if ctx.Err() != nil {
		return Decision{State: Verifying, Stale: true}
	}

	return g.apply(ctx, gen, token, func() Decision {
		if verifyErr != nil {
			log.Info().Err(verifyErr).Str("path", path).Str("token", credentials.RedactToken(token)).Msg("Guard: stored session rejected")
			return g.deny(ctx, path, verifyErr)
		}

		p, err := g.deps.Profiles.Load(ctx)
		if err != nil {
			// A valid token without an identity is treated as a failed
			// verification.
			log.Warn().Err(err).Str("path", path).Msg("Guard: token valid but no usable profile")
			return g.deny(ctx, path, err)
		}
		g.deps.State.Set(sessions.Partial{User: p, Enabled: utils.Ptr(true)})
		g.bound = token
		return Decision{State: Authorized}
	})
}

// apply runs fn under the guard mutex if gen is still current and the
// stored token still equals token.
func (g *Guard) apply(ctx context.Context, gen uint64, token string, fn func() Decision) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	if gen != g.generation {
		return Decision{State: Verifying, Stale: true}
	}
	if token != "" {
		current, err := g.deps.Credentials.Token(ctx)
		if err != nil || current != token {
			return Decision{State: Verifying, Stale: true}
		}
	}
	return fn()
}

func (g *Guard) deny(ctx context.Context, path string, cause error) Decision {
	g.purge(ctx)
	redirect := navigation.Login(path)
	return Decision{
		State:    Denied,
		Redirect: redirect,
		Err: &auth.FlowError{
			Kind:     auth.ErrVerification,
			Message:  auth.MessageVerification,
			Redirect: redirect,
			Err:      cause,
		},
	}
}

// trust reports whether an authenticated session may skip verification
// for token: only while the stored token is the one it was authorized
// with. A session established outside the guard, by a login or hydrated
// from the tab, is bound to the first token seen.
func (g *Guard) trust(token string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.bound == "" {
		g.bound = token
	}
	return g.bound == token
}

// purge is called with g.mu held.
func (g *Guard) purge(ctx context.Context) {
	g.bound = ""
	g.deps.State.Reset(ctx)
}
