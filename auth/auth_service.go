// Package auth implements the exchange flows that establish a session
// (credential login, hospital entry link, guest share link) and logout.
//
// Every flow returns where to go next instead of navigating itself. On
// failure the returned *FlowError says what to show and, for inbound
// links, where to hard redirect.
package auth

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-viewer-session/backend"
	"github.com/jrsteele09/go-viewer-session/credentials"
	"github.com/jrsteele09/go-viewer-session/internal/config"
	"github.com/jrsteele09/go-viewer-session/navigation"
	"github.com/jrsteele09/go-viewer-session/profile"
	"github.com/jrsteele09/go-viewer-session/sessions"
	"github.com/jrsteele09/go-viewer-session/tenants"
)

// Backend is the part of the viewer API the exchange flows call.
type Backend interface {
	Login(ctx context.Context, email, password string) (*backend.LoginResponse, error)
	VerifyEntry(ctx context.Context, label tenants.Label, token string) error
	ResolveShare(ctx context.Context, token string) (*backend.ShareResolution, error)
}

var _ Backend = (*backend.Client)(nil)

// Deps holds the stores and collaborators the Service writes to.
type Deps struct {
	Credentials *credentials.Store
	Profiles    *profile.Store
	State       *sessions.State
	Backend     Backend
}

// Service runs the exchange flows.
type Service struct {
	deps         Deps
	dashboardURL string
	landing      string
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithLandingRoute sets where a login without a pending redirect goes.
func WithLandingRoute(path string) ServiceOption {
	return func(s *Service) {
		if path != "" {
			s.landing = path
		}
	}
}

func NewService(cfg config.RoutesConfig, deps Deps, options ...ServiceOption) (*Service, error) {
	if deps.Credentials == nil {
		return nil, errors.New("[NewService] credentials store is required")
	}
	if deps.Profiles == nil {
		return nil, errors.New("[NewService] profile store is required")
	}
	if deps.State == nil {
		return nil, errors.New("[NewService] session state is required")
	}
	if deps.Backend == nil {
		return nil, errors.New("[NewService] backend is required")
	}
	s := &Service{
		deps:         deps,
		dashboardURL: cfg.GetDashboardURL(),
		landing:      navigation.RouteDashboard,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// LandingRoute is where a login without a pending redirect goes.
func (s *Service) LandingRoute() string {
	return s.landing
}

// Login exchanges email and password for a session. It is the only flow
// that consumes pending.
func (s *Service) Login(ctx context.Context, email, password string, pending *navigation.PendingRedirect) (navigation.Target, error) {
	email, err := validateLogin(email, password)
	if err != nil {
		return navigation.Target{}, flowError(ErrValidation, MessageValidation, navigation.Target{}, err)
	}

	resp, err := s.deps.Backend.Login(ctx, email, password)
	if err == nil && (resp == nil || resp.User == nil || resp.Token == "") {
		err = backend.ErrMalformedResponse
	}
	if err != nil {
		log.Info().Err(err).Msg("Login rejected")
		return navigation.Target{}, flowError(ErrAuthentication, MessageAuthentication, navigation.Target{}, errors.Wrap(err, "[Login] backend login"))
	}

	user := resp.User.Profile()
	label := tenants.Label(strings.TrimSpace(user.TenantLabel))
	if err := s.commit(ctx, credentials.Credentials{Token: resp.Token, Label: label}, func() error {
		return s.deps.Profiles.Save(ctx, &user)
	}); err != nil {
		return navigation.Target{}, flowError(ErrStorage, MessageStorage, navigation.Target{}, errors.Wrap(err, "[Login]"))
	}

	s.deps.State.SetUser(ctx, &user)
	s.deps.State.SetEnabled(true)
	log.Info().Str("user", user.ID.String()).Str("label", label.String()).Str("token", credentials.RedactToken(resp.Token)).Msg("Logged in")

	if path, ok := pending.Consume(); ok {
		return navigation.Target{Path: path, Replace: true}, nil
	}
	return navigation.Target{Path: s.landing, Replace: true}, nil
}

// LoginPage is consulted when the login view is opened. A session that
// already has a user is sent to the landing route.
func (s *Service) LoginPage() (navigation.Target, bool) {
	if s.deps.State.Get().User != nil {
		return navigation.Target{Path: s.landing, Replace: true}, true
	}
	return navigation.Target{}, false
}

// Entry exchanges an inbound hospital link. Missing label or token is a
// no-op. Failures redirect to the external dashboard.
func (s *Service) Entry(ctx context.Context, label, token string) (navigation.Target, error) {
	parsed, err := tenants.ParseLabel(label)
	token = strings.TrimSpace(token)
	if err != nil || token == "" {
		return navigation.Target{}, nil
	}
	failed := navigation.Hard(s.dashboardURL)

	if err := s.deps.Backend.VerifyEntry(ctx, parsed, token); err != nil {
		log.Info().Err(err).Str("label", parsed.String()).Msg("Entry link rejected")
		return navigation.Target{}, flowError(ErrEntryAuthentication, MessageEntry, failed, errors.Wrap(err, "[Entry] verify entry"))
	}
	if err := s.commit(ctx, credentials.Credentials{Token: token, Label: parsed}, nil); err != nil {
		return navigation.Target{}, flowError(ErrStorage, MessageEntry, failed, errors.Wrap(err, "[Entry]"))
	}
	log.Info().Str("label", parsed.String()).Str("token", credentials.RedactToken(token)).Msg("Entry link accepted")
	return navigation.To(navigation.RouteRoot), nil
}

// ResolveShare exchanges a guest share token. The share token itself
// becomes the bearer token. Failures hard redirect to the root.
func (s *Service) ResolveShare(ctx context.Context, token string) (navigation.Target, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return navigation.Target{}, nil
	}
	failed := navigation.Hard(navigation.RouteRoot)

	res, err := s.deps.Backend.ResolveShare(ctx, token)
	if err != nil {
		log.Info().Err(err).Msg("Share link rejected")
		return navigation.Target{}, flowError(ErrShareResolution, MessageShare, failed, errors.Wrap(err, "[ResolveShare] resolve"))
	}
	label, err := tenants.ParseLabel(res.HospitalLabel)
	if err != nil || strings.TrimSpace(res.StudyID) == "" {
		return navigation.Target{}, flowError(ErrShareResolution, MessageShare, failed, errors.Wrap(backend.ErrMalformedResponse, "[ResolveShare]"))
	}
	if err := s.commit(ctx, credentials.Credentials{Token: token, Label: label}, nil); err != nil {
		return navigation.Target{}, flowError(ErrStorage, MessageShare, failed, errors.Wrap(err, "[ResolveShare]"))
	}
	log.Info().Str("study", res.StudyID).Str("label", label.String()).Msg("Share link resolved")
	return navigation.Viewer(res.StudyID), nil
}

// Logout resets the session, which removes the profile, token and label.
// It never fails and is safe to call when already logged out.
func (s *Service) Logout(ctx context.Context) navigation.Target {
	s.deps.State.Reset(ctx)
	return navigation.Login("")
}

// commit writes creds and then runs after. If after fails the credentials
// seen before the commit are put back, so a failed flow leaves no token or
// label it did not find.
func (s *Service) commit(ctx context.Context, creds credentials.Credentials, after func() error) error {
	before, err := s.deps.Credentials.Snapshot(ctx)
	if err != nil {
		return errors.Wrap(err, "snapshot credentials")
	}
	if err := s.deps.Credentials.Commit(ctx, creds); err != nil {
		return err
	}
	if after == nil {
		return nil
	}
	if err := after(); err != nil {
		if rerr := s.deps.Credentials.Restore(ctx, before); rerr != nil {
			log.Err(rerr).Msg("Failed to restore credentials after a failed write")
		}
		return err
	}
	return nil
}
