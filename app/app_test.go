package app_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-viewer-session/app"
	"github.com/jrsteele09/go-viewer-session/auth"
	"github.com/jrsteele09/go-viewer-session/backend"
	"github.com/jrsteele09/go-viewer-session/credentials"
	"github.com/jrsteele09/go-viewer-session/guard"
	"github.com/jrsteele09/go-viewer-session/internal/config"
	"github.com/jrsteele09/go-viewer-session/navigation"
	"github.com/jrsteele09/go-viewer-session/profile"
	"github.com/jrsteele09/go-viewer-session/server/servertest"
	"github.com/jrsteele09/go-viewer-session/sessions"
	"github.com/jrsteele09/go-viewer-session/storage/memory"
)

const testDashboardURL = "https://portal.example.com/dashboard"

type testFixture struct {
	backend *servertest.Backend
	creds   *credentials.Store
	state   *sessions.State
	service *auth.Service
	guard   *guard.Guard
	app     *app.App
}

func newFixture(t *testing.T) *testFixture {
	t.Helper()
	b := servertest.New(t)
	client, err := backend.New(b.URL)
	require.NoError(t, err)

	creds := credentials.New(memory.New())
	profiles := profile.New(memory.New())
	state := sessions.New(context.Background(), profiles, creds)

	cfg := config.WithOverrides(config.New(), map[string]string{"DASHBOARD_URL": testDashboardURL})
	svc, err := auth.NewService(cfg, auth.Deps{Credentials: creds, Profiles: profiles, State: state, Backend: client})
	require.NoError(t, err)
	g, err := guard.New(guard.Deps{Credentials: creds, Profiles: profiles, State: state, Verifier: client})
	require.NoError(t, err)
	a, err := app.New(svc, g)
	require.NoError(t, err)

	return &testFixture{backend: b, creds: creds, state: state, service: svc, guard: g, app: a}
}

func last(trail []app.Render) app.Render {
	return trail[len(trail)-1]
}

func TestOpen_PublicAndUnknownRoutes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r := f.app.Open(ctx, "/viewer?StudyInstanceUIDs=S1", nil)
	require.Equal(t, app.ViewViewer, r.View)
	require.Equal(t, "S1", r.Query.Get(navigation.StudyQueryParam))

	require.Equal(t, app.ViewNotFound, f.app.Open(ctx, "/nowhere", nil).View)
	require.Equal(t, app.ViewEntry, f.app.Open(ctx, "/entry", nil).View)
	require.Equal(t, app.ViewShare, f.app.Open(ctx, "/view", nil).View)
	require.Zero(t, f.backend.Calls())
}

func TestOpen_WorklistRequiresSession(t *testing.T) {
	f := newFixture(t)

	for _, location := range []string{"/", ""} {
		r := f.app.Open(context.Background(), location, nil)
		require.Empty(t, r.View)
		require.Equal(t, navigation.RouteLogin, r.Next.Path)
		require.Equal(t, "/", r.Next.Pending.Peek())
		require.Equal(t, guard.Denied, r.Guard.State)
	}
	require.Zero(t, f.backend.Calls())
}

func TestOpen_PrivateRouteWithoutTokenRedirectsToLogin(t *testing.T) {
	f := newFixture(t)

	r := f.app.Open(context.Background(), "/reports/", nil)
	require.Empty(t, r.View)
	require.Equal(t, navigation.RouteLogin, r.Next.Path)
	require.Equal(t, "/reports/", r.Next.Pending.Peek())
	require.Equal(t, guard.Denied, r.Guard.State)
}

func TestFollow_LoginResumesAttemptedLocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	trail, err := f.app.Follow(ctx, "/reports?tab=2", nil)
	require.NoError(t, err)
	login := last(trail)
	require.Equal(t, app.ViewLogin, login.View)
	require.NotNil(t, login.Pending)

	next, err := f.service.Login(ctx, servertest.Email, servertest.Password, login.Pending)
	require.NoError(t, err)
	require.Equal(t, "/reports?tab=2", next.String())

	trail, err = f.app.Follow(ctx, next.String(), nil)
	require.NoError(t, err)
	require.Equal(t, app.ViewReports, last(trail).View)
	require.Equal(t, "2", last(trail).Query.Get("tab"))

	// An authenticated user opening /login lands on the dashboard.
	trail, err = f.app.Follow(ctx, navigation.RouteLogin, nil)
	require.NoError(t, err)
	require.Len(t, trail, 2)
	require.Equal(t, app.ViewDashboard, last(trail).View)
}

func TestFollow_EntryLink(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := url.Values{"label": {"H1"}, "token": {f.backend.EntryToken(t, "H1")}}

	trail, err := f.app.Follow(ctx, "/entry?"+q.Encode(), nil)
	require.NoError(t, err)
	require.Len(t, trail, 3)
	require.Equal(t, navigation.RouteRoot, trail[0].Next.Path)

	// The entry token verifies but carries no user for this tab, so the
	// worklist guard purges it and asks for a login that resumes at /.
	require.ErrorIs(t, trail[1].Err, auth.ErrVerification)
	login := last(trail)
	require.Equal(t, app.ViewLogin, login.View)
	require.Equal(t, "/", login.Pending.Peek())
	_, err = f.creds.Token(ctx)
	require.ErrorIs(t, err, credentials.ErrCredentialNotFound)

	next, err := f.service.Login(ctx, servertest.Email, servertest.Password, login.Pending)
	require.NoError(t, err)
	trail, err = f.app.Follow(ctx, next.String(), nil)
	require.NoError(t, err)
	require.Equal(t, app.ViewWorklist, last(trail).View)
}

func TestFollow_RejectedEntryStopsAtExternalDashboard(t *testing.T) {
	f := newFixture(t)

	trail, err := f.app.Follow(context.Background(), "/entry?label=H2&token=bogus", nil)
	require.NoError(t, err)
	r := last(trail)
	require.Equal(t, navigation.Hard(testDashboardURL), r.Next)
	require.Equal(t, auth.MessageEntry, r.Message)
	require.ErrorIs(t, r.Err, auth.ErrEntryAuthentication)
}

func TestFollow_ShareLink(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shareToken := f.backend.ShareToken(t, "S1", servertest.Hospital)

	trail, err := f.app.Follow(ctx, "/view?token="+shareToken, nil)
	require.NoError(t, err)
	r := last(trail)
	require.Equal(t, app.ViewViewer, r.View)
	require.Equal(t, "S1", r.Query.Get(navigation.StudyQueryParam))

	// A failed share resolution hard redirects to the root, which is
	// guarded like any private route.
	trail, err = f.app.Follow(ctx, "/view?token=unknown", nil)
	require.NoError(t, err)
	require.Equal(t, auth.MessageShare, trail[0].Message)
	require.True(t, trail[0].Next.Hard)
	require.Equal(t, app.ViewLogin, last(trail).View)
}

func TestFollow_Logout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.service.Login(ctx, servertest.Email, servertest.Password, nil)
	require.NoError(t, err)

	trail, err := f.app.Follow(ctx, navigation.RouteLogout, nil)
	require.NoError(t, err)
	require.Equal(t, app.ViewLogin, last(trail).View)
	require.Nil(t, last(trail).Pending)
	require.Equal(t, sessions.Session{}, f.state.Get())

	// Logging out again with no session still ends on the login view
	// without remembering /logout.
	trail, err = f.app.Follow(ctx, navigation.RouteLogout, nil)
	require.NoError(t, err)
	require.Equal(t, app.ViewLogin, last(trail).View)
	require.Nil(t, last(trail).Pending)
}

func TestFollow_HopLimit(t *testing.T) {
	f := newFixture(t)
	a, err := app.New(f.service, f.guard, app.WithMaxHops(1))
	require.NoError(t, err)

	trail, err := a.Follow(context.Background(), navigation.RouteReports, nil)
	require.ErrorIs(t, err, app.ErrTooManyRedirects)
	require.Len(t, trail, 1)
}

func TestNew_RequiresDeps(t *testing.T) {
	_, err := app.New(nil, nil)
	require.Error(t, err)
}
