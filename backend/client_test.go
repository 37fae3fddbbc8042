package backend_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-viewer-session/backend"
	"github.com/jrsteele09/go-viewer-session/server/servertest"
	"github.com/jrsteele09/go-viewer-session/tenants"
	"github.com/jrsteele09/go-viewer-session/users"
)

func newClient(t *testing.T, baseURL string) *backend.Client {
	t.Helper()
	c, err := backend.New(baseURL)
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	_, err := backend.New("")
	require.Error(t, err)
	_, err = backend.New("ftp://example.com")
	require.Error(t, err)

	c, err := backend.New("https://api.example.com/v1/", backend.WithTimeout(time.Second))
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com/v1", c.BaseURL())
}

func TestLogin(t *testing.T) {
	b := servertest.New(t)
	c := newClient(t, b.URL)
	ctx := context.Background()

	resp, err := c.Login(ctx, servertest.Email, servertest.Password)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, users.Profile{ID: "1", DisplayName: "Admin", Email: servertest.Email, TenantLabel: servertest.Hospital}, resp.User.Profile())

	_, err = c.Login(ctx, servertest.Email, "wrong")
	require.True(t, backend.IsStatus(err, http.StatusUnauthorized))
}

func TestLogin_MalformedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"token":""}`)
	}))
	defer ts.Close()

	_, err := newClient(t, ts.URL).Login(context.Background(), "a@b.com", "secret")
	require.ErrorIs(t, err, backend.ErrMalformedResponse)
}

func TestVerifyEntry(t *testing.T) {
	b := servertest.New(t)
	c := newClient(t, b.URL)
	ctx := context.Background()

	require.NoError(t, c.VerifyEntry(ctx, "H1", b.EntryToken(t, "H1")))
	require.True(t, backend.IsStatus(c.VerifyEntry(ctx, "H2", b.EntryToken(t, "H1")), http.StatusForbidden))
	require.ErrorIs(t, c.VerifyEntry(ctx, "H1", ""), backend.ErrMissingToken)
}

func TestVerifyEntry_SendsLabelAndBearer(t *testing.T) {
	var got *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	require.NoError(t, newClient(t, ts.URL).VerifyEntry(context.Background(), "H2", "T2"))
	require.Equal(t, http.MethodPost, got.Method)
	require.Equal(t, backend.PathEntry, got.URL.Path)
	require.Equal(t, "H2", got.URL.Query().Get("label"))
	require.Equal(t, "Bearer T2", got.Header.Get("Authorization"))
}

func TestVerifySession(t *testing.T) {
	b := servertest.New(t)
	c := newClient(t, b.URL)
	ctx := context.Background()

	require.NoError(t, c.VerifySession(ctx, b.SessionToken(t)))
	require.True(t, backend.IsStatus(c.VerifySession(ctx, "bogus"), http.StatusUnauthorized))
	require.ErrorIs(t, c.VerifySession(ctx, ""), backend.ErrMissingToken)
}

func TestResolveShare(t *testing.T) {
	b := servertest.New(t)
	c := newClient(t, b.URL)
	ctx := context.Background()

	res, err := c.ResolveShare(ctx, b.ShareToken(t, "S1", "HG"))
	require.NoError(t, err)
	require.Equal(t, &backend.ShareResolution{StudyID: "S1", HospitalLabel: "HG"}, res)

	_, err = c.ResolveShare(ctx, "missing")
	require.True(t, backend.IsStatus(err, http.StatusNotFound))
}

func TestResolveShare_NoAuthorizationAndEscaping(t *testing.T) {
	var got *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, `{"study_id":"S1"}`)
	}))
	defer ts.Close()

	_, err := newClient(t, ts.URL).ResolveShare(context.Background(), "a/b")
	require.ErrorIs(t, err, backend.ErrMalformedResponse)
	require.Empty(t, got.Header.Get("Authorization"))
	require.Equal(t, "/share/study/a%2Fb", got.URL.EscapedPath())
}

func TestCreateShareLink(t *testing.T) {
	b := servertest.New(t)
	c := newClient(t, b.URL)
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: b.SessionToken(t)})

	link, err := c.CreateShareLink(ctx, ts, backend.ShareLinkRequest{
		StudyID:       "S9",
		SharedToEmail: "guest@example.com",
		ShareType:     backend.ShareTypeDoctor,
		Duration:      backend.ShareOneDay,
	})
	require.NoError(t, err)

	u, err := url.Parse(link.Link)
	require.NoError(t, err)
	res, err := c.ResolveShare(ctx, u.Query().Get("token"))
	require.NoError(t, err)
	require.Equal(t, "S9", res.StudyID)
	require.Equal(t, servertest.Hospital, res.HospitalLabel)

	_, err = c.CreateShareLink(ctx, ts, backend.ShareLinkRequest{StudyID: "S9"})
	require.Error(t, err)
}

func TestAuthorizedClient(t *testing.T) {
	var got http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer ts.Close()

	current := "T1"
	source := tokenFunc(func() (*oauth2.Token, error) { return &oauth2.Token{AccessToken: current}, nil })
	labels := func(context.Context) (tenants.Label, error) { return "H1", nil }
	hc := newClient(t, ts.URL).AuthorizedClient(source, labels)

	resp, err := hc.Get(ts.URL + "/studies")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "Bearer T1", got.Get("Authorization"))
	require.Equal(t, "H1", got.Get(tenants.HeaderName))

	// The token is read again on the next request.
	current = "T2"
	resp, err = hc.Get(ts.URL + "/studies")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "Bearer T2", got.Get("Authorization"))
}

type tokenFunc func() (*oauth2.Token, error)

func (f tokenFunc) Token() (*oauth2.Token, error) { return f() }
