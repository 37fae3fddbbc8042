// Package servertest starts the dev backend on an httptest server for
// package tests.
package servertest

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-viewer-session/internal/config"
	"github.com/jrsteele09/go-viewer-session/server"
	"github.com/jrsteele09/go-viewer-session/shares"
	fakesharerepo "github.com/jrsteele09/go-viewer-session/shares/repofake"
	tenantrepofakes "github.com/jrsteele09/go-viewer-session/tenants/repofakes"
	"github.com/jrsteele09/go-viewer-session/token"
	fakeuserrepo "github.com/jrsteele09/go-viewer-session/users/repofake"
)

const (
	Email    = "a@b.com"
	Password = "secret"
	Hospital = "H1"
	Secret   = "servertest-secret-0123456789abcdef"
)

// Backend is a running dev backend.
type Backend struct {
	*httptest.Server
	Dev   *server.Server
	Repos server.Repos

	calls atomic.Int64
}

// New starts a backend seeded with Email/Password in Hospital.
func New(t *testing.T) *Backend {
	t.Helper()
	cfg := config.WithOverrides(config.New(), map[string]string{
		"ENV":             "TEST",
		"TOKEN_SECRET":    Secret,
		"SEED_EMAIL":      Email,
		"SEED_PASSWORD":   Password,
		"SEED_HOSPITAL":   Hospital,
		"VIEWER_BASE_URL": "http://viewer.test",
	})
	repos := server.Repos{
		Users:   fakeuserrepo.NewFakeUserRepo(),
		Tenants: tenantrepofakes.NewFakeTenantRepo(),
		Shares:  fakesharerepo.NewFakeShareRepo(),
	}
	dev, err := server.New(cfg, repos)
	require.NoError(t, err)

	b := &Backend{Dev: dev, Repos: repos}
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.calls.Add(1)
		dev.ServeHTTP(w, r)
	}))
	t.Cleanup(b.Close)
	return b
}

// Calls returns the number of requests served so far.
func (b *Backend) Calls() int64 {
	return b.calls.Load()
}

// SessionToken mints a session token for the seed account.
func (b *Backend) SessionToken(t *testing.T) string {
	t.Helper()
	raw, err := b.Dev.Tokens().Issue(token.KindSession, "1", Email, Hospital)
	require.NoError(t, err)
	return raw
}

// EntryToken mints an entry token for label.
func (b *Backend) EntryToken(t *testing.T, label string) string {
	t.Helper()
	raw, err := b.Dev.Tokens().Issue(token.KindEntry, label, "", label)
	require.NoError(t, err)
	return raw
}

// ShareToken stores a share of studyID in label and returns its token.
func (b *Backend) ShareToken(t *testing.T, studyID, label string) string {
	t.Helper()
	share, err := shares.New(studyID, label, "guest@example.com", shares.TypePatient, "1d", "1", time.Now())
	require.NoError(t, err)
	require.NoError(t, b.Repos.Shares.Upsert(share))
	return share.Token
}
