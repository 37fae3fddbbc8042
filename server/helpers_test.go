package server_test

import (
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-viewer-session/server"
)

func httptestServer(t *testing.T, srv *server.Server) string {
	t.Helper()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts.URL
}
