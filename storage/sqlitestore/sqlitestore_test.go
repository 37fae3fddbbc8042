package sqlitestore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-viewer-session/storage"
	"github.com/jrsteele09/go-viewer-session/storage/sqlitestore"
	"github.com/jrsteele09/go-viewer-session/storage/storagetest"
)

func TestStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		s, err := sqlitestore.Open(filepath.Join(t.TempDir(), "session.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestStore_InMemory(t *testing.T) {
	s, err := sqlitestore.Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, storage.Set(ctx, s, "authToken", "T1"))
	v, err := s.Get(ctx, "authToken")
	require.NoError(t, err)
	require.Equal(t, "T1", v)
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	s, err := sqlitestore.Open(path)
	require.NoError(t, err)
	require.NoError(t, storage.Set(ctx, s, "x-orthanc-label", "H1"))
	require.NoError(t, s.Close())

	s, err = sqlitestore.Open(path)
	require.NoError(t, err)
	defer s.Close()
	v, err := s.Get(ctx, "x-orthanc-label")
	require.NoError(t, err)
	require.Equal(t, "H1", v)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := sqlitestore.Open("  ")
	require.Error(t, err)
}
