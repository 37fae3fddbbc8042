package filestore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-viewer-session/storage"
	"github.com/jrsteele09/go-viewer-session/storage/filestore"
	"github.com/jrsteele09/go-viewer-session/storage/storagetest"
)

func TestStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		s, err := filestore.Open(filepath.Join(t.TempDir(), "nested", "credentials.yaml"))
		require.NoError(t, err)
		return s
	})
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials.yaml")

	s, err := filestore.Open(path)
	require.NoError(t, err)
	require.NoError(t, storage.Set(ctx, s, "authToken", "T1"))

	reopened, err := filestore.Open(path)
	require.NoError(t, err)
	v, err := reopened.Get(ctx, "authToken")
	require.NoError(t, err)
	require.Equal(t, "T1", v)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	require.NoError(t, os.WriteFile(path, []byte("values: [not, a, map"), 0o600))

	s, err := filestore.Open(path)
	require.NoError(t, err)
	_, err = s.Get(context.Background(), "authToken")
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse store file")
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := filestore.Open("")
	require.Error(t, err)
}
