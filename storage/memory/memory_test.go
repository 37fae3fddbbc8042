package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-viewer-session/storage"
	"github.com/jrsteele09/go-viewer-session/storage/memory"
	"github.com/jrsteele09/go-viewer-session/storage/storagetest"
)

func TestStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		return memory.New()
	})
}

func TestStore_CloseDropsValues(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, storage.Set(ctx, s, "user", "{}"))
	require.Equal(t, 1, s.Len())

	require.NoError(t, s.Close())
	require.Equal(t, 0, s.Len())
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := memory.New().Apply(ctx, storage.Put("a", "b"))
	require.ErrorIs(t, err, context.Canceled)
}
