// Package storagetest holds the behaviour every storage.Store backend must
// share. Backend packages call Run from their own tests.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-viewer-session/storage"
)

// Run exercises newStore against the storage.Store contract. newStore must
// return an empty store on every call.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, "authToken")
		require.ErrorIs(t, err, storage.ErrNotFound)

		_, ok, err := storage.Lookup(ctx, s, "authToken")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("set then get", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, storage.Set(ctx, s, "authToken", "T1"))
		v, err := s.Get(ctx, "authToken")
		require.NoError(t, err)
		require.Equal(t, "T1", v)

		require.NoError(t, storage.Set(ctx, s, "authToken", "T2"))
		v, err = s.Get(ctx, "authToken")
		require.NoError(t, err)
		require.Equal(t, "T2", v)
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, storage.Set(ctx, s, "x-orthanc-label", "H1"))
		require.NoError(t, storage.Remove(ctx, s, "x-orthanc-label"))
		require.NoError(t, storage.Remove(ctx, s, "x-orthanc-label"))
		_, err := s.Get(ctx, "x-orthanc-label")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("apply runs mutations in order", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, storage.Set(ctx, s, "x-orthanc-label", "OLD"))
		require.NoError(t, s.Apply(ctx,
			storage.Del("x-orthanc-label"),
			storage.Put("x-orthanc-label", "NEW"),
			storage.Put("authToken", "T3"),
		))

		label, err := s.Get(ctx, "x-orthanc-label")
		require.NoError(t, err)
		require.Equal(t, "NEW", label)
		token, err := s.Get(ctx, "authToken")
		require.NoError(t, err)
		require.Equal(t, "T3", token)
	})

	t.Run("namespaced keys do not collide", func(t *testing.T) {
		s := newStore(t)
		a := storage.NewNamespaced(s, "tab-a")
		b := storage.NewNamespaced(s, "tab-b")
		require.NoError(t, storage.Set(ctx, a, "user", `{"id":"1"}`))

		_, err := b.Get(ctx, "user")
		require.ErrorIs(t, err, storage.ErrNotFound)
		v, err := a.Get(ctx, "user")
		require.NoError(t, err)
		require.Equal(t, `{"id":"1"}`, v)
	})
}
