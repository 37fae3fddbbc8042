package tenants_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-viewer-session/tenants"
	tenantrepofakes "github.com/jrsteele09/go-viewer-session/tenants/repofakes"
)

func TestParseLabel(t *testing.T) {
	l, err := tenants.ParseLabel("  H1 ")
	require.NoError(t, err)
	require.Equal(t, tenants.Label("H1"), l)

	_, err = tenants.ParseLabel("   ")
	require.ErrorIs(t, err, tenants.ErrEmptyLabel)
}

func TestFakeTenantRepo_List(t *testing.T) {
	repo := tenantrepofakes.NewFakeTenantRepo()
	for _, l := range []tenants.Label{"C", "A", "B"} {
		require.NoError(t, repo.Upsert(&tenants.Tenant{Label: l}))
	}

	page, err := repo.List(0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, tenants.Label("A"), page[0].Label)
	require.Equal(t, tenants.Label("B"), page[1].Label)

	page, err = repo.List(2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)

	page, err = repo.List(5, 2)
	require.NoError(t, err)
	require.Nil(t, page)

	_, err = repo.Get("Z")
	require.ErrorIs(t, err, tenants.ErrTenantNotFound)
	require.Error(t, repo.Upsert(&tenants.Tenant{}))
}
