package sessions_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-viewer-session/credentials"
	"github.com/jrsteele09/go-viewer-session/internal/utils"
	"github.com/jrsteele09/go-viewer-session/profile"
	"github.com/jrsteele09/go-viewer-session/sessions"
	"github.com/jrsteele09/go-viewer-session/storage"
	"github.com/jrsteele09/go-viewer-session/storage/memory"
	"github.com/jrsteele09/go-viewer-session/users"
)

type fixture struct {
	durable  *memory.Store
	volatile *memory.Store
	creds    *credentials.Store
	profiles *profile.Store
}

func newFixture() *fixture {
	f := &fixture{durable: memory.New(), volatile: memory.New()}
	f.creds = credentials.New(f.durable)
	f.profiles = profile.New(f.volatile)
	return f
}

var testProfile = &users.Profile{ID: "1", DisplayName: "A", Email: "a@b.com", TenantLabel: "H1"}

func TestNew_Initial(t *testing.T) {
	f := newFixture()
	st := sessions.New(context.Background(), f.profiles, f.creds)
	require.Equal(t, sessions.Session{}, st.Get())
	require.False(t, st.Get().Authenticated())
}

func TestNew_HydratesFromProfileStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	require.NoError(t, f.profiles.Save(ctx, testProfile))

	st := sessions.New(ctx, f.profiles, f.creds)
	got := st.Get()
	require.True(t, got.Authenticated())
	require.Equal(t, testProfile, got.User)
}

func TestNew_MalformedProfileIsAbsent(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	require.NoError(t, storage.Set(ctx, f.volatile, profile.UserKey, "{broken"))

	st := sessions.New(ctx, f.profiles, f.creds)
	require.Equal(t, sessions.Session{}, st.Get())
	require.Equal(t, 0, f.volatile.Len())
}

func TestState_SetUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	st := sessions.New(ctx, f.profiles, f.creds)

	st.SetUser(ctx, testProfile)
	stored, err := f.profiles.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, testProfile, stored)
	require.False(t, st.Get().Enabled)

	st.SetEnabled(true)
	require.True(t, st.Get().Authenticated())

	st.SetUser(ctx, nil)
	require.Equal(t, sessions.Session{}, st.Get())
	_, err = f.profiles.Load(ctx)
	require.ErrorIs(t, err, profile.ErrNoProfile)
}

func TestState_EnabledRequiresUser(t *testing.T) {
	f := newFixture()
	st := sessions.New(context.Background(), f.profiles, f.creds)

	st.SetEnabled(true)
	require.False(t, st.Get().Enabled)

	st.Set(sessions.Partial{Enabled: utils.Ptr(true)})
	require.False(t, st.Get().Enabled)
}

func TestState_SetMergesWithoutStorage(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	st := sessions.New(ctx, f.profiles, f.creds)

	st.Set(sessions.Partial{User: testProfile, Enabled: utils.Ptr(true)})
	require.True(t, st.Get().Authenticated())
	require.Equal(t, 0, f.volatile.Len())

	st.Set(sessions.Partial{Enabled: utils.Ptr(false)})
	got := st.Get()
	require.False(t, got.Enabled)
	require.Equal(t, testProfile, got.User)
}

func TestState_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	st := sessions.New(ctx, f.profiles, f.creds)
	st.SetUser(ctx, testProfile)

	got := st.Get()
	got.User.Email = "changed@b.com"
	require.Equal(t, "a@b.com", st.Get().User.Email)
}

func TestState_Reset(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	st := sessions.New(ctx, f.profiles, f.creds)
	require.NoError(t, f.creds.Commit(ctx, credentials.Credentials{Token: "T1", Label: "H1"}))
	st.SetUser(ctx, testProfile)
	st.SetEnabled(true)

	st.Reset(ctx)
	require.Equal(t, sessions.Session{}, st.Get())
	require.Equal(t, 0, f.durable.Len())
	require.Equal(t, 0, f.volatile.Len())

	st.Reset(ctx)
	require.Equal(t, sessions.Session{}, st.Get())
}
