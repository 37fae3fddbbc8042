package shares_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-viewer-session/shares"
	fakesharerepo "github.com/jrsteele09/go-viewer-session/shares/repofake"
)

func TestNew(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s, err := shares.New("S1", "HG", " Guest@Example.com ", shares.TypePatient, "7d", "1", now)
	require.NoError(t, err)
	require.Len(t, s.Token, 32)
	require.Equal(t, "guest@example.com", s.SharedToEmail)
	require.Equal(t, now.Add(7*24*time.Hour), s.ExpiresAt)
	require.False(t, s.Expired(now))
	require.True(t, s.Expired(s.ExpiresAt))

	_, err = shares.New("", "HG", "", shares.TypePatient, "1d", "", now)
	require.Error(t, err)
	_, err = shares.New("S1", "HG", "", "viewer", "1d", "", now)
	require.Error(t, err)
	_, err = shares.New("S1", "HG", "", shares.TypeDoctor, "2w", "", now)
	require.Error(t, err)
}

func TestFakeShareRepo(t *testing.T) {
	repo := fakesharerepo.NewFakeShareRepo()
	s, err := shares.New("S1", "HG", "", shares.TypeDoctor, "1d", "1", time.Now())
	require.NoError(t, err)

	require.NoError(t, repo.Upsert(s))
	got, err := repo.Get(s.Token)
	require.NoError(t, err)
	require.Equal(t, "S1", got.StudyID)

	require.NoError(t, repo.Delete(s.Token))
	_, err = repo.Get(s.Token)
	require.ErrorIs(t, err, shares.ErrShareNotFound)
	require.ErrorIs(t, repo.Delete(s.Token), shares.ErrShareNotFound)
}
