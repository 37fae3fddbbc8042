package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-viewer-session/token"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestIssuer_IssueAndParse(t *testing.T) {
	issuer, err := token.NewIssuer(testSecret)
	require.NoError(t, err)

	raw, err := issuer.Issue(token.KindSession, "1", "a@b.com", "H1")
	require.NoError(t, err)

	claims, err := issuer.Parse(raw, token.KindSession)
	require.NoError(t, err)
	require.Equal(t, "1", claims.Subject)
	require.Equal(t, "H1", claims.Label)
	require.NotEmpty(t, claims.ID)

	_, err = issuer.Parse(raw, token.KindEntry)
	require.ErrorIs(t, err, token.ErrWrongKind)
}

func TestIssuer_RejectsForeignAndExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := now
	issuer, err := token.NewIssuer(testSecret, token.WithTTL(time.Hour), token.WithNowTime(func() time.Time { return clock }))
	require.NoError(t, err)

	other, err := token.NewIssuer([]byte("ffffffffffffffffffffffffffffffff"))
	require.NoError(t, err)
	foreign, err := other.Issue(token.KindSession, "1", "", "")
	require.NoError(t, err)
	_, err = issuer.Parse(foreign, token.KindSession)
	require.ErrorIs(t, err, token.ErrInvalidToken)

	raw, err := issuer.Issue(token.KindSession, "1", "", "")
	require.NoError(t, err)
	clock = now.Add(2 * time.Hour)
	_, err = issuer.Parse(raw, token.KindSession)
	require.ErrorIs(t, err, token.ErrInvalidToken)

	_, err = issuer.Parse("  ", token.KindSession)
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestIssuer_Revoke(t *testing.T) {
	issuer, err := token.NewIssuer(testSecret)
	require.NoError(t, err)
	raw, err := issuer.Issue(token.KindEntry, "H2", "", "H2")
	require.NoError(t, err)

	require.NoError(t, issuer.Revoke(raw))
	_, err = issuer.Parse(raw, token.KindEntry)
	require.ErrorIs(t, err, token.ErrTokenRevoked)

	require.Error(t, issuer.Revoke("not-a-jwt"))
}

func TestNewIssuer_ShortSecret(t *testing.T) {
	_, err := token.NewIssuer([]byte("short"))
	require.Error(t, err)
}

func TestPeek(t *testing.T) {
	issuer, err := token.NewIssuer(testSecret, token.WithTTL(time.Hour))
	require.NoError(t, err)
	raw, err := issuer.Issue(token.KindSession, "7", "", "H1")
	require.NoError(t, err)

	info, err := token.Peek(raw)
	require.NoError(t, err)
	require.Equal(t, "7", info.Subject)
	require.Equal(t, token.KindSession, info.Kind)
	require.False(t, info.Expired(time.Now()))
	require.True(t, info.Expired(time.Now().Add(2*time.Hour)))

	_, err = token.Peek("opaque-share-token")
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestMemoryDenylist(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	d := token.NewMemoryDenylist(func() time.Time { return now })
	d.Deny("a", now.Add(time.Minute))
	d.Deny("b", now.Add(time.Hour))
	d.Deny("", now.Add(time.Hour))
	require.True(t, d.Denied("a"))
	require.Equal(t, 2, d.Len())

	now = now.Add(10 * time.Minute)
	require.False(t, d.Denied("a"))
	require.True(t, d.Denied("b"))

	d.Deny("c", now.Add(time.Hour))
	require.Equal(t, 2, d.Len())
}
