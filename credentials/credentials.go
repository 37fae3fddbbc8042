// Package credentials owns the bearer token and tenant label held in the
// durable store. Callers read the token at the moment they need it; nothing
// else in the module caches it.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-viewer-session/storage"
	"github.com/jrsteele09/go-viewer-session/tenants"
)

// Durable storage keys.
const (
	TokenKey = "authToken"
	LabelKey = tenants.HeaderName
)

// ErrCredentialNotFound is returned when no token (or label) is stored.
var ErrCredentialNotFound = errors.New("credential not found")

// Credentials is the pair written by a successful exchange.
type Credentials struct {
	Token string
	Label tenants.Label
}

// Snapshot records what the store held at one moment, including absence.
type Snapshot struct {
	Token    string
	HasToken bool
	Label    tenants.Label
	HasLabel bool
}

// Empty reports whether neither token nor label is present.
func (s Snapshot) Empty() bool {
	return !s.HasToken && !s.HasLabel
}

// Store wraps a storage.Store with the credential keys.
type Store struct {
	kv storage.Store
}

func New(kv storage.Store) *Store {
	return &Store{kv: kv}
}

// Token returns the stored bearer token or ErrCredentialNotFound.
func (s *Store) Token(ctx context.Context) (string, error) {
	return s.get(ctx, TokenKey)
}

// Label returns the stored tenant label or ErrCredentialNotFound.
func (s *Store) Label(ctx context.Context) (tenants.Label, error) {
	v, err := s.get(ctx, LabelKey)
	return tenants.Label(v), err
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	v, ok, err := storage.Lookup(ctx, s.kv, key)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || strings.TrimSpace(v) == "" {
		return "", ErrCredentialNotFound
	}
	return v, nil
}

// Snapshot reads both keys.
func (s *Store) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	token, err := s.Token(ctx)
	switch {
	case err == nil:
		snap.Token, snap.HasToken = token, true
	case !errors.Is(err, ErrCredentialNotFound):
		return Snapshot{}, err
	}
	label, err := s.Label(ctx)
	switch {
	case err == nil:
		snap.Label, snap.HasLabel = label, true
	case !errors.Is(err, ErrCredentialNotFound):
		return Snapshot{}, err
	}
	return snap, nil
}

// Commit replaces the stored pair in one atomic write. The previous label
// is always removed first, so an empty Label leaves no label behind.
func (s *Store) Commit(ctx context.Context, c Credentials) error {
	if strings.TrimSpace(c.Token) == "" {
		return errors.New("[credentials.Commit] token is required")
	}
	mutations := []storage.Mutation{storage.Del(LabelKey)}
	if c.Label != "" {
		mutations = append(mutations, storage.Put(LabelKey, c.Label.String()))
	}
	mutations = append(mutations, storage.Put(TokenKey, c.Token))
	if err := s.kv.Apply(ctx, mutations...); err != nil {
		return fmt.Errorf("commit credentials: %w", err)
	}
	return nil
}

// Restore writes snap back, removing keys that were absent when it was taken.
func (s *Store) Restore(ctx context.Context, snap Snapshot) error {
	mutations := make([]storage.Mutation, 0, 2)
	if snap.HasLabel {
		mutations = append(mutations, storage.Put(LabelKey, snap.Label.String()))
	} else {
		mutations = append(mutations, storage.Del(LabelKey))
	}
	if snap.HasToken {
		mutations = append(mutations, storage.Put(TokenKey, snap.Token))
	} else {
		mutations = append(mutations, storage.Del(TokenKey))
	}
	if err := s.kv.Apply(ctx, mutations...); err != nil {
		return fmt.Errorf("restore credentials: %w", err)
	}
	return nil
}

// Clear removes token and label. Clearing an empty store is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	if err := storage.Remove(ctx, s.kv, TokenKey, LabelKey); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// TokenSource returns an oauth2.TokenSource that reads the store on every
// call. Use it with oauth2.Transport directly; oauth2.NewClient would cache
// the first token for good since stored tokens carry no expiry.
func (s *Store) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &storeTokenSource{ctx: ctx, store: s}
}

type storeTokenSource struct {
	ctx   context.Context
	store *Store
}

func (ts *storeTokenSource) Token() (*oauth2.Token, error) {
	token, err := ts.store.Token(ts.ctx)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}

// RedactToken safely redacts a token for logging purposes.
func RedactToken(tok string) string {
	if tok == "" {
		return ""
	}
	if len(tok) <= 4 {
		return "***"
	}
	return tok[:4] + "***"
}
