// Package profile keeps the signed-in user's profile for the lifetime of a
// tab. The backing store is expected to be tab scoped (memory, or a file
// named after the tab id).
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jrsteele09/go-viewer-session/storage"
	"github.com/jrsteele09/go-viewer-session/users"
)

// UserKey is the storage key holding the serialized profile.
const UserKey = "user"

var (
	ErrNoProfile        = errors.New("no stored profile")
	ErrMalformedProfile = errors.New("malformed stored profile")
)

type Store struct {
	kv storage.Store
}

func New(kv storage.Store) *Store {
	return &Store{kv: kv}
}

// Load returns the stored profile, ErrNoProfile, or an error wrapping
// ErrMalformedProfile when the stored value cannot be decoded.
func (s *Store) Load(ctx context.Context) (*users.Profile, error) {
	raw, ok, err := storage.Lookup(ctx, s.kv, UserKey)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	if !ok || raw == "" || raw == "null" {
		return nil, ErrNoProfile
	}
	var p users.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedProfile, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedProfile, err)
	}
	return &p, nil
}

// Save serializes p. A nil profile removes the entry.
func (s *Store) Save(ctx context.Context, p *users.Profile) error {
	if p == nil {
		return s.Remove(ctx)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := storage.Set(ctx, s.kv, UserKey, string(data)); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context) error {
	if err := storage.Remove(ctx, s.kv, UserKey); err != nil {
		return fmt.Errorf("remove profile: %w", err)
	}
	return nil
}
