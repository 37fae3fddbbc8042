// Package storage defines the key/value contract shared by the durable
// credential store and the tab-scoped profile store.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("key not found")

// Mutation is a single write applied by Store.Apply.
// A Mutation with Delete set removes Key and ignores Value.
type Mutation struct {
	Key    string
	Value  string
	Delete bool
}

// Put returns a mutation that writes value under key.
func Put(key, value string) Mutation {
	return Mutation{Key: key, Value: value}
}

// Del returns a mutation that removes key.
func Del(key string) Mutation {
	return Mutation{Key: key, Delete: true}
}

// Store is an origin-scoped string key/value store.
type Store interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Apply performs the mutations in order as one unit. Either all of
	// them are visible afterwards or none are. Removing a missing key is
	// not an error.
	Apply(ctx context.Context, mutations ...Mutation) error

	// Close releases the backend.
	Close() error
}

// Set writes a single key.
func Set(ctx context.Context, s Store, key, value string) error {
	return s.Apply(ctx, Put(key, value))
}

// Remove deletes a single key.
func Remove(ctx context.Context, s Store, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	mutations := make([]Mutation, 0, len(keys))
	for _, k := range keys {
		mutations = append(mutations, Del(k))
	}
	return s.Apply(ctx, mutations...)
}

// Lookup reads key and reports whether it was present. Backend failures
// other than ErrNotFound are returned.
func Lookup(ctx context.Context, s Store, key string) (string, bool, error) {
	v, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}
