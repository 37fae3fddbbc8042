// Package memory is an in-process storage.Store. It backs the tab-scoped
// profile store and doubles as the durable store in tests.
package memory

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-viewer-session/storage"
)

var _ storage.Store = (*Store)(nil)

type Store struct {
	values map[string]string
	lock   sync.RWMutex
}

func New() *Store {
	return &Store{
		values: make(map[string]string),
	}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.lock.RLock()
	defer s.lock.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

func (s *Store) Apply(ctx context.Context, mutations ...storage.Mutation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, m := range mutations {
		if m.Delete {
			delete(s.values, m.Key)
			continue
		}
		s.values[m.Key] = m.Value
	}
	return nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.values)
}

// Close drops every value, matching a tab being closed.
func (s *Store) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.values = make(map[string]string)
	return nil
}
