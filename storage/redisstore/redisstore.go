// Package redisstore provides a Redis-backed storage.Store, for deployments
// where several client processes share one durable credential store.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jrsteele09/go-viewer-session/storage"
)

const defaultPrefix = "viewer"

var _ storage.Store = (*Store)(nil)

type Store struct {
	redis     *redis.Client
	prefix    string
	ownClient bool
}

// New wraps an existing client. The caller keeps ownership of the client.
func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{redis: client, prefix: prefix}
}

// Dial connects to addr and pings it.
func Dial(ctx context.Context, addr, prefix string) (*Store, error) {
	if addr == "" {
		return nil, errors.New("[redisstore.Dial] addr is required")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("[redisstore.Dial] ping %s: %w", addr, err)
	}
	s := New(client, prefix)
	s.ownClient = true
	return s, nil
}

func (s *Store) key(k string) string {
	return s.prefix + ":" + k
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	v, err := s.redis.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %q: %w", key, err)
	}
	return v, nil
}

// Apply runs the mutations in one MULTI/EXEC transaction.
func (s *Store) Apply(ctx context.Context, mutations ...storage.Mutation) error {
	if len(mutations) == 0 {
		return nil
	}
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, m := range mutations {
			if m.Delete {
				pipe.Del(ctx, s.key(m.Key))
				continue
			}
			pipe.Set(ctx, s.key(m.Key), m.Value, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis apply: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if !s.ownClient {
		return nil
	}
	return s.redis.Close()
}
