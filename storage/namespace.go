package storage

import "context"

// Namespaced exposes a prefixed view of another store. Closing it does not
// close the underlying store.
type Namespaced struct {
	inner  Store
	prefix string
}

var _ Store = (*Namespaced)(nil)

// NewNamespaced returns a view of inner where every key is stored as
// prefix + ":" + key.
func NewNamespaced(inner Store, prefix string) *Namespaced {
	return &Namespaced{inner: inner, prefix: prefix}
}

func (n *Namespaced) key(k string) string {
	if n.prefix == "" {
		return k
	}
	return n.prefix + ":" + k
}

func (n *Namespaced) Get(ctx context.Context, key string) (string, error) {
	return n.inner.Get(ctx, n.key(key))
}

func (n *Namespaced) Apply(ctx context.Context, mutations ...Mutation) error {
	prefixed := make([]Mutation, len(mutations))
	for i, m := range mutations {
		m.Key = n.key(m.Key)
		prefixed[i] = m
	}
	return n.inner.Apply(ctx, prefixed...)
}

func (n *Namespaced) Close() error {
	return nil
}
