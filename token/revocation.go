package token

import (
	"sync"
	"time"
)

// Denylist holds the IDs of tokens logged out before they expire. An entry
// is only kept until the token would have expired anyway.
type Denylist interface {
	Deny(id string, until time.Time)
	Denied(id string) bool
}

// MemoryDenylist is a Denylist for a single backend process.
type MemoryDenylist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

var _ Denylist = (*MemoryDenylist)(nil)

// NewMemoryDenylist uses now as its clock; nil means time.Now.
func NewMemoryDenylist(now func() time.Time) *MemoryDenylist {
	if now == nil {
		now = time.Now
	}
	return &MemoryDenylist{entries: make(map[string]time.Time), now: now}
}

// Deny records id until the given expiry. Entries already past their
// expiry are dropped on every call.
func (d *MemoryDenylist) Deny(id string, until time.Time) {
	if id == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	for k, exp := range d.entries {
		if now.After(exp) {
			delete(d.entries, k)
		}
	}
	d.entries[id] = until
}

func (d *MemoryDenylist) Denied(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	exp, ok := d.entries[id]
	return ok && !d.now().After(exp)
}

// Len is the number of entries held.
func (d *MemoryDenylist) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}
