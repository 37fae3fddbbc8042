package navigation

import "sync"

// PendingRedirect holds the location a user attempted before being sent to
// login. It is carried with navigation state, never persisted, and yields
// its path exactly once.
type PendingRedirect struct {
	mu       sync.Mutex
	path     string
	consumed bool
}

func NewPendingRedirect(path string) *PendingRedirect {
	return &PendingRedirect{path: path}
}

// Consume returns the remembered path the first time it is called and
// reports false on every later call. A nil receiver is treated as empty.
func (p *PendingRedirect) Consume() (string, bool) {
	if p == nil {
		return "", false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.consumed || p.path == "" {
		return "", false
	}
	p.consumed = true
	return p.path, true
}

// Peek returns the path without consuming it.
func (p *PendingRedirect) Peek() string {
	if p == nil {
		return ""
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.consumed {
		return ""
	}
	return p.path
}
