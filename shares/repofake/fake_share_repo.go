package fakesharerepo

import (
	"sync"

	"github.com/jrsteele09/go-viewer-session/shares"
)

var _ shares.Repo = (*FakeShareRepo)(nil)

type FakeShareRepo struct {
	shares map[string]*shares.Share
	lock   sync.RWMutex
}

func NewFakeShareRepo() *FakeShareRepo {
	return &FakeShareRepo{
		shares: make(map[string]*shares.Share),
	}
}

func (sr *FakeShareRepo) Upsert(share *shares.Share) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	sr.shares[share.Token] = share
	return nil
}

func (sr *FakeShareRepo) Get(token string) (*shares.Share, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()
	share, ok := sr.shares[token]
	if !ok {
		return nil, shares.ErrShareNotFound
	}
	return share, nil
}

func (sr *FakeShareRepo) Delete(token string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	if _, ok := sr.shares[token]; !ok {
		return shares.ErrShareNotFound
	}
	delete(sr.shares, token)
	return nil
}
