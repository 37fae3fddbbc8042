package tenantrepofakes

import (
	"errors"
	"sort"
	"sync"

	"github.com/jrsteele09/go-viewer-session/tenants"
)

var _ tenants.Repo = (*FakeTenantRepo)(nil)

type FakeTenantRepo struct {
	tenants map[tenants.Label]*tenants.Tenant
	lock    sync.RWMutex
}

func NewFakeTenantRepo() *FakeTenantRepo {
	return &FakeTenantRepo{
		tenants: make(map[tenants.Label]*tenants.Tenant),
	}
}

func (tr *FakeTenantRepo) Upsert(tenant *tenants.Tenant) error {
	if tenant == nil || tenant.Label == "" {
		return errors.New("tenant label is required")
	}
	tr.lock.Lock()
	defer tr.lock.Unlock()
	tr.tenants[tenant.Label] = tenant
	return nil
}

func (tr *FakeTenantRepo) Delete(label tenants.Label) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	delete(tr.tenants, label)
	return nil
}

func (tr *FakeTenantRepo) Get(label tenants.Label) (*tenants.Tenant, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	t, ok := tr.tenants[label]
	if !ok {
		return nil, tenants.ErrTenantNotFound
	}
	return t, nil
}

func (tr *FakeTenantRepo) List(offset, limit int) ([]*tenants.Tenant, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	list := make([]*tenants.Tenant, 0, len(tr.tenants))
	for _, t := range tr.tenants {
		list = append(list, t)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].Label < list[j].Label
	})

	if offset < 0 || offset >= len(list) {
		return nil, nil
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end], nil
}
