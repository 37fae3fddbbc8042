package tenants

import "errors"

var ErrTenantNotFound = errors.New("tenant not found")

type Repo interface {
	Upsert(tenant *Tenant) error
	Delete(label Label) error
	Get(label Label) (*Tenant, error)
	List(offset, limit int) ([]*Tenant, error)
}
