package shares

import "errors"

var ErrShareNotFound = errors.New("share not found")

type Repo interface {
	Upsert(share *Share) error
	Get(token string) (*Share, error)
	Delete(token string) error
}
