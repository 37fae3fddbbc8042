package users

import "errors"

var ErrAccountNotFound = errors.New("account not found")

type AccountRepo interface {
	Upsert(account *Account) error
	Delete(email string) error
	GetByEmail(email string) (*Account, error)
	GetByID(id UserID) (*Account, error)
	SetBlocked(email string, blocked bool) error
}
