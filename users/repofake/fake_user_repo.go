package fakeuserrepo

import (
	"strconv"
	"strings"
	"sync"

	"github.com/jrsteele09/go-viewer-session/users"
)

var _ users.AccountRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	accounts map[users.UserID]*users.Account
	emailIds map[string]users.UserID // email to account id
	nextID   int
	lock     sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		accounts: make(map[users.UserID]*users.Account),
		emailIds: make(map[string]users.UserID),
	}
}

// Upsert stores the account, assigning the next numeric id when none is set.
func (ur *FakeUserRepo) Upsert(account *users.Account) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if account.ID == "" {
		ur.nextID++
		account.ID = users.UserID(strconv.Itoa(ur.nextID))
	}
	ur.accounts[account.ID] = account
	ur.emailIds[normalizeEmail(account.Email)] = account.ID
	return nil
}

func (ur *FakeUserRepo) Delete(email string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	id, ok := ur.emailIds[normalizeEmail(email)]
	if !ok {
		return users.ErrAccountNotFound
	}
	delete(ur.emailIds, normalizeEmail(email))
	delete(ur.accounts, id)
	return nil
}

func (ur *FakeUserRepo) GetByEmail(email string) (*users.Account, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[normalizeEmail(email)]
	if !ok {
		return nil, users.ErrAccountNotFound
	}
	return ur.accounts[id], nil
}

func (ur *FakeUserRepo) GetByID(id users.UserID) (*users.Account, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	account, ok := ur.accounts[id]
	if !ok {
		return nil, users.ErrAccountNotFound
	}
	return account, nil
}

func (ur *FakeUserRepo) SetBlocked(email string, blocked bool) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	id, ok := ur.emailIds[normalizeEmail(email)]
	if !ok {
		return users.ErrAccountNotFound
	}
	ur.accounts[id].Blocked = blocked
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
