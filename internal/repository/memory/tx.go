// internal/repository/memory/tx.go
package memory

import (
	"context"
	"fmt"
	"sort"

	"minibank/internal/domain"
	"minibank/internal/repository"
	"minibank/internal/util"
)

// tx is a single in-memory transaction. It is not safe for concurrent use;
// a unit of work runs on one call chain.
type tx struct {
	store *Store
	done  bool
	locks []int64 // account ids locked by this transaction

	// write set
	accounts map[int64]*domain.Account // staged inserts and updates
	created  map[int64]bool            // accounts inserted by this transaction
	deleted  map[int64]bool
	users    map[int64]*domain.User
	logins   map[string]int64
}

func newTx(s *Store) *tx {
	return &tx{
		store:    s,
		accounts: make(map[int64]*domain.Account),
		created:  make(map[int64]bool),
		deleted:  make(map[int64]bool),
		users:    make(map[int64]*domain.User),
		logins:   make(map[string]int64),
	}
}

var _ repository.Tx = (*tx)(nil)

func (t *tx) Users() repository.UserRepository       { return userRepository{t} }
func (t *tx) Accounts() repository.AccountRepository { return accountRepository{t} }

// Commit publishes the write set atomically and releases the row locks.
// The transaction is finished afterwards whatever the outcome.
func (t *tx) Commit() error {
	if t.done {
		return ErrTxDone
	}
	t.done = true

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.releaseLocks(t)

	for login := range t.logins {
		if _, taken := s.logins[login]; taken {
			return fmt.Errorf("%w: user with login '%s'", util.ErrAlreadyExists, login)
		}
	}
	for _, a := range t.accounts {
		if err := domain.EnsureNonNegative(a.Balance); err != nil {
			return fmt.Errorf("account %d: %w", a.ID, err)
		}
	}

	// Every updated or deleted row is locked by t, so nobody changed it since it was read.
	for id, u := range t.users {
		s.users[id] = *u
		s.logins[u.Login] = id
	}
	for id, a := range t.accounts {
		s.accounts[id] = *a
	}
	for id := range t.deleted {
		delete(s.accounts, id)
	}
	return nil
}

// Rollback discards the write set and releases the row locks.
func (t *tx) Rollback() error {
	if t.done {
		return ErrTxDone
	}
	t.done = true

	s := t.store
	s.mu.Lock()
	s.releaseLocks(t)
	s.mu.Unlock()
	return nil
}

func (t *tx) check(ctx context.Context) error {
	if t.done {
		return ErrTxDone
	}
	return ctx.Err()
}

type accountRepository struct{ t *tx }

// GetAccountByID returns the account and keeps it locked until the transaction ends.
func (r accountRepository) GetAccountByID(ctx context.Context, id int64) (*domain.Account, error) {
	t := r.t
	if err := t.check(ctx); err != nil {
		return nil, err
	}
	if t.deleted[id] {
		return nil, util.ErrNotFound
	}
	if a, ok := t.accounts[id]; ok {
		cp := *a
		return &cp, nil
	}

	if _, ok := t.store.readAccount(id); !ok {
		return nil, util.ErrNotFound
	}
	if err := t.store.lockAccount(ctx, t, id); err != nil {
		return nil, err
	}
	// The row may have been deleted by the transaction we waited for.
	a, ok := t.store.readAccount(id)
	if !ok {
		return nil, util.ErrNotFound
	}
	return &a, nil
}

// ListAccountsByUserID reads committed rows merged with this transaction's own writes.
// It takes no locks.
func (r accountRepository) ListAccountsByUserID(ctx context.Context, userID int64) ([]domain.Account, error) {
	t := r.t
	if err := t.check(ctx); err != nil {
		return nil, err
	}

	committed := t.store.readAccountsByOwner(userID)
	out := make([]domain.Account, 0, len(committed))
	for _, a := range committed {
		if t.deleted[a.ID] {
			continue
		}
		if staged, ok := t.accounts[a.ID]; ok {
			out = append(out, *staged)
			continue
		}
		out = append(out, a)
	}
	for id := range t.created {
		if a := t.accounts[id]; a.UserID == userID {
			out = append(out, *a)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r accountRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	t := r.t
	if err := t.check(ctx); err != nil {
		return err
	}
	if err := domain.EnsureNonNegative(account.Balance); err != nil {
		return err
	}
	account.ID = t.store.allocAccountID()
	cp := *account
	t.accounts[cp.ID] = &cp
	t.created[cp.ID] = true
	return nil
}

func (r accountRepository) UpdateAccount(ctx context.Context, account *domain.Account) error {
	existing, err := r.GetAccountByID(ctx, account.ID)
	if err != nil {
		return fmt.Errorf("failed to update account %d: %w", account.ID, err)
	}
	if err := domain.EnsureNonNegative(account.Balance); err != nil {
		return err
	}
	cp := *account
	cp.UserID = existing.UserID // ownership never changes
	r.t.accounts[cp.ID] = &cp
	return nil
}

func (r accountRepository) DeleteAccount(ctx context.Context, id int64) error {
	t := r.t
	if _, err := r.GetAccountByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete account %d: %w", id, err)
	}
	delete(t.accounts, id)
	if t.created[id] {
		delete(t.created, id)
		return nil
	}
	t.deleted[id] = true
	return nil
}

type userRepository struct{ t *tx }

func (r userRepository) CreateUser(ctx context.Context, user *domain.User) error {
	t := r.t
	if err := t.check(ctx); err != nil {
		return err
	}
	if _, ok := t.logins[user.Login]; ok {
		return fmt.Errorf("%w: user with login '%s'", util.ErrAlreadyExists, user.Login)
	}
	if _, ok := t.store.readUserByLogin(user.Login); ok {
		return fmt.Errorf("%w: user with login '%s'", util.ErrAlreadyExists, user.Login)
	}
	user.ID = t.store.allocUserID()
	cp := *user
	cp.AccountIDs = nil
	t.users[cp.ID] = &cp
	t.logins[cp.Login] = cp.ID
	return nil
}

func (r userRepository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	t := r.t
	if err := t.check(ctx); err != nil {
		return nil, err
	}
	if u, ok := t.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	u, ok := t.store.readUser(id)
	if !ok {
		return nil, util.ErrNotFound
	}
	return &u, nil
}

func (r userRepository) GetUserByLogin(ctx context.Context, login string) (*domain.User, error) {
	t := r.t
	if err := t.check(ctx); err != nil {
		return nil, err
	}
	if id, ok := t.logins[login]; ok {
		cp := *t.users[id]
		return &cp, nil
	}
	u, ok := t.store.readUserByLogin(login)
	if !ok {
		return nil, util.ErrNotFound
	}
	return &u, nil
}

func (r userRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	t := r.t
	if err := t.check(ctx); err != nil {
		return nil, err
	}
	out := t.store.readUsers()
	for _, u := range t.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
