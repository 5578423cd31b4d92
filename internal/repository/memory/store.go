// internal/repository/memory/store.go
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"minibank/internal/domain"
	"minibank/internal/repository"
	"minibank/internal/util"
)

// ErrTxDone is returned when a finished transaction is used again.
var ErrTxDone = errors.New("memory: transaction has already been committed or rolled back")

// Store is an in-memory repository.Persistence.
//
// It behaves like a READ COMMITTED database with row locks: reading an account
// by ID locks it until the reading transaction commits or rolls back, the way
// SELECT ... FOR UPDATE does. Other reads see committed data only. Writes are
// staged per transaction and published atomically on commit.
// A lock wait that would close a cycle fails with util.ErrConflict.
type Store struct {
	mu sync.Mutex

	nextUserID    int64
	nextAccountID int64

	users    map[int64]domain.User
	logins   map[string]int64
	accounts map[int64]domain.Account

	holders  map[int64]*tx // account id -> transaction holding its lock
	waiting  map[*tx]int64 // transaction -> account id it is blocked on
	released chan struct{} // closed and replaced whenever locks are released
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		users:    make(map[int64]domain.User),
		logins:   make(map[string]int64),
		accounts: make(map[int64]domain.Account),
		holders:  make(map[int64]*tx),
		waiting:  make(map[*tx]int64),
		released: make(chan struct{}),
	}
}

var _ repository.Persistence = (*Store)(nil)

// Begin opens a new transaction.
func (s *Store) Begin(ctx context.Context) (repository.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return newTx(s), nil
}

// lockAccount blocks until t holds the lock on account id or ctx is done.
func (s *Store) lockAccount(ctx context.Context, t *tx, id int64) error {
	for {
		s.mu.Lock()
		holder, held := s.holders[id]
		if !held || holder == t {
			if !held {
				s.holders[id] = t
				t.locks = append(t.locks, id)
			}
			s.mu.Unlock()
			return nil
		}
		if s.waitsFor(holder, t) {
			s.mu.Unlock()
			return fmt.Errorf("%w: deadlock detected while locking account %d", util.ErrConflict, id)
		}
		s.waiting[t] = id
		released := s.released
		s.mu.Unlock()

		select {
		case <-released:
			s.mu.Lock()
			delete(s.waiting, t)
			s.mu.Unlock()
		case <-ctx.Done():
			s.mu.Lock()
			delete(s.waiting, t)
			s.mu.Unlock()
			return ctx.Err()
		}
	}
}

// waitsFor reports whether from is, directly or through other waiters, blocked on target.
// The caller holds s.mu.
func (s *Store) waitsFor(from, target *tx) bool {
	cur := from
	for steps := 0; steps <= len(s.waiting); steps++ {
		id, blocked := s.waiting[cur]
		if !blocked {
			return false
		}
		next := s.holders[id]
		if next == target {
			return true
		}
		cur = next
	}
	return false
}

// releaseLocks frees every lock of t and wakes the waiters. The caller holds s.mu.
func (s *Store) releaseLocks(t *tx) {
	if len(t.locks) == 0 {
		return
	}
	for _, id := range t.locks {
		if s.holders[id] == t {
			delete(s.holders, id)
		}
	}
	t.locks = nil
	close(s.released)
	s.released = make(chan struct{})
}

// allocUserID reserves the next user ID. IDs are never reused, even after rollback.
func (s *Store) allocUserID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUserID++
	return s.nextUserID
}

func (s *Store) allocAccountID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAccountID++
	return s.nextAccountID
}

func (s *Store) readAccount(id int64) (domain.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	return a, ok
}

func (s *Store) readAccountsByOwner(userID int64) []domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Account
	for _, a := range s.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out
}

func (s *Store) readUser(id int64) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return u, ok
}

func (s *Store) readUserByLogin(login string) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.logins[login]
	if !ok {
		return domain.User{}, false
	}
	return s.users[id], true
}

func (s *Store) readUsers() []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
