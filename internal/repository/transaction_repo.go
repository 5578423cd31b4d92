// internal/repository/transaction_repo.go
package repository

import "context"

// Persistence is the storage backend behind the unit of work.
// The in-memory and PostgreSQL backends are interchangeable behind it.
type Persistence interface {
	// Begin opens a new storage transaction.
	Begin(ctx context.Context) (Tx, error)
}

// Tx is an open storage transaction. Writes made through its repositories
// become visible to other transactions only after Commit.
type Tx interface {
	Commit() error
	Rollback() error
	Users() UserRepository
	Accounts() AccountRepository
}
