// internal/repository/account_repo.go
package repository

import (
	"context"

	"minibank/internal/domain"
)

// AccountRepository defines the interface for account data operations.
// An AccountRepository is always bound to one Tx.
type AccountRepository interface {
	// GetAccountByID retrieves an account by its ID. A missing account yields util.ErrNotFound.
	GetAccountByID(ctx context.Context, id int64) (*domain.Account, error)
	// ListAccountsByUserID returns the accounts owned by userID in ascending ID order.
	ListAccountsByUserID(ctx context.Context, userID int64) ([]domain.Account, error)
	// CreateAccount stores a new account and assigns its ID.
	CreateAccount(ctx context.Context, account *domain.Account) error
	// UpdateAccount persists the balance of an existing account.
	UpdateAccount(ctx context.Context, account *domain.Account) error
	// DeleteAccount removes an account.
	DeleteAccount(ctx context.Context, id int64) error
}
