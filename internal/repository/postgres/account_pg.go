// internal/repository/postgres/account_pg.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"minibank/internal/domain"
	"minibank/internal/repository"
	"minibank/internal/util"
)

// AccountRepository implements repository.AccountRepository for PostgreSQL.
type AccountRepository struct {
	q sqlx.ExtContext
}

// NewAccountRepository creates a new AccountRepository bound to q (normally a *sqlx.Tx).
func NewAccountRepository(q sqlx.ExtContext) repository.AccountRepository {
	return &AccountRepository{q: q}
}

// CreateAccount inserts a new account.
func (r *AccountRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	query := `INSERT INTO accounts (user_id, balance, created_at, updated_at)
              VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.q.QueryRowxContext(ctx, query, account.UserID, account.Balance, account.CreatedAt, account.UpdatedAt).Scan(&account.ID)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", mapError(err))
	}
	return nil
}

// GetAccountByID retrieves an account by its ID and locks the row until the transaction ends.
func (r *AccountRepository) GetAccountByID(ctx context.Context, id int64) (*domain.Account, error) {
	var account domain.Account
	query := `SELECT id, user_id, balance, created_at, updated_at FROM accounts WHERE id = $1 FOR UPDATE`
	if err := sqlx.GetContext(ctx, r.q, &account, query, id); err != nil {
		if err = mapError(err); util.IsError(err, util.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get account by ID %d: %w", id, err)
	}
	return &account, nil
}

// ListAccountsByUserID retrieves all accounts of a user, ordered by ID. Rows are not locked.
func (r *AccountRepository) ListAccountsByUserID(ctx context.Context, userID int64) ([]domain.Account, error) {
	accounts := []domain.Account{}
	query := `SELECT id, user_id, balance, created_at, updated_at FROM accounts
              WHERE user_id = $1 ORDER BY id`
	if err := sqlx.SelectContext(ctx, r.q, &accounts, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list accounts of user %d: %w", userID, mapError(err))
	}
	return accounts, nil
}

// UpdateAccount writes the balance of an existing account.
func (r *AccountRepository) UpdateAccount(ctx context.Context, account *domain.Account) error {
	query := `UPDATE accounts SET balance = $1, updated_at = $2 WHERE id = $3`
	result, err := r.q.ExecContext(ctx, query, account.Balance, time.Now().UTC(), account.ID)
	if err != nil {
		return fmt.Errorf("failed to update account %d: %w", account.ID, mapError(err))
	}
	return expectOneRow(result, "update", account.ID)
}

// DeleteAccount removes an account.
func (r *AccountRepository) DeleteAccount(ctx context.Context, id int64) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account %d: %w", id, mapError(err))
	}
	return expectOneRow(result, "delete", id)
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func expectOneRow(result rowsAffecter, verb string, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after %s of account %d: %w", verb, id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("failed to %s account %d: %w", verb, id, util.ErrNotFound)
	}
	return nil
}
