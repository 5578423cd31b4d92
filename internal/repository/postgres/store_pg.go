// internal/repository/postgres/store_pg.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"minibank/internal/repository"
	"minibank/pkg/db"
)

// Store implements repository.Persistence for PostgreSQL.
type Store struct {
	db db.DBTxBeginner
}

// NewStore creates a new Store over an open connection pool.
func NewStore(conn db.DBTxBeginner) *Store {
	return &Store{db: conn}
}

var _ repository.Persistence = (*Store)(nil)

// Begin starts a READ COMMITTED transaction. Account reads inside it lock rows
// (SELECT ... FOR UPDATE), so writers to the same account serialize.
func (s *Store) Begin(ctx context.Context) (repository.Tx, error) {
	tx, err := db.BeginTx(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &sqlTx{tx: tx, ctl: tx}, nil
}

type sqlTx struct {
	tx  *sqlx.Tx
	ctl db.TxController
}

func (t *sqlTx) Commit() error {
	return mapError(db.CommitTx(t.ctl))
}

// Rollback maps driver errors like every other statement, so a deadlock
// reported while rolling back still reads as util.ErrConflict.
func (t *sqlTx) Rollback() error {
	return mapError(db.RollbackTx(t.ctl))
}

func (t *sqlTx) Users() repository.UserRepository {
	return NewUserRepository(t.tx)
}

func (t *sqlTx) Accounts() repository.AccountRepository {
	return NewAccountRepository(t.tx)
}
