// internal/repository/postgres/errors_test.go
package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"minibank/internal/util"
)

func TestMapError(t *testing.T) {
	plain := errors.New("connection reset")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"NoRows", sql.ErrNoRows, util.ErrNotFound},
		{"WrappedNoRows", fmt.Errorf("scan: %w", sql.ErrNoRows), util.ErrNotFound},
		{"PQUniqueViolation", &pq.Error{Code: "23505"}, util.ErrAlreadyExists},
		{"PGXUniqueViolation", &pgconn.PgError{Code: "23505"}, util.ErrAlreadyExists},
		{"PQSerializationFailure", &pq.Error{Code: "40001"}, util.ErrConflict},
		{"PGXDeadlock", &pgconn.PgError{Code: "40P01"}, util.ErrConflict},
		{"BalanceCheck", &pq.Error{Code: "23514"}, util.ErrInsufficientFunds},
		{"MissingOwner", &pgconn.PgError{Code: "23503"}, util.ErrNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError(tc.in), tc.want)
		})
	}

	t.Run("UnknownErrorPassesThrough", func(t *testing.T) {
		assert.Same(t, plain, mapError(plain))
		assert.Equal(t, "internal", util.Kind(mapError(plain)))
	})

	t.Run("Nil", func(t *testing.T) {
		assert.NoError(t, mapError(nil))
	})

	t.Run("DriverErrorStaysInChain", func(t *testing.T) {
		var pqErr *pq.Error
		assert.ErrorAs(t, mapError(&pq.Error{Code: "23505"}), &pqErr)
	})
}
