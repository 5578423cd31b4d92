// internal/repository/postgres/user_pg.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"minibank/internal/domain"
	"minibank/internal/repository"
	"minibank/internal/util"
)

// UserRepository implements repository.UserRepository for PostgreSQL.
type UserRepository struct {
	q sqlx.ExtContext
}

// NewUserRepository creates a new UserRepository bound to q (normally a *sqlx.Tx).
func NewUserRepository(q sqlx.ExtContext) repository.UserRepository {
	return &UserRepository{q: q}
}

// CreateUser inserts a new user. A taken login fails with util.ErrAlreadyExists.
func (r *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (login, created_at) VALUES ($1, $2) RETURNING id`
	err := r.q.QueryRowxContext(ctx, query, user.Login, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", mapError(err))
	}
	return nil
}

// GetUserByID retrieves a user by their ID.
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, login, created_at FROM users WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.q, &user, query, id); err != nil {
		if err = mapError(err); util.IsError(err, util.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user by ID %d: %w", id, err)
	}
	return &user, nil
}

// GetUserByLogin retrieves a user by their login.
func (r *UserRepository) GetUserByLogin(ctx context.Context, login string) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, login, created_at FROM users WHERE login = $1`
	if err := sqlx.GetContext(ctx, r.q, &user, query, login); err != nil {
		if err = mapError(err); util.IsError(err, util.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user by login '%s': %w", login, err)
	}
	return &user, nil
}

// ListUsers returns all users ordered by ID.
func (r *UserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	query := `SELECT id, login, created_at FROM users ORDER BY id`
	if err := sqlx.SelectContext(ctx, r.q, &users, query); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", mapError(err))
	}
	return users, nil
}
