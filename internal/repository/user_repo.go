// internal/repository/user_repo.go
package repository

import (
	"context"

	"minibank/internal/domain"
)

// UserRepository defines the interface for user data operations.
// A UserRepository is always bound to one Tx.
type UserRepository interface {
	// CreateUser stores a new user and assigns its ID.
	// A login taken by a committed user fails with util.ErrAlreadyExists, at the latest on commit.
	CreateUser(ctx context.Context, user *domain.User) error
	// GetUserByID retrieves a user by their ID.
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	// GetUserByLogin retrieves a user by their login.
	GetUserByLogin(ctx context.Context, login string) (*domain.User, error)
	// ListUsers returns every user in ascending ID order.
	ListUsers(ctx context.Context) ([]domain.User, error)
}
