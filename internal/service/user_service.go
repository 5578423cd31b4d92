// internal/service/user_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"minibank/internal/domain"
	"minibank/internal/repository"
	"minibank/internal/util"
)

// UserService defines the interface for user lifecycle logic.
type UserService interface {
	CreateUser(ctx context.Context, login string) (*domain.User, error)
	FindUserByID(ctx context.Context, id int64) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
}

// userService implements the UserService interface.
type userService struct {
	uow      *repository.UnitOfWork
	accounts AccountService
}

// NewUserService creates a new instance of UserService.
func NewUserService(uow *repository.UnitOfWork, accounts AccountService) UserService {
	return &userService{uow: uow, accounts: accounts}
}

// CreateUser registers a user under a unique login and opens its default account.
// The uniqueness check, the insert and the account creation commit or roll back together.
func (s *userService) CreateUser(ctx context.Context, login string) (_ *domain.User, err error) {
	defer observe("create_user", time.Now(), &err)
	normalized, err := normalizeLogin(login)
	if err != nil {
		return nil, err
	}

	return repository.Within(ctx, s.uow, "create user", func(ctx context.Context, tx repository.Tx) (*domain.User, error) {
		_, err := tx.Users().GetUserByLogin(ctx, normalized)
		if err == nil {
			return nil, fmt.Errorf("%w: user with login '%s'", util.ErrAlreadyExists, normalized)
		}
		if !util.IsError(err, util.ErrNotFound) {
			return nil, fmt.Errorf("create user: failed to check existing user: %w", err)
		}

		user := domain.NewUser(normalized)
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}

		account, err := s.accounts.CreateAccount(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("create user: failed to create default account: %w", err)
		}
		user.AccountIDs = []int64{account.ID}
		return user, nil
	})
}

// FindUserByID returns a user together with the IDs of its accounts.
func (s *userService) FindUserByID(ctx context.Context, id int64) (*domain.User, error) {
	if err := validatePositiveID(id, "user id"); err != nil {
		return nil, err
	}

	return repository.Within(ctx, s.uow, "find user", func(ctx context.Context, tx repository.Tx) (*domain.User, error) {
		user, err := tx.Users().GetUserByID(ctx, id)
		if err != nil {
			if util.IsError(err, util.ErrNotFound) {
				return nil, fmt.Errorf("no such user with id=%d: %w", id, err)
			}
			return nil, err
		}
		if err := attachAccountIDs(ctx, tx, user); err != nil {
			return nil, err
		}
		return user, nil
	})
}

// FindAll returns every user in ascending ID order.
func (s *userService) FindAll(ctx context.Context) ([]domain.User, error) {
	return repository.Within(ctx, s.uow, "find all users", func(ctx context.Context, tx repository.Tx) ([]domain.User, error) {
		users, err := tx.Users().ListUsers(ctx)
		if err != nil {
			return nil, err
		}
		for i := range users {
			if err := attachAccountIDs(ctx, tx, &users[i]); err != nil {
				return nil, err
			}
		}
		return users, nil
	})
}

func attachAccountIDs(ctx context.Context, tx repository.Tx, user *domain.User) error {
	accounts, err := tx.Accounts().ListAccountsByUserID(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to list accounts of user %d: %w", user.ID, err)
	}
	user.AccountIDs = make([]int64, 0, len(accounts))
	for _, a := range accounts {
		user.AccountIDs = append(user.AccountIDs, a.ID)
	}
	return nil
}
