// internal/service/account_service.go
package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"minibank/internal/config"
	"minibank/internal/domain"
	"minibank/internal/metrics"
	"minibank/internal/repository"
	"minibank/internal/util"
)

// AccountService defines the interface for account-related business logic.
type AccountService interface {
	CreateAccount(ctx context.Context, userID int64) (*domain.Account, error)
	GetAccount(ctx context.Context, accountID int64) (*domain.Account, error)
	ListAccountsByUser(ctx context.Context, userID int64) ([]domain.Account, error)
	Deposit(ctx context.Context, accountID, amount int64) (*domain.Account, error)
	Withdraw(ctx context.Context, accountID, amount int64) (*domain.Account, error)
	Transfer(ctx context.Context, fromAccountID, toAccountID, amount int64) (*domain.TransferResult, error)
	CloseAccount(ctx context.Context, accountID int64) (*domain.CloseResult, error)
}

// accountService implements the AccountService interface.
type accountService struct {
	uow *repository.UnitOfWork
	cfg config.AccountConfig
}

// NewAccountService creates a new instance of AccountService.
func NewAccountService(uow *repository.UnitOfWork, cfg config.AccountConfig) AccountService {
	return &accountService{uow: uow, cfg: cfg}
}

// CreateAccount opens a new account with the configured default balance for an existing user.
// It joins the caller's unit of work if one is active.
func (s *accountService) CreateAccount(ctx context.Context, userID int64) (_ *domain.Account, err error) {
	defer observe("create_account", time.Now(), &err)
	if err := validatePositiveID(userID, "user id"); err != nil {
		return nil, err
	}

	return repository.Within(ctx, s.uow, "create account", func(ctx context.Context, tx repository.Tx) (*domain.Account, error) {
		if _, err := tx.Users().GetUserByID(ctx, userID); err != nil {
			if util.IsError(err, util.ErrNotFound) {
				return nil, fmt.Errorf("create account: no such user with id=%d: %w", userID, err)
			}
			return nil, fmt.Errorf("create account: failed to get user %d: %w", userID, err)
		}

		account := domain.NewAccount(userID, s.cfg.DefaultAmount)
		if err := tx.Accounts().CreateAccount(ctx, account); err != nil {
			return nil, fmt.Errorf("create account: %w", err)
		}
		return account, nil
	})
}

// GetAccount returns the current state of an account.
func (s *accountService) GetAccount(ctx context.Context, accountID int64) (*domain.Account, error) {
	if err := validatePositiveID(accountID, "account id"); err != nil {
		return nil, err
	}
	return repository.Within(ctx, s.uow, "get account", func(ctx context.Context, tx repository.Tx) (*domain.Account, error) {
		return findAccount(ctx, tx, accountID)
	})
}

// ListAccountsByUser returns the accounts of an existing user in ascending ID order.
func (s *accountService) ListAccountsByUser(ctx context.Context, userID int64) ([]domain.Account, error) {
	if err := validatePositiveID(userID, "user id"); err != nil {
		return nil, err
	}
	return repository.Within(ctx, s.uow, "list accounts", func(ctx context.Context, tx repository.Tx) ([]domain.Account, error) {
		if _, err := tx.Users().GetUserByID(ctx, userID); err != nil {
			return nil, fmt.Errorf("list accounts: no such user with id=%d: %w", userID, err)
		}
		return tx.Accounts().ListAccountsByUserID(ctx, userID)
	})
}

// Deposit adds money to an account.
func (s *accountService) Deposit(ctx context.Context, accountID, amount int64) (_ *domain.Account, err error) {
	defer observe("deposit", time.Now(), &err)
	if err := validatePositiveID(accountID, "account id"); err != nil {
		return nil, err
	}
	if err := validatePositiveAmount(amount); err != nil {
		return nil, err
	}

	return repository.Within(ctx, s.uow, "deposit", func(ctx context.Context, tx repository.Tx) (*domain.Account, error) {
		account, err := findAccount(ctx, tx, accountID)
		if err != nil {
			return nil, fmt.Errorf("deposit: %w", err)
		}
		if err := credit(account, amount); err != nil {
			return nil, fmt.Errorf("deposit: %w", err)
		}
		if err := tx.Accounts().UpdateAccount(ctx, account); err != nil {
			return nil, fmt.Errorf("deposit: %w", err)
		}
		return account, nil
	})
}

// Withdraw takes money out of an account. The balance never goes below zero.
func (s *accountService) Withdraw(ctx context.Context, accountID, amount int64) (_ *domain.Account, err error) {
	defer observe("withdraw", time.Now(), &err)
	if err := validatePositiveID(accountID, "account id"); err != nil {
		return nil, err
	}
	if err := validatePositiveAmount(amount); err != nil {
		return nil, err
	}

	return repository.Within(ctx, s.uow, "withdraw", func(ctx context.Context, tx repository.Tx) (*domain.Account, error) {
		account, err := findAccount(ctx, tx, accountID)
		if err != nil {
			return nil, fmt.Errorf("withdraw: %w", err)
		}
		if amount > account.Balance {
			return nil, fmt.Errorf("%w on account id=%d, balance=%d, attempted withdraw=%d",
				util.ErrInsufficientFunds, account.ID, account.Balance, amount)
		}
		account.Balance -= amount
		account.Touch()
		if err := tx.Accounts().UpdateAccount(ctx, account); err != nil {
			return nil, fmt.Errorf("withdraw: %w", err)
		}
		return account, nil
	})
}

// Transfer moves amount from one account to another in a single unit of work.
// Cross-owner transfers withhold the configured commission from the recipient.
func (s *accountService) Transfer(ctx context.Context, fromAccountID, toAccountID, amount int64) (_ *domain.TransferResult, err error) {
	defer observe("transfer", time.Now(), &err)
	if err := validatePositiveID(fromAccountID, "source account id"); err != nil {
		return nil, err
	}
	if err := validatePositiveID(toAccountID, "target account id"); err != nil {
		return nil, err
	}
	if err := validatePositiveAmount(amount); err != nil {
		return nil, err
	}
	if fromAccountID == toAccountID {
		return nil, util.ErrSameAccountTransfer
	}

	result, err := repository.Within(ctx, s.uow, "transfer", func(ctx context.Context, tx repository.Tx) (*domain.TransferResult, error) {
		from, to, err := findAccountPair(ctx, tx, fromAccountID, toAccountID)
		if err != nil {
			return nil, fmt.Errorf("transfer: %w", err)
		}
		if amount > from.Balance {
			return nil, fmt.Errorf("%w on account id=%d, balance=%d, attempted transfer=%d",
				util.ErrInsufficientFunds, from.ID, from.Balance, amount)
		}

		sameOwner := from.UserID == to.UserID
		recipientAmount, commission := domain.SplitTransferAmount(amount, s.cfg.TransferCommission, sameOwner)

		from.Balance -= amount
		from.Touch()
		if err := credit(to, recipientAmount); err != nil {
			return nil, fmt.Errorf("transfer: %w", err)
		}

		if err := tx.Accounts().UpdateAccount(ctx, from); err != nil {
			return nil, fmt.Errorf("transfer: failed to debit source account: %w", err)
		}
		if err := tx.Accounts().UpdateAccount(ctx, to); err != nil {
			return nil, fmt.Errorf("transfer: failed to credit target account: %w", err)
		}

		return &domain.TransferResult{
			FromAccountID:   from.ID,
			ToAccountID:     to.ID,
			Amount:          amount,
			Commission:      commission,
			RecipientAmount: recipientAmount,
			SameOwner:       sameOwner,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	metrics.AddCommission(result.Commission)
	return result, nil
}

// CloseAccount deletes an account and sweeps its balance into another account of
// the same owner: the one with the lowest ID. The last account of a user cannot be closed.
func (s *accountService) CloseAccount(ctx context.Context, accountID int64) (_ *domain.CloseResult, err error) {
	defer observe("close_account", time.Now(), &err)
	if err := validatePositiveID(accountID, "account id"); err != nil {
		return nil, err
	}

	return repository.Within(ctx, s.uow, "close account", func(ctx context.Context, tx repository.Tx) (*domain.CloseResult, error) {
		closing, err := findAccount(ctx, tx, accountID)
		if err != nil {
			return nil, fmt.Errorf("close account: %w", err)
		}

		owned, err := tx.Accounts().ListAccountsByUserID(ctx, closing.UserID)
		if err != nil {
			return nil, fmt.Errorf("close account: %w", err)
		}
		if len(owned) <= 1 {
			return nil, fmt.Errorf("%w: cannot close the only account of user id=%d", util.ErrInvalidState, closing.UserID)
		}

		targetID := int64(0)
		for _, a := range owned {
			if a.ID != accountID {
				targetID = a.ID
				break
			}
		}
		if targetID == 0 {
			return nil, fmt.Errorf("%w: no account available to receive the remaining balance", util.ErrInvalidState)
		}

		// Re-read the target so the backend locks it before the write.
		target, err := tx.Accounts().GetAccountByID(ctx, targetID)
		if err != nil {
			if util.IsError(err, util.ErrNotFound) {
				return nil, fmt.Errorf("%w: account id=%d disappeared while closing account id=%d", util.ErrConflict, targetID, accountID)
			}
			return nil, fmt.Errorf("close account: %w", err)
		}

		transferred := closing.Balance
		if err := credit(target, transferred); err != nil {
			return nil, fmt.Errorf("close account: %w", err)
		}
		if err := tx.Accounts().UpdateAccount(ctx, target); err != nil {
			return nil, fmt.Errorf("close account: failed to credit account id=%d: %w", target.ID, err)
		}
		if err := tx.Accounts().DeleteAccount(ctx, closing.ID); err != nil {
			return nil, fmt.Errorf("close account: %w", err)
		}

		return &domain.CloseResult{
			ClosedAccountID:   closing.ID,
			TargetAccountID:   target.ID,
			TransferredAmount: transferred,
		}, nil
	})
}

// findAccount loads an account or fails with util.ErrNotFound.
func findAccount(ctx context.Context, tx repository.Tx, accountID int64) (*domain.Account, error) {
	account, err := tx.Accounts().GetAccountByID(ctx, accountID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, fmt.Errorf("no such account: id=%d: %w", accountID, err)
		}
		return nil, err
	}
	return account, nil
}

// findAccountPair loads two accounts in ascending ID order, so that two transfers
// in opposite directions lock rows in the same order.
func findAccountPair(ctx context.Context, tx repository.Tx, fromID, toID int64) (*domain.Account, *domain.Account, error) {
	firstID, secondID := fromID, toID
	if firstID > secondID {
		firstID, secondID = secondID, firstID
	}
	first, err := findAccount(ctx, tx, firstID)
	if err != nil {
		return nil, nil, err
	}
	second, err := findAccount(ctx, tx, secondID)
	if err != nil {
		return nil, nil, err
	}
	if first.ID == fromID {
		return first, second, nil
	}
	return second, first, nil
}

// credit adds amount to the account balance, refusing to overflow.
func credit(account *domain.Account, amount int64) error {
	if amount > math.MaxInt64-account.Balance {
		return fmt.Errorf("%w: balance of account id=%d would overflow", util.ErrInvalidInput, account.ID)
	}
	account.Balance += amount
	account.Touch()
	return nil
}

func observe(operation string, start time.Time, err *error) {
	metrics.ObserveOperation(operation, util.Kind(*err), time.Since(start))
}
