// internal/domain/account.go
package domain

import "time"

// Account represents a single balance held by a user.
type Account struct {
	ID        int64     `db:"id" json:"id"`                 // Primary key, BIGSERIAL in DB
	UserID    int64     `db:"user_id" json:"user_id"`       // Owner, fixed at creation
	Balance   int64     `db:"balance" json:"balance"`       // Minor currency units, never negative
	CreatedAt time.Time `db:"created_at" json:"created_at"` // Timestamp of creation
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"` // Timestamp of last update
}

// NewAccount creates a new Account instance for userID with the given opening balance.
func NewAccount(userID, balance int64) *Account {
	now := time.Now().UTC()
	return &Account{
		UserID:    userID,
		Balance:   balance,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch bumps UpdatedAt after a balance change.
func (a *Account) Touch() {
	a.UpdatedAt = time.Now().UTC()
}
