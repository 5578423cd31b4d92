// internal/domain/user.go
package domain

import "time"

// User represents a bank customer.
// Accounts are not owned by the User; AccountIDs is filled from the account store on read.
type User struct {
	ID         int64     `db:"id" json:"id"`                 // Primary key, BIGSERIAL in DB
	Login      string    `db:"login" json:"login"`           // Unique, trimmed, immutable
	CreatedAt  time.Time `db:"created_at" json:"created_at"` // Timestamp of creation
	AccountIDs []int64   `db:"-" json:"account_ids"`         // Derived: ids of accounts owned by this user
}

// NewUser creates a new User instance. The login must already be normalized.
func NewUser(login string) *User {
	return &User{
		Login:     login,
		CreatedAt: time.Now().UTC(),
	}
}
