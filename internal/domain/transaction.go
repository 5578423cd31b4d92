// internal/domain/transaction.go
package domain

// TransferResult describes a completed transfer between two accounts.
type TransferResult struct {
	FromAccountID   int64 `json:"from_account_id"`
	ToAccountID     int64 `json:"to_account_id"`
	Amount          int64 `json:"amount"`           // Debited from the source account
	Commission      int64 `json:"commission"`       // Withheld from the recipient, credited nowhere
	RecipientAmount int64 `json:"recipient_amount"` // Credited to the target account
	SameOwner       bool  `json:"same_owner"`
}

// CloseResult describes an account closure and the sweep of its balance.
type CloseResult struct {
	ClosedAccountID   int64 `json:"closed_account_id"`
	TargetAccountID   int64 `json:"target_account_id"`
	TransferredAmount int64 `json:"transferred_amount"`
}
