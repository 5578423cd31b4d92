// internal/domain/money.go
package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"minibank/internal/util"
)

var one = decimal.NewFromInt(1)

// EnsureNonNegative fails if balance is below zero.
func EnsureNonNegative(balance int64) error {
	if balance < 0 {
		return fmt.Errorf("%w: balance would become %d", util.ErrInsufficientFunds, balance)
	}
	return nil
}

// ValidateCommissionRate checks that rate lies in [0, 1).
func ValidateCommissionRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThanOrEqual(one) {
		return fmt.Errorf("%w: transfer commission must be in [0,1), got %s", util.ErrInvalidInput, rate)
	}
	return nil
}

// SplitTransferAmount returns how much of amount reaches the recipient and how much is
// withheld as commission. Transfers between accounts of the same owner are free.
// Otherwise recipient = round(amount * (1 - rate)) rounding half up, computed exactly.
func SplitTransferAmount(amount int64, rate decimal.Decimal, sameOwner bool) (recipient, commission int64) {
	if sameOwner || rate.IsZero() {
		return amount, 0
	}
	// amount is positive, so Round's half-away-from-zero is half-up here.
	recipient = decimal.NewFromInt(amount).Mul(one.Sub(rate)).Round(0).IntPart()
	return recipient, amount - recipient
}
