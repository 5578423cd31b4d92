// internal/domain/money_test.go
package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"minibank/internal/util"
)

func TestSplitTransferAmount(t *testing.T) {
	tests := []struct {
		name           string
		amount         int64
		rate           string
		sameOwner      bool
		wantRecipient  int64
		wantCommission int64
	}{
		{"SameOwnerIsFree", 100, "0.1", true, 100, 0},
		{"TenPercent", 100, "0.1", false, 90, 10},
		{"ZeroRate", 77, "0", false, 77, 0},
		{"HalfRoundsUp", 5, "0.1", false, 5, 0},             // 4.5 -> 5
		{"AboveHalfRoundsUp", 7, "0.15", false, 6, 1},       // 5.95 -> 6
		{"ExactHalfAtOnePercent", 50, "0.01", false, 50, 0}, // 49.5 -> 50
		{"OneUnit", 1, "0.5", false, 1, 0},                  // 0.5 -> 1
		{"SmallRateLargeAmount", 1_000_000, "0.015", false, 985_000, 15_000},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recipient, commission := SplitTransferAmount(tc.amount, decimal.RequireFromString(tc.rate), tc.sameOwner)
			assert.Equal(t, tc.wantRecipient, recipient)
			assert.Equal(t, tc.wantCommission, commission)
			assert.Equal(t, tc.amount, recipient+commission)
		})
	}
}

func TestValidateCommissionRate(t *testing.T) {
	assert.NoError(t, ValidateCommissionRate(decimal.Zero))
	assert.NoError(t, ValidateCommissionRate(decimal.RequireFromString("0.999")))
	assert.ErrorIs(t, ValidateCommissionRate(decimal.NewFromInt(1)), util.ErrInvalidInput)
	assert.ErrorIs(t, ValidateCommissionRate(decimal.RequireFromString("-0.01")), util.ErrInvalidInput)
}

func TestEnsureNonNegative(t *testing.T) {
	assert.NoError(t, EnsureNonNegative(0))
	assert.NoError(t, EnsureNonNegative(10))
	assert.ErrorIs(t, EnsureNonNegative(-1), util.ErrInsufficientFunds)
}
