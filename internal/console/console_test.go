// internal/console/console_test.go
package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minibank/internal/config"
	"minibank/internal/repository"
	"minibank/internal/repository/memory"
	"minibank/internal/service"
)

func runScript(t *testing.T, lines ...string) string {
	t.Helper()
	uow := repository.NewUnitOfWork(memory.NewStore(), repository.DefaultUnitOfWorkConfig(), nil)
	accounts := service.NewAccountService(uow, config.AccountConfig{
		DefaultAmount:      100,
		TransferCommission: decimal.RequireFromString("0.1"),
	})
	users := service.NewUserService(uow, accounts)

	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	require.NoError(t, New(users, accounts, in, &out, nil).Run(context.Background()))
	return out.String()
}

func TestConsoleSession(t *testing.T) {
	out := runScript(t,
		"USER_CREATE", "alice",
		"user_create", "bob",
		"ACCOUNT_DEPOSIT", "1", "50",
		"ACCOUNT_TRANSFER", "1", "2", "100",
		"ACCOUNT_CREATE", "1",
		"ACCOUNT_CLOSE", "1",
		"SHOW_ALL_USERS",
		"EXIT",
		"USER_CREATE", "never-read",
	)

	assert.Contains(t, out, "User created: User{id=1, login='alice', accounts=[1]}")
	assert.Contains(t, out, "Deposited 50 to account 1.")
	assert.Contains(t, out, "Amount: 100, commission: 10, recipient received: 90")
	assert.Contains(t, out, "Account created: Account{id=3, userId=1, moneyAmount=100}")
	assert.Contains(t, out, "Account 1 closed. Remaining balance 50 transferred to account 3.")
	assert.Contains(t, out, "User{id=1, login='alice', accounts=[3]}")
	assert.Contains(t, out, "User{id=2, login='bob', accounts=[2]}")
	assert.NotContains(t, out, "never-read")
}

func TestConsoleReportsErrorsAndContinues(t *testing.T) {
	out := runScript(t,
		"", "NOPE",
		"USER_CREATE", "carol",
		"USER_CREATE", "carol",
		"ACCOUNT_WITHDRAW", "1", "1000",
		"ACCOUNT_CLOSE", "1",
		"ACCOUNT_TRANSFER", "1", "1",
		"ACCOUNT_DEPOSIT", "x", "-3", "1", "5",
		"EXIT",
	)

	assert.Contains(t, out, "Error: command must not be blank")
	assert.Contains(t, out, "Error: unknown command")
	assert.Contains(t, out, "Available commands: USER_CREATE, SHOW_ALL_USERS")
	assert.Contains(t, out, "Error: resource already exists: user with login 'carol'")
	assert.Contains(t, out, "Error: insufficient funds")
	assert.Contains(t, out, "Error: invalid state: cannot close the only account")
	assert.Contains(t, out, "source and target account id must be different")
	assert.Contains(t, out, "Error: account id must be a number")
	assert.Contains(t, out, "Error: account id must be > 0")
	assert.Contains(t, out, "Deposited 5 to account 1.")
}

func TestConsoleStopsAtEndOfInput(t *testing.T) {
	out := runScript(t, "USER_CREATE")
	assert.Contains(t, out, "Enter login:")
}
