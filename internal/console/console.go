// internal/console/console.go
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"minibank/internal/domain"
	"minibank/internal/service"
	"minibank/internal/util"
)

// OperationType names a console command.
type OperationType string

const (
	UserCreate      OperationType = "USER_CREATE"
	ShowAllUsers    OperationType = "SHOW_ALL_USERS"
	AccountCreate   OperationType = "ACCOUNT_CREATE"
	AccountDeposit  OperationType = "ACCOUNT_DEPOSIT"
	AccountWithdraw OperationType = "ACCOUNT_WITHDRAW"
	AccountTransfer OperationType = "ACCOUNT_TRANSFER"
	AccountClose    OperationType = "ACCOUNT_CLOSE"
	Exit            OperationType = "EXIT"
)

// operationTypes is the display order of the commands.
var operationTypes = []OperationType{
	UserCreate, ShowAllUsers, AccountCreate, AccountDeposit,
	AccountWithdraw, AccountTransfer, AccountClose, Exit,
}

// Valid reports whether op is a known command.
func (op OperationType) Valid() bool {
	for _, known := range operationTypes {
		if op == known {
			return true
		}
	}
	return false
}

type handlerFunc func(ctx context.Context) error

// Console is the interactive front-end over the user and account services.
type Console struct {
	users    service.UserService
	accounts service.AccountService
	input    *Input
	out      io.Writer
	logger   *slog.Logger
	handlers map[OperationType]handlerFunc
}

// New creates a Console reading commands from in and printing results to out.
func New(users service.UserService, accounts service.AccountService, in io.Reader, out io.Writer, logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Console{
		users:    users,
		accounts: accounts,
		input:    NewInput(in, out),
		out:      out,
		logger:   logger,
	}
	c.handlers = map[OperationType]handlerFunc{
		UserCreate:      c.createUser,
		ShowAllUsers:    c.showAllUsers,
		AccountCreate:   c.createAccount,
		AccountDeposit:  c.deposit,
		AccountWithdraw: c.withdraw,
		AccountTransfer: c.transfer,
		AccountClose:    c.closeAccount,
		Exit:            c.exit,
	}
	return c
}

// Run processes commands until EXIT, end of input or ctx cancellation.
// Failed commands are reported and do not stop the loop.
func (c *Console) Run(ctx context.Context) error {
	c.printf("MiniBank started. Type EXIT to stop.\n")
	c.input.PrintAvailableCommands()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		op, err := c.input.ReadOperationType()
		if err != nil {
			if errors.Is(err, ErrInputClosed) {
				return nil
			}
			return err
		}

		if err := c.dispatch(ctx, op); err != nil {
			if errors.Is(err, ErrInputClosed) {
				return nil
			}
			c.printf("Error: %s\n", err)
			if util.Kind(err) == "internal" {
				c.logger.Error("console command failed", "operation", string(op), "error", err)
			}
		}
		if op == Exit {
			return nil
		}
	}
}

func (c *Console) dispatch(ctx context.Context, op OperationType) error {
	handle, ok := c.handlers[op]
	if !ok {
		return fmt.Errorf("%w: no command handler for %s", util.ErrInvalidState, op)
	}
	return handle(ctx)
}

func (c *Console) printf(format string, a ...interface{}) {
	_, _ = fmt.Fprintf(c.out, format, a...)
}

func (c *Console) createUser(ctx context.Context) error {
	login, err := c.input.ReadRequiredString("Enter login:", "login")
	if err != nil {
		return err
	}
	user, err := c.users.CreateUser(ctx, login)
	if err != nil {
		return err
	}
	c.printf("User created: %s\n", formatUser(user))
	return nil
}

func (c *Console) showAllUsers(ctx context.Context) error {
	users, err := c.users.FindAll(ctx)
	if err != nil {
		return err
	}
	c.printf("List of all users:\n")
	for i := range users {
		c.printf("%s\n", formatUser(&users[i]))
	}
	return nil
}

func (c *Console) createAccount(ctx context.Context) error {
	userID, err := c.input.ReadPositiveInt("Enter user id:", "user id")
	if err != nil {
		return err
	}
	account, err := c.accounts.CreateAccount(ctx, userID)
	if err != nil {
		return err
	}
	c.printf("Account created: %s\n", formatAccount(account))
	return nil
}

func (c *Console) deposit(ctx context.Context) error {
	accountID, err := c.input.ReadPositiveInt("Enter account id:", "account id")
	if err != nil {
		return err
	}
	amount, err := c.input.ReadPositiveInt("Enter amount:", "amount")
	if err != nil {
		return err
	}
	if _, err := c.accounts.Deposit(ctx, accountID, amount); err != nil {
		return err
	}
	c.printf("Deposited %d to account %d.\n", amount, accountID)
	return nil
}

func (c *Console) withdraw(ctx context.Context) error {
	accountID, err := c.input.ReadPositiveInt("Enter account id:", "account id")
	if err != nil {
		return err
	}
	amount, err := c.input.ReadPositiveInt("Enter amount:", "amount")
	if err != nil {
		return err
	}
	if _, err := c.accounts.Withdraw(ctx, accountID, amount); err != nil {
		return err
	}
	c.printf("Withdrew %d from account %d.\n", amount, accountID)
	return nil
}

func (c *Console) transfer(ctx context.Context) error {
	fromID, err := c.input.ReadPositiveInt("Enter source account id:", "source account id")
	if err != nil {
		return err
	}
	toID, err := c.input.ReadPositiveInt("Enter target account id:", "target account id")
	if err != nil {
		return err
	}
	if fromID == toID {
		return util.ErrSameAccountTransfer
	}
	amount, err := c.input.ReadPositiveInt("Enter amount:", "amount")
	if err != nil {
		return err
	}

	result, err := c.accounts.Transfer(ctx, fromID, toID, amount)
	if err != nil {
		return err
	}
	if result.SameOwner {
		c.printf("Transfer completed from account %d to account %d. Amount: %d (no commission, same user)\n",
			result.FromAccountID, result.ToAccountID, result.Amount)
		return nil
	}
	c.printf("Transfer completed from account %d to account %d. Amount: %d, commission: %d, recipient received: %d\n",
		result.FromAccountID, result.ToAccountID, result.Amount, result.Commission, result.RecipientAmount)
	return nil
}

func (c *Console) closeAccount(ctx context.Context) error {
	accountID, err := c.input.ReadPositiveInt("Enter account id to close:", "account id")
	if err != nil {
		return err
	}
	result, err := c.accounts.CloseAccount(ctx, accountID)
	if err != nil {
		return err
	}
	c.printf("Account %d closed. Remaining balance %d transferred to account %d.\n",
		result.ClosedAccountID, result.TransferredAmount, result.TargetAccountID)
	return nil
}

func (c *Console) exit(context.Context) error {
	c.printf("Bye.\n")
	return nil
}

func formatUser(u *domain.User) string {
	ids := make([]string, 0, len(u.AccountIDs))
	for _, id := range u.AccountIDs {
		ids = append(ids, fmt.Sprint(id))
	}
	return fmt.Sprintf("User{id=%d, login='%s', accounts=[%s]}", u.ID, u.Login, strings.Join(ids, ", "))
}

func formatAccount(a *domain.Account) string {
	return fmt.Sprintf("Account{id=%d, userId=%d, moneyAmount=%d}", a.ID, a.UserID, a.Balance)
}
