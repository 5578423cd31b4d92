// internal/api/handler/account.go
package handler

import (
	"log/slog"
	"net/http"

	"minibank/internal/api/types"
	"minibank/internal/service"
)

// AccountHandler handles HTTP requests related to account operations.
type AccountHandler struct {
	responder
	service service.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(svc service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		responder: responder{logger: logger},
		service:   svc,
	}
}

// AmountRequest represents the request body for deposit and withdraw.
type AmountRequest struct {
	Amount int64 `json:"amount"`
}

// TransferRequest represents the request body for transfer.
type TransferRequest struct {
	FromAccountID int64 `json:"from_account_id"`
	ToAccountID   int64 `json:"to_account_id"`
	Amount        int64 `json:"amount"`
}

// CreateAccount opens an additional account for a user.
// POST /users/{userID}/accounts
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	account, err := h.service.CreateAccount(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, account)
}

// ListUserAccounts returns the accounts of a user.
// GET /users/{userID}/accounts
func (h *AccountHandler) ListUserAccounts(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	accounts, err := h.service.ListAccountsByUser(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewListResponse(accounts))
}

// GetAccount returns a single account.
// GET /accounts/{accountID}
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := idParam(r, "accountID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	account, err := h.service.GetAccount(r.Context(), accountID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, account)
}

// Deposit handles the deposit money request.
// POST /accounts/{accountID}/deposit
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	accountID, err := idParam(r, "accountID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	var req AmountRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	account, err := h.service.Deposit(r.Context(), accountID, req.Amount)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Deposit successful",
		"account_id":  account.ID,
		"new_balance": account.Balance,
	})
}

// Withdraw handles the withdraw money request.
// POST /accounts/{accountID}/withdraw
func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	accountID, err := idParam(r, "accountID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	var req AmountRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	account, err := h.service.Withdraw(r.Context(), accountID, req.Amount)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Withdrawal successful",
		"account_id":  account.ID,
		"new_balance": account.Balance,
	})
}

// Transfer handles the transfer money request.
// POST /transfers
func (h *AccountHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	result, err := h.service.Transfer(r.Context(), req.FromAccountID, req.ToAccountID, req.Amount)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, result)
}

// CloseAccount closes an account and sweeps its balance into another account of the owner.
// DELETE /accounts/{accountID}
func (h *AccountHandler) CloseAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := idParam(r, "accountID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	result, err := h.service.CloseAccount(r.Context(), accountID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, result)
}
