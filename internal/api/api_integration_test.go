// internal/api/api_integration_test.go
package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "minibank/internal"
	"minibank/internal/api/types"
	"minibank/internal/domain"
)

// newTestServer boots the whole application on the in-memory backend.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("ACCOUNT_DEFAULT_AMOUNT", "100")
	t.Setenv("ACCOUNT_TRANSFER_COMMISSION", "0.1")
	t.Setenv("LOG_LEVEL", "error")

	application := app.NewApplication()
	require.NoError(t, application.Initialize(context.Background()))

	server := httptest.NewServer(application.HTTPHandler)
	t.Cleanup(func() {
		server.Close()
		_ = application.Shutdown(context.Background())
	})
	return server
}

// makeRequest helper function: sends an HTTP request and returns the response and body.
func makeRequest(t *testing.T, server *httptest.Server, method, path, body string) (*http.Response, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

func decode[T any](t *testing.T, body string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(body), &v), body)
	return v
}

func createUser(t *testing.T, server *httptest.Server, login string) domain.User {
	t.Helper()
	resp, body := makeRequest(t, server, http.MethodPost, "/users", `{"login":"`+login+`"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	user := decode[domain.User](t, body)
	require.Len(t, user.AccountIDs, 1)
	return user
}

func getBalance(t *testing.T, server *httptest.Server, accountID int64) int64 {
	t.Helper()
	resp, body := makeRequest(t, server, http.MethodGet, "/accounts/"+itoa(accountID), "")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	return decode[domain.Account](t, body).Balance
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestUserIntegration(t *testing.T) {
	server := newTestServer(t)

	alice := createUser(t, server, "alice")
	assert.Equal(t, int64(100), getBalance(t, server, alice.AccountIDs[0]))

	t.Run("DuplicateLogin", func(t *testing.T) {
		resp, body := makeRequest(t, server, http.MethodPost, "/users", `{"login":"alice"}`)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "already_exists", decode[types.ErrorResponse](t, body).Kind)
	})

	t.Run("BlankLogin", func(t *testing.T) {
		resp, _ := makeRequest(t, server, http.MethodPost, "/users", `{"login":"  "}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		resp, _ := makeRequest(t, server, http.MethodPost, "/users", `{"login":`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("GetAndList", func(t *testing.T) {
		resp, body := makeRequest(t, server, http.MethodGet, "/users/"+itoa(alice.ID), "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "alice", decode[domain.User](t, body).Login)

		resp, body = makeRequest(t, server, http.MethodGet, "/users", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		list := decode[types.ListResponse[domain.User]](t, body)
		assert.Equal(t, int64(1), list.TotalCount)

		resp, _ = makeRequest(t, server, http.MethodGet, "/users/999", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp, _ = makeRequest(t, server, http.MethodGet, "/users/abc", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestDepositWithdrawIntegration(t *testing.T) {
	server := newTestServer(t)
	accountID := createUser(t, server, "alice").AccountIDs[0]
	path := "/accounts/" + itoa(accountID)

	resp, body := makeRequest(t, server, http.MethodPost, path+"/deposit", `{"amount":50}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, float64(150), decode[map[string]interface{}](t, body)["new_balance"])

	resp, _ = makeRequest(t, server, http.MethodPost, path+"/deposit", `{"amount":0}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = makeRequest(t, server, http.MethodPost, path+"/withdraw", `{"amount":1000}`)
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
	assert.Equal(t, "insufficient_funds", decode[types.ErrorResponse](t, body).Kind)
	assert.Equal(t, int64(150), getBalance(t, server, accountID))

	resp, _ = makeRequest(t, server, http.MethodPost, path+"/withdraw", `{"amount":150}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(0), getBalance(t, server, accountID))

	resp, _ = makeRequest(t, server, http.MethodPost, "/accounts/777/deposit", `{"amount":1}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTransferIntegration(t *testing.T) {
	server := newTestServer(t)
	from := createUser(t, server, "alice").AccountIDs[0]
	to := createUser(t, server, "bob").AccountIDs[0]

	resp, body := makeRequest(t, server, http.MethodPost, "/transfers",
		`{"from_account_id":`+itoa(from)+`,"to_account_id":`+itoa(to)+`,"amount":100}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	result := decode[domain.TransferResult](t, body)
	assert.Equal(t, int64(10), result.Commission)
	assert.Equal(t, int64(90), result.RecipientAmount)
	assert.Equal(t, int64(0), getBalance(t, server, from))
	assert.Equal(t, int64(190), getBalance(t, server, to))

	resp, _ = makeRequest(t, server, http.MethodPost, "/transfers",
		`{"from_account_id":`+itoa(to)+`,"to_account_id":`+itoa(to)+`,"amount":1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = makeRequest(t, server, http.MethodPost, "/transfers",
		`{"from_account_id":`+itoa(from)+`,"to_account_id":`+itoa(to)+`,"amount":1}`)
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
}

func TestCloseAccountIntegration(t *testing.T) {
	server := newTestServer(t)
	alice := createUser(t, server, "alice")
	first := alice.AccountIDs[0]

	resp, body := makeRequest(t, server, http.MethodDelete, "/accounts/"+itoa(first), "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "invalid_state", decode[types.ErrorResponse](t, body).Kind)

	resp, body = makeRequest(t, server, http.MethodPost, "/users/"+itoa(alice.ID)+"/accounts", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	second := decode[domain.Account](t, body)

	resp, body = makeRequest(t, server, http.MethodDelete, "/accounts/"+itoa(first), "")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	closed := decode[domain.CloseResult](t, body)
	assert.Equal(t, second.ID, closed.TargetAccountID)
	assert.Equal(t, int64(100), closed.TransferredAmount)
	assert.Equal(t, int64(200), getBalance(t, server, second.ID))

	resp, _ = makeRequest(t, server, http.MethodGet, "/accounts/"+itoa(first), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = makeRequest(t, server, http.MethodGet, "/users/"+itoa(alice.ID)+"/accounts", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	accounts := decode[types.ListResponse[domain.Account]](t, body)
	require.Len(t, accounts.Data, 1)
	assert.Equal(t, second.ID, accounts.Data[0].ID)
}

func TestHealthAndMetrics(t *testing.T) {
	server := newTestServer(t)
	createUser(t, server, "alice")

	resp, body := makeRequest(t, server, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body)

	resp, body = makeRequest(t, server, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "minibank_operations_total")
	assert.Contains(t, body, "minibank_units_of_work_total")
}
