// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"minibank/internal/api/handler"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(userHandler *handler.UserHandler, accountHandler *handler.AccountHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)                       // Add a request ID to the context
	r.Use(middleware.RealIP)                          // Use the real IP address
	r.Use(middleware.Logger)                          // Log HTTP requests
	r.Use(middleware.Recoverer)                       // Recover from panics and return 500
	r.Use(middleware.Timeout(handler.DefaultTimeout)) // Set a default timeout for requests

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.CreateUser)
		r.Get("/", userHandler.ListUsers)
		r.Get("/{userID}", userHandler.GetUser)
		r.Post("/{userID}/accounts", accountHandler.CreateAccount)
		r.Get("/{userID}/accounts", accountHandler.ListUserAccounts)
	})

	r.Route("/accounts", func(r chi.Router) {
		r.Get("/{accountID}", accountHandler.GetAccount)
		r.Delete("/{accountID}", accountHandler.CloseAccount)
		r.Post("/{accountID}/deposit", accountHandler.Deposit)
		r.Post("/{accountID}/withdraw", accountHandler.Withdraw)
	})

	// Transfer is a separate top-level endpoint as it involves two accounts
	r.Post("/transfers", accountHandler.Transfer)

	logger.Debug("HTTP routes registered")
	return r
}
