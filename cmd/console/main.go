// cmd/console/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	app "minibank/internal"
	"minibank/internal/console"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The console shares the HTTP server's configuration and storage wiring.
	// Logs go to stderr so they do not interleave with prompts on stdout.
	application := app.NewApplication()
	application.LogOutput = os.Stderr
	if err := application.Initialize(ctx); err != nil {
		application.Logger.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	c := console.New(application.UserService, application.AccountService, os.Stdin, os.Stdout, application.Logger)
	runErr := c.Run(ctx)

	if err := application.Shutdown(context.Background()); err != nil {
		application.Logger.Error("Application shutdown failed", "error", err)
		os.Exit(1)
	}
	if runErr != nil && runErr != context.Canceled {
		application.Logger.Error("Console stopped with error", "error", runErr)
		os.Exit(1)
	}
}
