// internal/util/errors.go
package util

import (
	"errors"
	"fmt"
)

// Common application-specific errors.
var (
	ErrInvalidInput        = errors.New("invalid input provided")
	ErrNotFound            = errors.New("resource not found")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidState        = errors.New("invalid state")
	ErrConflict            = errors.New("concurrent modification conflict") // Serialization failure, safe to retry the whole unit of work
	ErrSameAccountTransfer = fmt.Errorf("%w: source and target account id must be different", ErrInvalidInput)
)

// IsError reports whether err matches target anywhere in its chain.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}

// Kind returns a short, stable label for the error class of err.
// It is used for metric labels and log attributes.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_argument"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "internal"
	}
}
