// internal/service/validation.go
package service

import (
	"fmt"
	"strings"

	"minibank/internal/util"
)

func validatePositiveID(id int64, field string) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s must be > 0", util.ErrInvalidInput, field)
	}
	return nil
}

func validatePositiveAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be > 0", util.ErrInvalidInput)
	}
	return nil
}

// normalizeLogin trims login and rejects blank values.
func normalizeLogin(login string) (string, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return "", fmt.Errorf("%w: login must not be blank", util.ErrInvalidInput)
	}
	return login, nil
}
