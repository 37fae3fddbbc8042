package auth

import (
	"strings"

	"github.com/pkg/errors"
)

// validateLogin checks the form fields locally. Whitespace-only email is
// treated as empty; passwords are taken as typed.
func validateLogin(email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", errors.New("email is required")
	}
	if password == "" {
		return "", errors.New("password is required")
	}
	return email, nil
}
