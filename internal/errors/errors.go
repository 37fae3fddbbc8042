// Package errors holds the dev backend's domain errors and how each one is
// reported over HTTP.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserBlocked        = errors.New("user is blocked")
	ErrMissingBearer      = errors.New("missing bearer token")
	ErrTenantNotFound     = errors.New("tenant not found")
	ErrUnauthorizedTenant = errors.New("unauthorized for tenant")
	ErrShareNotFound      = errors.New("share not found")
	ErrShareExpired       = errors.New("share expired")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrInternal           = errors.New("internal error")
)

// Problem is the HTTP rendering of an error.
type Problem struct {
	Status      int
	Code        string
	Description string
}

// Blocked accounts are reported exactly like bad credentials.
var problems = []struct {
	err     error
	problem Problem
}{
	{ErrInvalidCredentials, Problem{http.StatusUnauthorized, "invalid_credentials", "invalid email or password"}},
	{ErrUserBlocked, Problem{http.StatusUnauthorized, "invalid_credentials", "invalid email or password"}},
	{ErrMissingBearer, Problem{http.StatusUnauthorized, "unauthorized", "missing or invalid Authorization header"}},
	{ErrUnauthorizedTenant, Problem{http.StatusForbidden, "forbidden", ErrUnauthorizedTenant.Error()}},
	{ErrTenantNotFound, Problem{http.StatusNotFound, "unknown_hospital", ErrTenantNotFound.Error()}},
	{ErrShareNotFound, Problem{http.StatusNotFound, "not_found", ErrShareNotFound.Error()}},
	{ErrShareExpired, Problem{http.StatusGone, "expired", ErrShareExpired.Error()}},
	{ErrInvalidRequest, Problem{http.StatusBadRequest, "invalid_request", ErrInvalidRequest.Error()}},
}

// Classify maps err to the first matching domain error. Anything else is
// an internal error and its text is not exposed.
func Classify(err error) Problem {
	for _, p := range problems {
		if errors.Is(err, p.err) {
			return p.problem
		}
	}
	return Problem{http.StatusInternalServerError, "internal_error", ErrInternal.Error()}
}

// Wrapf adds context to err, keeping it matchable with errors.Is.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
