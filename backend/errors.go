package backend

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedResponse = errors.New("malformed response")
	ErrMissingToken      = errors.New("token is required")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method     string
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Endpoint, e.StatusCode)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
