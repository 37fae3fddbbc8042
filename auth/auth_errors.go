package auth

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-viewer-session/navigation"
)

// Failure kinds. Match with errors.Is against a *FlowError.
var (
	ErrValidation          = errors.New("validation error")
	ErrAuthentication      = errors.New("authentication error")
	ErrEntryAuthentication = errors.New("entry authentication error")
	ErrShareResolution     = errors.New("share resolution error")
	ErrVerification        = errors.New("verification error")
	ErrStorage             = errors.New("storage error")
)

// User facing messages.
const (
	MessageValidation     = "Please enter your email and password."
	MessageAuthentication = "invalid email or password"
	MessageEntry          = "Authentication Error. Please try again !"
	MessageShare          = "Something went wrong. Please try again!"
	MessageVerification   = "Session expired. Please log in again."
	MessageStorage        = "Your session could not be saved. Please try again."
)

// FlowError is the failure result of an exchange flow. Message is safe to
// show to the user. When Redirect is set the caller should perform it
// after surfacing Message; otherwise the message belongs next to the form.
type FlowError struct {
	Kind     error
	Message  string
	Redirect navigation.Target
	Err      error
}

func (e *FlowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return e.Kind.Error()
}

func (e *FlowError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// AsFlowError returns the FlowError in err's chain, if any.
func AsFlowError(err error) (*FlowError, bool) {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

func flowError(kind error, message string, redirect navigation.Target, cause error) *FlowError {
	return &FlowError{Kind: kind, Message: message, Redirect: redirect, Err: cause}
}
