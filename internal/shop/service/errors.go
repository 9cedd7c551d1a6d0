package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidCode is a TOTP code that does not verify.
	ErrInvalidCode = errors.New("invalid or expired code")

	// ErrNotFound is a missing account, product, or cart item.
	ErrNotFound = errors.New("not found")

	// ErrNoFlow means the session has no live flow of the expected kind, or
	// the submitted flow id does not match it.
	ErrNoFlow = errors.New("no authentication flow in progress")

	// ErrPersistence wraps store failures, including duplicate emails.
	ErrPersistence = errors.New("persistence failure")
)

// ValidationError is a user facing message about bad form input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }

// persistence wraps err so that errors.Is matches both ErrPersistence and
// the underlying cause.
func persistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

// ValidationMessage returns the message of a *ValidationError in err's
// chain.
func ValidationMessage(err error) (string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message, true
	}
	return "", false
}
