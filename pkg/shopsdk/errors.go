package shopsdk

import (
	"errors"
	"fmt"
)

var (
	// ErrRateLimited is a 429 from the shop.
	ErrRateLimited = errors.New("shopsdk: rate limited")

	// ErrNotSignedIn means the shop bounced the request to /login.
	ErrNotSignedIn = errors.New("shopsdk: not signed in")
)

// FormError is a rejected form submission.
type FormError struct {
	// Path is where the shop redirected to, usually the form itself.
	Path string
	// Message is the flash shown there, if any.
	Message string
}

func (e *FormError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("shopsdk: form rejected, redirected to %s", e.Path)
	}
	return fmt.Sprintf("shopsdk: %s", e.Message)
}

// StatusError is an unexpected HTTP status.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("shopsdk: unexpected status %d: %s", e.Status, e.Body)
}
