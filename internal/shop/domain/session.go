package domain

import "time"

// FlashKind is the styling class of a flash message.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
	FlashInfo    FlashKind = "info"
)

type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

// Session is the server side state of one visitor. ID is the fingerprint of
// the token carried in the visitor's cookie; the raw token is never stored.
type Session struct {
	ID        string
	AccountID int64 // 0 when anonymous
	Flashes   []Flash
	FormData  map[string]string // previous failed form submission, for re-fill
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s Session) Authenticated() bool { return s.AccountID != 0 }
