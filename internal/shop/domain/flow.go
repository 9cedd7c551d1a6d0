package domain

import (
	"time"

	"github.com/aussiebroadwan/fluffyfriend/pkg/idx"
)

// FlowKind tags which authentication flow a session is in the middle of.
type FlowKind string

const (
	// FlowPendingAuth: password accepted, waiting on a TOTP code.
	FlowPendingAuth FlowKind = "pending_auth"
	// FlowEnrollment: a signed-in account is setting up 2FA.
	FlowEnrollment FlowKind = "enrollment"
	// FlowRegistration: an anonymous visitor holds a secret for the
	// registration form.
	FlowRegistration FlowKind = "registration"
)

func (k FlowKind) Valid() bool {
	switch k {
	case FlowPendingAuth, FlowEnrollment, FlowRegistration:
		return true
	}
	return false
}

// PendingAuth is the payload of a FlowPendingAuth flow.
type PendingAuth struct {
	AccountID int64  `json:"account_id"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	Username  string `json:"username"`
}

// EnrollmentSecret is the payload of FlowEnrollment and FlowRegistration
// flows. AccountID is 0 for registration.
type EnrollmentSecret struct {
	AccountID int64  `json:"account_id"`
	Secret    string `json:"secret"`
}

// AuthFlow is an in-progress authentication flow. A session holds at most
// one flow of each kind.
// Exactly one of Pending and Enrollment is set, matching Kind.
type AuthFlow struct {
	ID        idx.ID // correlation id, echoed back by forms
	SessionID string
	Kind      FlowKind
	Attempts  int

	Pending    *PendingAuth
	Enrollment *EnrollmentSecret

	CreatedAt time.Time
	ExpiresAt time.Time
}

func (f AuthFlow) Expired(now time.Time) bool {
	return !now.Before(f.ExpiresAt)
}

// NewPendingAuthFlow starts a TOTP challenge for the session.
func NewPendingAuthFlow(sessionID string, p PendingAuth, now time.Time, ttl time.Duration) AuthFlow {
	return AuthFlow{
		ID:        idx.NewAt(now),
		SessionID: sessionID,
		Kind:      FlowPendingAuth,
		Pending:   &p,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// NewEnrollmentFlow holds a fresh secret awaiting confirmation. kind is
// FlowEnrollment or FlowRegistration.
func NewEnrollmentFlow(sessionID string, kind FlowKind, e EnrollmentSecret, now time.Time, ttl time.Duration) AuthFlow {
	return AuthFlow{
		ID:         idx.NewAt(now),
		SessionID:  sessionID,
		Kind:       kind,
		Enrollment: &e,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
}
