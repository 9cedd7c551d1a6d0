package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/fluffyfriend/internal/shop/domain"
	"github.com/aussiebroadwan/fluffyfriend/internal/shop/store"
	"github.com/aussiebroadwan/fluffyfriend/pkg/idx"
	"github.com/aussiebroadwan/fluffyfriend/pkg/slogx"
)

const (
	DefaultPendingAuthTTL = 5 * time.Minute
	DefaultEnrollmentTTL  = 10 * time.Minute
)

// AuthService drives the login, 2FA setup and registration flows. Each
// session has at most one flow in progress, stored in the auth_flows table.
type AuthService struct {
	Store       store.Store
	Credentials *CredentialVerifier
	TOTP        *TOTPEngine
	Sessions    *SessionService

	// AppName labels provisioning URIs.
	AppName string

	PendingAuthTTL time.Duration
	EnrollmentTTL  time.Duration

	Now func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *AuthService) pendingTTL() time.Duration {
	if s.PendingAuthTTL <= 0 {
		return DefaultPendingAuthTTL
	}
	return s.PendingAuthTTL
}

func (s *AuthService) enrollmentTTL() time.Duration {
	if s.EnrollmentTTL <= 0 {
		return DefaultEnrollmentTTL
	}
	return s.EnrollmentTTL
}

// LoginResult is the outcome of a correct password. Pending is set when the
// account still owes a TOTP code.
type LoginResult struct {
	Account domain.Account
	Pending *domain.AuthFlow
}

func (r LoginResult) Authenticated() bool { return r.Pending == nil }

// Login checks the password step. Accounts without 2FA are signed in
// straight away; the rest get a pending_auth flow and stay anonymous.
func (s *AuthService) Login(ctx context.Context, sess *Session, email, password string) (LoginResult, error) {
	log := slogx.FromContext(ctx)

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return LoginResult{}, invalid("Email and password are required.")
	}

	account, err := s.Credentials.Verify(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			log.Info("login rejected", "email", email)
		}
		return LoginResult{}, err
	}

	if !account.TwoFAEnabled {
		if err := s.signIn(sess, account); err != nil {
			return LoginResult{}, err
		}
		log.Info("login succeeded", "account_id", account.ID)
		return LoginResult{Account: account}, nil
	}

	flow := domain.NewPendingAuthFlow(sess.ID, domain.PendingAuth{
		AccountID: account.ID,
		Email:     account.Email,
		Role:      account.Role,
		Username:  account.Username,
	}, s.now(), s.pendingTTL())

	if err := s.Store.AuthFlows().Put(ctx, flow); err != nil {
		return LoginResult{}, persistence("store pending auth", err)
	}
	sess.Touch()

	log.Info("password accepted, totp required", "account_id", account.ID, "flow_id", flow.ID)
	return LoginResult{Account: account, Pending: &flow}, nil
}

// PendingLogin returns the session's live pending_auth flow.
func (s *AuthService) PendingLogin(ctx context.Context, sess *Session) (domain.AuthFlow, error) {
	return s.loadFlow(ctx, s.Store, sess, domain.FlowPendingAuth, "")
}

// VerifyLogin completes a pending login with a TOTP code. A wrong code
// leaves the flow in place for another try.
func (s *AuthService) VerifyLogin(ctx context.Context, sess *Session, flowID, code string) (domain.Account, error) {
	log := slogx.FromContext(ctx)

	flow, err := s.loadFlow(ctx, s.Store, sess, domain.FlowPendingAuth, flowID)
	if err != nil {
		return domain.Account{}, err
	}

	account, err := s.Store.Accounts().GetByID(ctx, flow.Pending.AccountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.dropFlow(ctx, sess, domain.FlowPendingAuth)
			return domain.Account{}, ErrNotFound
		}
		return domain.Account{}, persistence("load account", err)
	}

	if !s.TOTP.Verify(account.TwoFASecret, code, WindowLogin) {
		s.countFailure(ctx, flow)
		return domain.Account{}, ErrInvalidCode
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := s.loadFlow(ctx, tx, sess, domain.FlowPendingAuth, flow.ID.String()); err != nil {
			return err
		}
		return tx.AuthFlows().DeleteBySession(ctx, sess.ID, domain.FlowPendingAuth)
	})
	if err != nil {
		if errors.Is(err, ErrNoFlow) {
			return domain.Account{}, err
		}
		return domain.Account{}, persistence("consume pending auth", err)
	}

	if err := s.signIn(sess, account); err != nil {
		return domain.Account{}, err
	}

	log.Info("login succeeded with totp",
		"account_id", account.ID,
		"attempts", flow.Attempts+1,
		"elapsed", s.now().Sub(flow.ID.Issued()).Round(time.Second),
	)
	return account, nil
}

// ResetLogin abandons a half finished login so the password form starts
// over.
func (s *AuthService) ResetLogin(ctx context.Context, sess *Session) error {
	flow, err := s.loadFlow(ctx, s.Store, sess, domain.FlowPendingAuth, "")
	if err != nil {
		if errors.Is(err, ErrNoFlow) {
			return nil
		}
		return err
	}

	if err := s.Store.AuthFlows().DeleteBySession(ctx, sess.ID, domain.FlowPendingAuth); err != nil {
		return persistence("reset login", err)
	}
	slogx.FromContext(ctx).Debug("pending login abandoned", "flow_id", flow.ID)
	return nil
}

// Logout ends the session.
func (s *AuthService) Logout(ctx context.Context, sess *Session) error {
	return s.Sessions.Destroy(ctx, sess)
}

// CurrentAccount resolves the session's signed in account. A session whose
// account has been deleted reverts to anonymous.
func (s *AuthService) CurrentAccount(ctx context.Context, sess *Session) (domain.Account, bool, error) {
	if !sess.Authenticated() {
		return domain.Account{}, false, nil
	}

	account, err := s.Store.Accounts().GetByID(ctx, sess.AccountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			sess.setAccount(0)
			return domain.Account{}, false, nil
		}
		return domain.Account{}, false, persistence("load current account", err)
	}
	return account, true, nil
}

func (s *AuthService) signIn(sess *Session, account domain.Account) error {
	if err := s.Sessions.Rotate(sess); err != nil {
		return err
	}
	sess.setAccount(account.ID)
	return nil
}

// loadFlow fetches the session's flow of kind through q. A non-empty flowID
// must match the flow's correlation id.
func (s *AuthService) loadFlow(
	ctx context.Context,
	q store.Store,
	sess *Session,
	kind domain.FlowKind,
	flowID string,
) (domain.AuthFlow, error) {
	flow, err := q.AuthFlows().GetBySession(ctx, sess.ID, kind, s.now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.AuthFlow{}, ErrNoFlow
		}
		return domain.AuthFlow{}, persistence("load auth flow", err)
	}

	if flowID = strings.TrimSpace(flowID); flowID != "" {
		id, err := idx.Parse(flowID)
		if err != nil || id != flow.ID {
			return domain.AuthFlow{}, fmt.Errorf("%w: stale flow id", ErrNoFlow)
		}
	}
	return flow, nil
}

func (s *AuthService) dropFlow(ctx context.Context, sess *Session, kind domain.FlowKind) {
	if err := s.Store.AuthFlows().DeleteBySession(ctx, sess.ID, kind); err != nil {
		slogx.FromContext(ctx).Warn("failed to delete auth flow", "kind", kind, "error", err)
	}
}

// countFailure records a wrong code against the flow. There is no cap per
// flow; the HTTP layer rate limits code submissions.
func (s *AuthService) countFailure(ctx context.Context, flow domain.AuthFlow) {
	log := slogx.FromContext(ctx)

	attempts, err := s.Store.AuthFlows().IncrementAttempts(ctx, flow.ID.String())
	if err != nil {
		log.Warn("failed to count totp attempt", "flow_id", flow.ID, "error", err)
		return
	}
	log.Warn("invalid totp code", "flow_id", flow.ID, "kind", flow.Kind, "attempts", attempts)
}
