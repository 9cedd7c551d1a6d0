package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/fluffyfriend/internal/shop/domain"
	"github.com/aussiebroadwan/fluffyfriend/internal/shop/store"
	"github.com/aussiebroadwan/fluffyfriend/pkg/idx"
	"github.com/aussiebroadwan/fluffyfriend/pkg/slogx"
)

// Challenge is what a 2FA form shows: the secret, its URI and QR image, and
// the flow id the form echoes back.
type Challenge struct {
	FlowID idx.ID
	Secret string
	URI    string
	QRCode string // data URL
}

func (s *AuthService) challenge(flow domain.AuthFlow, label string) (Challenge, error) {
	uri := ProvisioningURI(label, flow.Enrollment.Secret)
	qr, err := s.TOTP.QRCode(uri)
	if err != nil {
		return Challenge{}, err
	}
	return Challenge{FlowID: flow.ID, Secret: flow.Enrollment.Secret, URI: uri, QRCode: qr}, nil
}

func (s *AuthService) setupLabel(account domain.Account) string {
	return fmt.Sprintf("%s (%s)", s.AppName, account.Email)
}

// BeginSetup issues a fresh secret for a signed in account and parks it in
// an enrollment flow until confirmed.
func (s *AuthService) BeginSetup(ctx context.Context, sess *Session, account domain.Account) (Challenge, error) {
	label := s.setupLabel(account)

	enrollment, err := s.TOTP.GenerateSecret(label)
	if err != nil {
		return Challenge{}, err
	}

	flow := domain.NewEnrollmentFlow(sess.ID, domain.FlowEnrollment, domain.EnrollmentSecret{
		AccountID: account.ID,
		Secret:    enrollment.Secret,
	}, s.now(), s.enrollmentTTL())

	if err := s.Store.AuthFlows().Put(ctx, flow); err != nil {
		return Challenge{}, persistence("store enrollment", err)
	}
	sess.Touch()

	return s.challenge(flow, label)
}

// ConfirmSetup promotes the enrollment secret to the account when code
// verifies. A wrong code keeps the secret for another try.
func (s *AuthService) ConfirmSetup(ctx context.Context, sess *Session, account domain.Account, flowID, code string) error {
	log := slogx.FromContext(ctx)

	flow, err := s.loadFlow(ctx, s.Store, sess, domain.FlowEnrollment, flowID)
	if err != nil {
		return err
	}
	if flow.Enrollment.AccountID != account.ID {
		return fmt.Errorf("%w: enrollment belongs to another account", ErrNoFlow)
	}

	if !s.TOTP.Verify(flow.Enrollment.Secret, code, WindowSetup) {
		s.countFailure(ctx, flow)
		return ErrInvalidCode
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().EnableTwoFactor(ctx, account.ID, flow.Enrollment.Secret); err != nil {
			return err
		}
		return tx.AuthFlows().DeleteBySession(ctx, sess.ID, domain.FlowEnrollment)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return persistence("enable two factor", err)
	}

	log.Info("two factor enabled", "account_id", account.ID)
	return nil
}

// DisableTwoFactor turns 2FA off after one last valid code and forgets the
// secret.
func (s *AuthService) DisableTwoFactor(ctx context.Context, account domain.Account, code string) error {
	if !account.TwoFAEnabled {
		return invalid("2FA is not enabled.")
	}

	if !s.TOTP.Verify(account.TwoFASecret, code, WindowDisable) {
		slogx.FromContext(ctx).Warn("invalid totp code on disable", "account_id", account.ID)
		return ErrInvalidCode
	}

	if err := s.Store.Accounts().DisableTwoFactor(ctx, account.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return persistence("disable two factor", err)
	}

	slogx.FromContext(ctx).Info("two factor disabled", "account_id", account.ID)
	return nil
}
