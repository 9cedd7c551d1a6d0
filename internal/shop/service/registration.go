package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/aussiebroadwan/fluffyfriend/internal/shop/domain"
	"github.com/aussiebroadwan/fluffyfriend/internal/shop/store"
	"github.com/aussiebroadwan/fluffyfriend/pkg/cryptox"
	"github.com/aussiebroadwan/fluffyfriend/pkg/slogx"
)

const minPasswordLength = 6

// RegistrationInput is the public sign up form.
type RegistrationInput struct {
	Username string
	Email    string
	Password string
	Address  string
	Contact  string

	Enable2FA bool
	Code      string
	FlowID    string
}

// FormData is the input minus secrets, kept for re-filling the form.
func (in RegistrationInput) FormData() map[string]string {
	data := map[string]string{
		"username": in.Username,
		"email":    in.Email,
		"address":  in.Address,
		"contact":  in.Contact,
	}
	if in.Enable2FA {
		data["enable2fa"] = "on"
	}
	return data
}

func (in *RegistrationInput) normalise() {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Address = strings.TrimSpace(in.Address)
	in.Contact = strings.TrimSpace(in.Contact)
}

// RegistrationChallenge returns the secret offered on the sign up form,
// reusing the session's live one so a reload does not invalidate a code
// already scanned.
func (s *AuthService) RegistrationChallenge(ctx context.Context, sess *Session) (Challenge, error) {
	flow, err := s.loadFlow(ctx, s.Store, sess, domain.FlowRegistration, "")
	if err == nil {
		return s.challenge(flow, s.AppName)
	}
	if !errors.Is(err, ErrNoFlow) {
		return Challenge{}, err
	}

	enrollment, err := s.TOTP.GenerateSecret(s.AppName)
	if err != nil {
		return Challenge{}, err
	}

	flow = domain.NewEnrollmentFlow(sess.ID, domain.FlowRegistration, domain.EnrollmentSecret{
		Secret: enrollment.Secret,
	}, s.now(), s.enrollmentTTL())

	if err := s.Store.AuthFlows().Put(ctx, flow); err != nil {
		return Challenge{}, persistence("store registration secret", err)
	}
	sess.Touch()

	return s.challenge(flow, s.AppName)
}

// Register creates a user account. Opting in to 2FA requires a code for
// the session's registration secret; the account is then created with 2FA
// already on. Public sign up never grants admin.
func (s *AuthService) Register(ctx context.Context, sess *Session, in RegistrationInput) (domain.Account, error) {
	log := slogx.FromContext(ctx)
	in.normalise()

	if in.Username == "" || in.Email == "" || in.Password == "" || in.Address == "" || in.Contact == "" {
		return domain.Account{}, invalid("All fields are required.")
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLength {
		return domain.Account{}, invalid("Password must be at least 6 characters.")
	}

	account := domain.Account{
		Username: in.Username,
		Email:    in.Email,
		Address:  in.Address,
		Contact:  in.Contact,
		Role:     domain.RoleUser,
	}

	if in.Enable2FA {
		flow, err := s.loadFlow(ctx, s.Store, sess, domain.FlowRegistration, in.FlowID)
		if err != nil {
			if errors.Is(err, ErrNoFlow) {
				return domain.Account{}, ErrInvalidCode
			}
			return domain.Account{}, err
		}

		if !s.TOTP.Verify(flow.Enrollment.Secret, in.Code, WindowRegistration) {
			s.countFailure(ctx, flow)
			return domain.Account{}, ErrInvalidCode
		}

		account.TwoFAEnabled = true
		account.TwoFASecret = flow.Enrollment.Secret
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.Account{}, err
	}
	account.PasswordHash = hash

	id, err := s.Store.Accounts().Create(ctx, account)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Info("registration rejected, email taken", "email", in.Email)
		}
		return domain.Account{}, persistence("create account", err)
	}
	account.ID = id

	s.dropFlow(ctx, sess, domain.FlowRegistration)

	log.Info("account registered", "account_id", id, "twofa", account.TwoFAEnabled)
	return account, nil
}
