package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/fluffyfriend/internal/shop/domain"
	"github.com/aussiebroadwan/fluffyfriend/internal/shop/store"
	"github.com/aussiebroadwan/fluffyfriend/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestRegisterDistinctAndDuplicateEmails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	alice, _ := f.register(t, "alice@example.com", "secret1", false)
	bob, _ := f.register(t, "bob@example.com", "secret2", false)
	require.NotEqual(t, alice.ID, bob.ID)
	require.Equal(t, domain.RoleUser, alice.Role)

	_, err := f.auth.Register(ctx, f.newSession(t), RegistrationInput{
		Username: "alice again",
		Email:    "alice@example.com",
		Password: "another",
		Address:  "elsewhere",
		Contact:  "none",
	})
	require.ErrorIs(t, err, ErrPersistence)
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	stored, err := f.store.Accounts().GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, "user-alice@example.com", stored.Username)
	require.NoError(t, cryptox.VerifyPassword("secret1", stored.PasswordHash))
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	full := RegistrationInput{
		Username: "alice", Email: "alice@example.com", Password: "secret1", Address: "a", Contact: "c",
	}

	tests := []struct {
		name string
		edit func(*RegistrationInput)
		msg  string
	}{
		{"missing username", func(in *RegistrationInput) { in.Username = "  " }, "All fields are required."},
		{"missing contact", func(in *RegistrationInput) { in.Contact = "" }, "All fields are required."},
		{"short password", func(in *RegistrationInput) { in.Password = "12345" }, "Password must be at least 6 characters."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := full
			tt.edit(&in)
			_, err := f.auth.Register(ctx, f.newSession(t), in)
			msg, ok := ValidationMessage(err)
			require.True(t, ok, "got %v", err)
			require.Equal(t, tt.msg, msg)
		})
	}

	t.Run("form data drops secrets", func(t *testing.T) {
		in := full
		in.Enable2FA = true
		in.Code = "123456"
		data := in.FormData()
		require.NotContains(t, data, "password")
		require.NotContains(t, data, "code")
		require.Equal(t, "on", data["enable2fa"])
		require.Equal(t, "alice@example.com", data["email"])
	})
}

func TestRegisterWithTOTP(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sess := f.newSession(t)

	ch, err := f.auth.RegistrationChallenge(ctx, sess)
	require.NoError(t, err)
	require.True(t, sess.Dirty(), "the session must be saved so the secret can be found again")
	require.Equal(t, "otpauth://totp/FluffyFriend?secret="+ch.Secret+"&issuer=FluffyFriend", ch.URI)

	again, err := f.auth.RegistrationChallenge(ctx, sess)
	require.NoError(t, err)
	require.Equal(t, ch.Secret, again.Secret, "reloading the form keeps the secret")
	require.Equal(t, ch.FlowID, again.FlowID)

	in := RegistrationInput{
		Username: "alice", Email: "alice@example.com", Password: "secret1", Address: "a", Contact: "c",
		Enable2FA: true, FlowID: ch.FlowID.String(), Code: "000000",
	}
	if codeAt(t, ch.Secret, f.now) == "000000" {
		in.Code = "111111"
	}

	_, err = f.auth.Register(ctx, sess, in)
	require.ErrorIs(t, err, ErrInvalidCode)

	// Window 2 tolerates a minute of drift.
	in.Code = codeAt(t, ch.Secret, f.now.Add(-60*time.Second))
	account, err := f.auth.Register(ctx, sess, in)
	require.NoError(t, err)
	require.True(t, account.TwoFAEnabled)
	require.Equal(t, ch.Secret, account.TwoFASecret)

	_, err = f.store.AuthFlows().GetBySession(ctx, sess.ID, domain.FlowRegistration, f.now)
	require.ErrorIs(t, err, store.ErrNotFound, "secret is consumed")
}

func TestRegisterWithTOTPNeedsLiveSecret(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sess := f.newSession(t)

	ch, err := f.auth.RegistrationChallenge(ctx, sess)
	require.NoError(t, err)

	f.advance(DefaultEnrollmentTTL)

	_, err = f.auth.Register(ctx, sess, RegistrationInput{
		Username: "alice", Email: "alice@example.com", Password: "secret1", Address: "a", Contact: "c",
		Enable2FA: true, Code: codeAt(t, ch.Secret, f.now),
	})
	require.ErrorIs(t, err, ErrInvalidCode)

	_, err = f.store.Accounts().GetByEmail(ctx, "alice@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestLoginWithoutTOTP(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, _ := f.register(t, "alice@example.com", "secret1", false)

	sess := f.newSession(t)
	anonID := sess.ID

	res, err := f.auth.Login(ctx, sess, "Alice@Example.com", "secret1")
	require.NoError(t, err)
	require.True(t, res.Authenticated())
	require.Nil(t, res.Pending)
	require.Equal(t, alice.ID, sess.AccountID)
	require.NotEqual(t, anonID, sess.ID, "token rotates on login")

	_, err = f.store.AuthFlows().GetBySession(ctx, sess.ID, domain.FlowPendingAuth, f.now)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = f.store.AuthFlows().GetBySession(ctx, anonID, domain.FlowPendingAuth, f.now)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestLoginRejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice@example.com", "secret1", false)

	sess := f.newSession(t)

	_, err := f.auth.Login(ctx, sess, "alice@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, sess, "nobody@example.com", "secret1")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, sess, "", "secret1")
	msg, ok := ValidationMessage(err)
	require.True(t, ok)
	require.Equal(t, "Email and password are required.", msg)

	require.False(t, sess.Authenticated())
}

func TestLoginUpgradesLegacyHash(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	id, err := f.store.Accounts().Create(ctx, domain.Account{
		Username:     "old timer",
		Email:        "old@example.com",
		PasswordHash: cryptox.LegacyHash("secret1"),
		Role:         domain.RoleUser,
	})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, f.newSession(t), "old@example.com", "secret1")
	require.NoError(t, err)

	stored, err := f.store.Accounts().GetByID(ctx, id)
	require.NoError(t, err)
	require.False(t, cryptox.IsLegacyHash(stored.PasswordHash))
	require.NoError(t, cryptox.VerifyPassword("secret1", stored.PasswordHash))
}

func TestLoginWithTOTP(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, secret := f.register(t, "alice@example.com", "secret1", true)

	sess := f.newSession(t)
	res, err := f.auth.Login(ctx, sess, "alice@example.com", "secret1")
	require.NoError(t, err)
	require.False(t, res.Authenticated())
	require.NotNil(t, res.Pending)
	require.Equal(t, alice.ID, res.Pending.Pending.AccountID)
	require.Equal(t, alice.Email, res.Pending.Pending.Email)
	require.False(t, sess.Authenticated(), "no account until the code is in")
	require.True(t, sess.Dirty())

	pending, err := f.auth.PendingLogin(ctx, sess)
	require.NoError(t, err)
	require.Equal(t, res.Pending.ID, pending.ID)

	wrong := codeAt(t, secret, f.now.Add(-5*time.Minute))
	_, err = f.auth.VerifyLogin(ctx, sess, pending.ID.String(), wrong)
	require.ErrorIs(t, err, ErrInvalidCode)
	require.False(t, sess.Authenticated())

	pending, err = f.auth.PendingLogin(ctx, sess)
	require.NoError(t, err, "a wrong code keeps the pending login")
	require.Equal(t, 1, pending.Attempts)

	_, err = f.auth.VerifyLogin(ctx, sess, "01ARZ3NDEKTSV4RRFFQ69G5FAV", codeAt(t, secret, f.now))
	require.ErrorIs(t, err, ErrNoFlow, "a stale flow id is refused")

	before := sess.ID
	account, err := f.auth.VerifyLogin(ctx, sess, pending.ID.String(), codeAt(t, secret, f.now))
	require.NoError(t, err)
	require.Equal(t, alice.ID, account.ID)
	require.Equal(t, alice.ID, sess.AccountID)
	require.NotEqual(t, before, sess.ID)

	_, err = f.store.AuthFlows().GetBySession(ctx, before, domain.FlowPendingAuth, f.now)
	require.ErrorIs(t, err, store.ErrNotFound, "flow consumed")

	_, err = f.auth.VerifyLogin(ctx, sess, "", codeAt(t, secret, f.now))
	require.ErrorIs(t, err, ErrNoFlow)
}

func TestPendingLoginExpires(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, secret := f.register(t, "alice@example.com", "secret1", true)

	sess := f.newSession(t)
	_, err := f.auth.Login(ctx, sess, "alice@example.com", "secret1")
	require.NoError(t, err)

	f.advance(DefaultPendingAuthTTL)

	_, err = f.auth.VerifyLogin(ctx, sess, "", codeAt(t, secret, f.now))
	require.ErrorIs(t, err, ErrNoFlow)
}

func TestPendingLoginForDeletedAccount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, secret := f.register(t, "alice@example.com", "secret1", true)

	sess := f.newSession(t)
	_, err := f.auth.Login(ctx, sess, "alice@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, f.store.Accounts().Delete(ctx, alice.ID))

	_, err = f.auth.VerifyLogin(ctx, sess, "", codeAt(t, secret, f.now))
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.auth.PendingLogin(ctx, sess)
	require.ErrorIs(t, err, ErrNoFlow, "flow is dropped")
}

func TestResetLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice@example.com", "secret1", true)

	sess := f.newSession(t)
	require.NoError(t, f.auth.ResetLogin(ctx, sess), "nothing to reset")

	_, err := f.auth.Login(ctx, sess, "alice@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, f.auth.ResetLogin(ctx, sess))
	_, err = f.auth.PendingLogin(ctx, sess)
	require.ErrorIs(t, err, ErrNoFlow)
}

func TestResetLoginKeepsRegistrationSecret(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sess := f.newSession(t)

	ch, err := f.auth.RegistrationChallenge(ctx, sess)
	require.NoError(t, err)

	require.NoError(t, f.auth.ResetLogin(ctx, sess))

	again, err := f.auth.RegistrationChallenge(ctx, sess)
	require.NoError(t, err)
	require.Equal(t, ch.Secret, again.Secret)
}

func TestRegistrationChallengeKeepsPendingLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, secret := f.register(t, "alice@example.com", "secret1", true)

	sess := f.newSession(t)
	res, err := f.auth.Login(ctx, sess, "alice@example.com", "secret1")
	require.NoError(t, err)

	_, err = f.auth.RegistrationChallenge(ctx, sess)
	require.NoError(t, err)

	pending, err := f.auth.PendingLogin(ctx, sess)
	require.NoError(t, err)
	require.Equal(t, res.Pending.ID, pending.ID)

	account, err := f.auth.VerifyLogin(ctx, sess, pending.ID.String(), codeAt(t, secret, f.now))
	require.NoError(t, err)
	require.Equal(t, alice.ID, account.ID)
}

func TestCurrentAccount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, _ := f.register(t, "alice@example.com", "secret1", false)

	sess := f.newSession(t)
	_, ok, err := f.auth.CurrentAccount(ctx, sess)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = f.auth.Login(ctx, sess, "alice@example.com", "secret1")
	require.NoError(t, err)

	account, ok, err := f.auth.CurrentAccount(ctx, sess)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, alice.ID, account.ID)

	require.NoError(t, f.store.Accounts().Delete(ctx, alice.ID))
	_, ok, err = f.auth.CurrentAccount(ctx, sess)
	require.NoError(t, err)
	require.False(t, ok)
	require.False(t, sess.Authenticated())
}

func TestSetupTOTP(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, _ := f.register(t, "alice@example.com", "secret1", false)

	sess := f.newSession(t)
	_, err := f.auth.Login(ctx, sess, "alice@example.com", "secret1")
	require.NoError(t, err)

	ch, err := f.auth.BeginSetup(ctx, sess, alice)
	require.NoError(t, err)
	require.Contains(t, ch.URI, "otpauth://totp/FluffyFriend%20%28alice@example.com%29?secret="+ch.Secret)
	require.Contains(t, ch.QRCode, "data:image/png;base64,")

	wrong := codeAt(t, ch.Secret, f.now.Add(-2*time.Minute))
	err = f.auth.ConfirmSetup(ctx, sess, alice, ch.FlowID.String(), wrong)
	require.ErrorIs(t, err, ErrInvalidCode)

	stored, err := f.store.Accounts().GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.False(t, stored.TwoFAEnabled, "wrong code leaves 2FA off")

	flow, err := f.store.AuthFlows().GetBySession(ctx, sess.ID, domain.FlowEnrollment, f.now)
	require.NoError(t, err)
	require.Equal(t, ch.Secret, flow.Enrollment.Secret, "secret kept for retry")

	require.NoError(t, f.auth.ConfirmSetup(ctx, sess, alice, ch.FlowID.String(), codeAt(t, ch.Secret, f.now)))

	stored, err = f.store.Accounts().GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.True(t, stored.TwoFAEnabled)
	require.Equal(t, ch.Secret, stored.TwoFASecret)

	err = f.auth.ConfirmSetup(ctx, sess, alice, "", codeAt(t, ch.Secret, f.now))
	require.ErrorIs(t, err, ErrNoFlow)
}

func TestConfirmSetupOtherAccount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, _ := f.register(t, "alice@example.com", "secret1", false)
	bob, _ := f.register(t, "bob@example.com", "secret1", false)

	sess := f.newSession(t)
	ch, err := f.auth.BeginSetup(ctx, sess, alice)
	require.NoError(t, err)

	err = f.auth.ConfirmSetup(ctx, sess, bob, "", codeAt(t, ch.Secret, f.now))
	require.ErrorIs(t, err, ErrNoFlow)
}

func TestDisableTOTP(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, secret := f.register(t, "alice@example.com", "secret1", true)

	err := f.auth.DisableTwoFactor(ctx, alice, codeAt(t, secret, f.now.Add(-2*time.Minute)))
	require.ErrorIs(t, err, ErrInvalidCode)

	require.NoError(t, f.auth.DisableTwoFactor(ctx, alice, codeAt(t, secret, f.now)))

	stored, err := f.store.Accounts().GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.False(t, stored.TwoFAEnabled)
	require.Empty(t, stored.TwoFASecret)

	_, ok := ValidationMessage(f.auth.DisableTwoFactor(ctx, stored, "123456"))
	require.True(t, ok)

	// Login no longer asks for a code.
	res, err := f.auth.Login(ctx, f.newSession(t), "alice@example.com", "secret1")
	require.NoError(t, err)
	require.True(t, res.Authenticated())
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice@example.com", "secret1", false)

	sess := f.newSession(t)
	_, err := f.auth.Login(ctx, sess, "alice@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, f.sessions.Save(ctx, sess))
	token := sess.Token

	require.NoError(t, f.auth.Logout(ctx, sess))
	require.True(t, sess.Destroyed())

	loaded, err := f.sessions.Load(ctx, token)
	require.NoError(t, err)
	require.True(t, loaded.IsNew())
	require.False(t, loaded.Authenticated())
}

// Scenario: register without 2FA, then log in straight through.
func TestScenarioPlainLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice@example.com", "secret1", false)

	sess := f.newSession(t)
	res, err := f.auth.Login(ctx, sess, "alice@example.com", "secret1")
	require.NoError(t, err)
	require.True(t, res.Authenticated())
	require.NotZero(t, sess.AccountID)
}

// Scenario: register with 2FA, then the password alone is not enough.
func TestScenarioTOTPLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, secret := f.register(t, "alice@example.com", "secret1", true)

	sess := f.newSession(t)
	res, err := f.auth.Login(ctx, sess, "alice@example.com", "secret1")
	require.NoError(t, err)
	require.False(t, res.Authenticated())
	require.Zero(t, sess.AccountID)

	f.advance(30 * time.Second)
	_, err = f.auth.VerifyLogin(ctx, sess, res.Pending.ID.String(), codeAt(t, secret, f.now))
	require.NoError(t, err)
	require.NotZero(t, sess.AccountID)
}
