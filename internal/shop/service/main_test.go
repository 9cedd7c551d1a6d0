package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/fluffyfriend/internal/shop/domain"
	"github.com/aussiebroadwan/fluffyfriend/internal/shop/store/drivers/sqlite"
	"github.com/aussiebroadwan/fluffyfriend/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "shop-service")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type fixture struct {
	store *sqlite.Store
	now   time.Time

	totp     *TOTPEngine
	sessions *SessionService
	auth     *AuthService
	accounts *AccountService
	products *ProductService
	cart     *CartService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	f := &fixture{store: st, now: time.Unix(1750000000, 0).UTC()}
	clock := func() time.Time { return f.now }

	f.totp = &TOTPEngine{Now: clock}
	f.sessions = &SessionService{Store: st, Now: clock}
	f.auth = &AuthService{
		Store:       st,
		Credentials: &CredentialVerifier{Store: st},
		TOTP:        f.totp,
		Sessions:    f.sessions,
		AppName:     "FluffyFriend",
		Now:         clock,
	}
	f.accounts = &AccountService{Store: st}
	f.products = &ProductService{Store: st}
	f.cart = &CartService{Store: st}
	return f
}

func (f *fixture) advance(d time.Duration) { f.now = f.now.Add(d) }

// newSession returns a fresh anonymous session as a first visit would.
func (f *fixture) newSession(t *testing.T) *Session {
	t.Helper()
	sess, err := f.sessions.Load(context.Background(), "")
	require.NoError(t, err)
	return sess
}

// register signs up an account, with 2FA when withTOTP is set, and returns
// it together with the secret.
func (f *fixture) register(t *testing.T, email, password string, withTOTP bool) (domain.Account, string) {
	t.Helper()
	ctx := context.Background()

	sess := f.newSession(t)
	in := RegistrationInput{
		Username: "user-" + email,
		Email:    email,
		Password: password,
		Address:  "1 Fluffy Lane",
		Contact:  "0400 000 000",
	}

	var secret string
	if withTOTP {
		ch, err := f.auth.RegistrationChallenge(ctx, sess)
		require.NoError(t, err)
		secret = ch.Secret
		in.Enable2FA = true
		in.FlowID = ch.FlowID.String()
		in.Code = codeAt(t, secret, f.now)
	}

	account, err := f.auth.Register(ctx, sess, in)
	require.NoError(t, err)
	return account, secret
}
