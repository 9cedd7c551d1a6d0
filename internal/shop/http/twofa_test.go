package http_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnableAndDisableTwoFactor(t *testing.T) {
	s := newTestServer(t, relaxedLimits())
	b := s.browser(t)

	b.signUp("kate", "kate@example.com", "secret1")
	require.Equal(t, "/", b.logIn("kate@example.com", "secret1").Location)

	setup := b.get("/2fa/setup")
	require.Equal(t, http.StatusOK, setup.Status)
	require.Contains(t, setup.Header.Get("Cache-Control"), "no-store")
	require.Contains(t, setup.Body, "data:image/png;base64,")
	secret := match(t, secretRe, setup.Body)
	flow := match(t, flowRe, setup.Body)

	p := b.post("/2fa/setup", url.Values{"flow": {flow}, "code": {"12"}})
	require.Equal(t, "/2fa/setup", p.Location)

	// The failed attempt keeps the secret, so the same code source works.
	p = b.post("/2fa/setup", url.Values{"flow": {flow}, "code": {code(t, secret)}})
	require.Equal(t, "/", p.Location)
	require.Contains(t, b.follow(p).Body, "2FA enabled!")

	require.Contains(t, b.get("/2fa/setup").Body, "Turn off 2FA")

	// Next login asks for a code.
	b.get("/logout")
	require.Equal(t, "/2fa/verify", b.logIn("kate@example.com", "secret1").Location)
	verify := b.get("/2fa/verify")
	p = b.post("/2fa/verify", url.Values{"flow": {match(t, flowRe, verify.Body)}, "code": {code(t, secret)}})
	require.Equal(t, "/", p.Location)

	p = b.post("/2fa/disable", url.Values{"code": {code(t, secret)}})
	require.Equal(t, "/", p.Location)
	require.Contains(t, b.follow(p).Body, "2FA disabled.")

	b.get("/logout")
	require.Equal(t, "/", b.logIn("kate@example.com", "secret1").Location)
}

func TestRegisterFormKeepsSetupSecret(t *testing.T) {
	s := newTestServer(t, relaxedLimits())
	b := s.browser(t)

	b.signUp("mona", "mona@example.com", "secret1")
	require.Equal(t, "/", b.logIn("mona@example.com", "secret1").Location)

	setup := b.get("/2fa/setup")
	secret := match(t, secretRe, setup.Body)
	flow := match(t, flowRe, setup.Body)

	require.Equal(t, http.StatusOK, b.get("/register").Status)

	p := b.post("/2fa/setup", url.Values{"flow": {flow}, "code": {code(t, secret)}})
	require.Equal(t, "/", p.Location)
	require.Contains(t, b.follow(p).Body, "2FA enabled!")
}

func TestSetupWithoutSecret(t *testing.T) {
	s := newTestServer(t, relaxedLimits())
	b := s.browser(t)

	b.signUp("liam", "liam@example.com", "secret1")
	b.logIn("liam@example.com", "secret1")

	p := b.post("/2fa/setup", url.Values{"code": {"123456"}})
	require.Equal(t, "/2fa/setup", p.Location)
	require.Contains(t, b.follow(p).Body, "2FA secret missing")
}

func TestSetupRequiresLogin(t *testing.T) {
	s := newTestServer(t, relaxedLimits())
	b := s.browser(t)

	require.Equal(t, "/login", b.get("/2fa/setup").Location)
	require.Equal(t, "/login", b.post("/2fa/disable", url.Values{"code": {"123456"}}).Location)
}
