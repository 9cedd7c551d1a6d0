package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/fluffyfriend/internal/shop/service"
	"github.com/aussiebroadwan/fluffyfriend/pkg/slogx"
)

// AuthHandler serves login, the TOTP step of login, registration and
// logout.
type AuthHandler struct {
	Auth  *service.AuthService
	Views *Views
}

type verifyPage struct {
	FlowID string
	Email  string
}

type registerPage struct {
	Challenge service.Challenge
}

// HandleLoginForm godoc
//
//	@Summary		Login form
//	@Description	Shows the email and password form. Abandons any half finished TOTP login.
//	@Tags			Auth
//	@Produce		html
//	@Success		200	{string}	string	"HTML page"
//	@Router			/login [get]
func (h *AuthHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := h.Auth.ResetLogin(ctx, sessionFrom(ctx)); err != nil {
		log.Warn("failed to reset pending login", "error", err)
	}
	h.Views.render(w, r, "login", "Log in", nil)
}

// HandleLogin godoc
//
//	@Summary		Submit credentials
//	@Description	Checks email and password. Accounts with 2FA continue at /2fa/verify; others are signed in.
//	@Tags			Auth
//	@Accept			x-www-form-urlencoded
//	@Param			email		formData	string	true	"Email"
//	@Param			password	formData	string	true	"Password"
//	@Success		302	"Redirect to /, /admin, /2fa/verify or back to /login"
//	@Failure		429	{string}	string	"Too many requests"
//	@Router			/login [post]
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	sess := sessionFrom(ctx)

	if err := r.ParseForm(); err != nil {
		fail(w, r, "/login", "Email and password are required.")
		return
	}
	email := r.PostFormValue("email")

	res, err := h.Auth.Login(ctx, sess, email, r.PostFormValue("password"))
	if err != nil {
		sess.SetFormData(map[string]string{"email": email})
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			fail(w, r, "/login", "Invalid email or password.")
		default:
			if _, ok := service.ValidationMessage(err); !ok {
				log.Error("login failed", "error", err)
			}
			fail(w, r, "/login", messageOr(err, genericError))
		}
		return
	}

	if !res.Authenticated() {
		redirect(w, r, "/2fa/verify")
		return
	}
	succeed(w, r, homeFor(res.Account), "Login successful!")
}

// HandleVerifyForm godoc
//
//	@Summary		TOTP step of login
//	@Tags			Auth
//	@Produce		html
//	@Success		200	{string}	string	"HTML page"
//	@Success		302	"Redirect to /login when no login is pending"
//	@Router			/2fa/verify [get]
func (h *AuthHandler) HandleVerifyForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	flow, err := h.Auth.PendingLogin(ctx, sessionFrom(ctx))
	if err != nil {
		if !errors.Is(err, service.ErrNoFlow) {
			log.Error("failed to load pending login", "error", err)
		}
		redirect(w, r, "/login")
		return
	}

	h.Views.render(w, r, "verify", "Two-factor authentication", verifyPage{
		FlowID: flow.ID.String(),
		Email:  flow.Pending.Email,
	})
}

// HandleVerify godoc
//
//	@Summary		Submit login TOTP code
//	@Tags			Auth
//	@Accept			x-www-form-urlencoded
//	@Param			code	formData	string	true	"6 digit code"
//	@Param			flow	formData	string	false	"Flow correlation id"
//	@Success		302	"Redirect to /, /admin, /2fa/verify or /login"
//	@Failure		429	{string}	string	"Too many requests"
//	@Router			/2fa/verify [post]
func (h *AuthHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		fail(w, r, "/2fa/verify", "Invalid or expired code. Try again.")
		return
	}

	account, err := h.Auth.VerifyLogin(ctx, sessionFrom(ctx), r.PostFormValue("flow"), r.PostFormValue("code"))
	switch {
	case err == nil:
		succeed(w, r, homeFor(account), "Login successful!")
	case errors.Is(err, service.ErrNoFlow):
		redirect(w, r, "/login")
	case errors.Is(err, service.ErrNotFound):
		fail(w, r, "/login", "User not found")
	case errors.Is(err, service.ErrInvalidCode):
		fail(w, r, "/2fa/verify", "Invalid or expired code. Try again.")
	default:
		log.Error("totp verification failed", "error", err)
		fail(w, r, "/2fa/verify", genericError)
	}
}

// HandleRegisterForm godoc
//
//	@Summary		Registration form
//	@Description	Shows the sign up form with an optional 2FA secret and QR code.
//	@Tags			Auth
//	@Produce		html
//	@Success		200	{string}	string	"HTML page"
//	@Router			/register [get]
func (h *AuthHandler) HandleRegisterForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	challenge, err := h.Auth.RegistrationChallenge(ctx, sessionFrom(ctx))
	if err != nil {
		// The form still works without 2FA.
		log.Error("failed to issue registration secret", "error", err)
	}

	h.Views.render(w, r, "register", "Register", registerPage{Challenge: challenge})
}

// HandleRegister godoc
//
//	@Summary		Create an account
//	@Tags			Auth
//	@Accept			x-www-form-urlencoded
//	@Param			username	formData	string	true	"Username"
//	@Param			email		formData	string	true	"Email"
//	@Param			password	formData	string	true	"Password, at least 6 characters"
//	@Param			address		formData	string	true	"Address"
//	@Param			contact		formData	string	true	"Contact number"
//	@Param			enable2fa	formData	string	false	"on to enable 2FA"
//	@Param			code		formData	string	false	"TOTP code when enable2fa is on"
//	@Param			flow		formData	string	false	"Flow correlation id"
//	@Success		302	"Redirect to /login on success, /register on failure"
//	@Router			/register [post]
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	sess := sessionFrom(ctx)

	if err := r.ParseForm(); err != nil {
		fail(w, r, "/register", "All fields are required.")
		return
	}

	in := service.RegistrationInput{
		Username:  r.PostFormValue("username"),
		Email:     r.PostFormValue("email"),
		Password:  r.PostFormValue("password"),
		Address:   r.PostFormValue("address"),
		Contact:   r.PostFormValue("contact"),
		Enable2FA: r.PostFormValue("enable2fa") == "on",
		Code:      r.PostFormValue("code"),
		FlowID:    r.PostFormValue("flow"),
	}

	account, err := h.Auth.Register(ctx, sess, in)
	if err != nil {
		sess.SetFormData(in.FormData())
		switch {
		case errors.Is(err, service.ErrInvalidCode):
			fail(w, r, "/register", "Invalid 2FA code. Please try again.")
		default:
			if _, ok := service.ValidationMessage(err); !ok {
				log.Error("registration failed", "error", err)
			}
			fail(w, r, "/register", messageOr(err, "Registration failed. Email may already exist."))
		}
		return
	}

	if account.TwoFAEnabled {
		succeed(w, r, "/login", "Registration successful with 2FA enabled! Please log in.")
		return
	}
	succeed(w, r, "/login", "Registration successful! Please log in.")
}

// HandleLogout godoc
//
//	@Summary		Log out
//	@Tags			Auth
//	@Success		302	"Redirect to /"
//	@Router			/logout [get]
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := h.Auth.Logout(ctx, sessionFrom(ctx)); err != nil {
		log.Error("failed to destroy session", "error", err)
	}
	redirect(w, r, "/")
}
