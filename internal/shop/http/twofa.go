package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/fluffyfriend/internal/shop/service"
	"github.com/aussiebroadwan/fluffyfriend/pkg/httpx"
	"github.com/aussiebroadwan/fluffyfriend/pkg/slogx"
)

// TwoFAHandler lets a signed in account turn TOTP on and off.
type TwoFAHandler struct {
	Auth  *service.AuthService
	Views *Views
}

type setupPage struct {
	Enabled   bool
	Challenge service.Challenge
}

// HandleSetupForm godoc
//
//	@Summary		2FA setup page
//	@Description	Issues a fresh secret and shows its QR code. Accounts with 2FA on see the disable form instead.
//	@Tags			2FA
//	@Produce		html
//	@Success		200	{string}	string	"HTML page"
//	@Success		302	"Redirect to /login when not signed in"
//	@Router			/2fa/setup [get]
func (h *TwoFAHandler) HandleSetupForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	account := mustAccount(r)

	if account.TwoFAEnabled {
		h.Views.render(w, r, "setup", "Two-factor authentication", setupPage{Enabled: true})
		return
	}

	challenge, err := h.Auth.BeginSetup(ctx, sessionFrom(ctx), account)
	if err != nil {
		log.Error("failed to begin 2fa setup", "error", err)
		fail(w, r, "/", genericError)
		return
	}

	// The page carries the secret in clear.
	httpx.NoCache(w)
	h.Views.render(w, r, "setup", "Two-factor authentication", setupPage{Challenge: challenge})
}

// HandleSetup godoc
//
//	@Summary		Confirm 2FA setup
//	@Tags			2FA
//	@Accept			x-www-form-urlencoded
//	@Param			code	formData	string	true	"6 digit code"
//	@Param			flow	formData	string	false	"Flow correlation id"
//	@Success		302	"Redirect to / when enabled, /2fa/setup otherwise"
//	@Failure		429	{string}	string	"Too many requests"
//	@Router			/2fa/setup [post]
func (h *TwoFAHandler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		fail(w, r, "/2fa/setup", "Invalid code, try again.")
		return
	}

	err := h.Auth.ConfirmSetup(ctx, sessionFrom(ctx), mustAccount(r), r.PostFormValue("flow"), r.PostFormValue("code"))
	switch {
	case err == nil:
		succeed(w, r, "/", "2FA enabled!")
	case errors.Is(err, service.ErrInvalidCode):
		fail(w, r, "/2fa/setup", "Invalid code, try again.")
	case errors.Is(err, service.ErrNoFlow):
		fail(w, r, "/2fa/setup", "2FA secret missing")
	default:
		log.Error("failed to enable 2fa", "error", err)
		fail(w, r, "/2fa/setup", genericError)
	}
}

// HandleDisable godoc
//
//	@Summary		Turn 2FA off
//	@Tags			2FA
//	@Accept			x-www-form-urlencoded
//	@Param			code	formData	string	true	"Current 6 digit code"
//	@Success		302	"Redirect to / when disabled, /2fa/setup otherwise"
//	@Failure		429	{string}	string	"Too many requests"
//	@Router			/2fa/disable [post]
func (h *TwoFAHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		fail(w, r, "/2fa/setup", "Invalid code, try again.")
		return
	}

	err := h.Auth.DisableTwoFactor(ctx, mustAccount(r), r.PostFormValue("code"))
	switch {
	case err == nil:
		succeed(w, r, "/", "2FA disabled.")
	case errors.Is(err, service.ErrInvalidCode):
		fail(w, r, "/2fa/setup", "Invalid code, try again.")
	default:
		if _, ok := service.ValidationMessage(err); !ok {
			log.Error("failed to disable 2fa", "error", err)
		}
		fail(w, r, "/2fa/setup", messageOr(err, genericError))
	}
}
