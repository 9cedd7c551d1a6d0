package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/fluffyfriend/internal/shop/domain"
	"github.com/aussiebroadwan/fluffyfriend/internal/shop/service"
)

const genericError = "Something went wrong. Please try again."

func flash(r *http.Request, kind domain.FlashKind, message string) {
	if sess := sessionFrom(r.Context()); sess != nil {
		sess.AddFlash(kind, message)
	}
}

func redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusFound)
}

// fail flashes message as an error and sends the visitor back to path.
func fail(w http.ResponseWriter, r *http.Request, path, message string) {
	flash(r, domain.FlashError, message)
	redirect(w, r, path)
}

// succeed flashes message and redirects to path.
func succeed(w http.ResponseWriter, r *http.Request, path, message string) {
	flash(r, domain.FlashSuccess, message)
	redirect(w, r, path)
}

// messageOr returns the validation message carried by err, or fallback.
func messageOr(err error, fallback string) string {
	if msg, ok := service.ValidationMessage(err); ok {
		return msg
	}
	return fallback
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// homeFor is where a freshly signed in account lands.
func homeFor(account domain.Account) string {
	if account.IsAdmin() {
		return "/admin"
	}
	return "/"
}

// mustAccount returns the signed in account. Routes using it sit behind
// RequireAuthenticated.
func mustAccount(r *http.Request) domain.Account {
	account, _ := accountFrom(r.Context())
	return account
}

func denyAnonymous() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fail(w, r, "/login", "Please log in first.")
	})
}

func denyNonAdmin() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fail(w, r, "/", "Access denied")
	})
}
