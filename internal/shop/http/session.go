package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/aussiebroadwan/fluffyfriend/internal/shop/domain"
	"github.com/aussiebroadwan/fluffyfriend/internal/shop/service"
	"github.com/aussiebroadwan/fluffyfriend/pkg/httpx"
	"github.com/aussiebroadwan/fluffyfriend/pkg/jwtx"
	"github.com/aussiebroadwan/fluffyfriend/pkg/slogx"
)

const sessionCookieName = "fluffyfriend_session"

type ctxKey int

const (
	ctxKeySession ctxKey = iota
	ctxKeyAccount
)

func sessionFrom(ctx context.Context) *service.Session {
	sess, _ := ctx.Value(ctxKeySession).(*service.Session)
	return sess
}

func accountFrom(ctx context.Context) (domain.Account, bool) {
	account, ok := ctx.Value(ctxKeyAccount).(domain.Account)
	return account, ok
}

// SessionMiddleware loads the visitor's session from the cookie, resolves
// the signed in account and saves the session before the response starts.
type SessionMiddleware struct {
	Sessions *service.SessionService
	Auth     *service.AuthService
	Cookies  *jwtx.CookieCodec
	Secure   bool
}

func (m *SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := slogx.FromContext(ctx)

		sess, err := m.Sessions.Load(ctx, m.readCookie(r))
		if err != nil {
			log.Error("failed to start session", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		ctx = context.WithValue(ctx, ctxKeySession, sess)

		account, ok, err := m.Auth.CurrentAccount(ctx, sess)
		if err != nil {
			log.Error("failed to load current account", "error", err)
		}
		if ok {
			id := strconv.FormatInt(account.ID, 10)
			ctx = context.WithValue(ctx, ctxKeyAccount, account)
			ctx = httpx.WithPrincipal(ctx, id, string(account.Role))
			ctx = slogx.WithAccount(ctx, account.ID)
		}

		sw := &sessionWriter{ResponseWriter: w}
		sw.commit = func() { m.commit(ctx, w, sess) }

		next.ServeHTTP(sw, r.WithContext(ctx))
		sw.flush()
	})
}

func (m *SessionMiddleware) readCookie(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}

	token, err := m.Cookies.Decode(cookie.Value)
	if err != nil {
		slogx.FromContext(r.Context()).Debug("ignoring session cookie", "error", err)
		return ""
	}
	return token
}

// commit persists sess and writes the matching Set-Cookie header. It runs
// once, before the status line goes out.
func (m *SessionMiddleware) commit(ctx context.Context, w http.ResponseWriter, sess *service.Session) {
	log := slogx.FromContext(ctx)

	if sess.Destroyed() {
		http.SetCookie(w, m.cookie("", -1))
		return
	}
	if !sess.Dirty() {
		return
	}

	if err := m.Sessions.Save(ctx, sess); err != nil {
		log.Error("failed to save session", "error", err)
		return
	}

	value, err := m.Cookies.Encode(sess.Token, sess.ExpiresAt)
	if err != nil {
		log.Error("failed to sign session cookie", "error", err)
		return
	}

	maxAge := int(time.Until(sess.ExpiresAt).Seconds())
	http.SetCookie(w, m.cookie(value, max(maxAge, 1)))
}

func (m *SessionMiddleware) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// sessionWriter runs commit before the first header or body write.
type sessionWriter struct {
	http.ResponseWriter
	commit    func()
	committed bool
}

func (w *sessionWriter) flush() {
	if w.committed {
		return
	}
	w.committed = true
	w.commit()
}

func (w *sessionWriter) WriteHeader(code int) {
	w.flush()
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.flush()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
