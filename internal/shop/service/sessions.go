package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/fluffyfriend/internal/shop/domain"
	"github.com/aussiebroadwan/fluffyfriend/internal/shop/store"
	"github.com/aussiebroadwan/fluffyfriend/pkg/cryptox"
	"github.com/aussiebroadwan/fluffyfriend/pkg/jwtx"
	"github.com/aussiebroadwan/fluffyfriend/pkg/slogx"
)

// Session is a visitor's session as seen by one request. Changes are held
// in memory until SessionService.Save.
type Session struct {
	domain.Session

	// Token is the raw value carried in the cookie. ID is its fingerprint.
	Token string

	isNew       bool
	dirty       bool
	destroyed   bool
	rotatedFrom string
}

func (s *Session) IsNew() bool     { return s.isNew }
func (s *Session) Dirty() bool     { return s.dirty }
func (s *Session) Destroyed() bool { return s.destroyed }

// Touch marks the session for saving even though no field changed, e.g.
// because an auth flow now hangs off its id.
func (s *Session) Touch() { s.dirty = true }

func (s *Session) AddFlash(kind domain.FlashKind, message string) {
	s.Flashes = append(s.Flashes, domain.Flash{Kind: kind, Message: message})
	s.dirty = true
}

// TakeFlashes returns pending flashes and clears them.
func (s *Session) TakeFlashes() []domain.Flash {
	out := s.Flashes
	if len(out) > 0 {
		s.Flashes = nil
		s.dirty = true
	}
	return out
}

func (s *Session) SetFormData(data map[string]string) {
	s.FormData = data
	s.dirty = true
}

// TakeFormData returns the saved form values once, or nil.
func (s *Session) TakeFormData() map[string]string {
	out := s.FormData
	if out != nil {
		s.FormData = nil
		s.dirty = true
	}
	return out
}

func (s *Session) setAccount(id int64) {
	s.AccountID = id
	s.dirty = true
}

// SessionService loads, saves and rotates sessions.
type SessionService struct {
	Store store.Store
	TTL   time.Duration
	Now   func() time.Time
}

func (s *SessionService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL <= 0 {
		return jwtx.DefaultSessionTTL
	}
	return s.TTL
}

// Load returns the live session for token, or a fresh unsaved session when
// token is empty, unknown, or expired.
func (s *SessionService) Load(ctx context.Context, token string) (*Session, error) {
	if token != "" {
		stored, err := s.Store.Sessions().Get(ctx, cryptox.SessionID(token), s.now())
		switch {
		case err == nil:
			return &Session{Session: stored, Token: token}, nil
		case !errors.Is(err, store.ErrNotFound):
			slogx.FromContext(ctx).Warn("failed to load session, starting a new one", "error", err)
		}
	}
	return s.newSession()
}

func (s *SessionService) newSession() (*Session, error) {
	token, err := cryptox.NewSessionToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	now := s.now()
	return &Session{
		Session: domain.Session{
			ID:        cryptox.SessionID(token),
			CreatedAt: now,
			ExpiresAt: now.Add(s.ttl()),
		},
		Token: token,
		isNew: true,
	}, nil
}

// Rotate gives sess a new token and id. The old row is removed on the
// next Save. Call it whenever the session's privilege changes.
func (s *SessionService) Rotate(sess *Session) error {
	fresh, err := s.newSession()
	if err != nil {
		return err
	}

	if !sess.isNew && sess.rotatedFrom == "" {
		sess.rotatedFrom = sess.ID
	}
	sess.ID = fresh.ID
	sess.Token = fresh.Token
	sess.CreatedAt = fresh.CreatedAt
	sess.ExpiresAt = fresh.ExpiresAt
	sess.dirty = true
	return nil
}

// Save persists sess if anything changed. Destroyed sessions are skipped.
func (s *SessionService) Save(ctx context.Context, sess *Session) error {
	if sess.destroyed || !sess.dirty {
		return nil
	}

	if sess.rotatedFrom != "" {
		if err := s.Store.Sessions().Delete(ctx, sess.rotatedFrom); err != nil {
			return persistence("delete rotated session", err)
		}
		sess.rotatedFrom = ""
	}

	if err := s.Store.Sessions().Save(ctx, sess.Session); err != nil {
		return persistence("save session", err)
	}

	sess.dirty = false
	sess.isNew = false
	return nil
}

// Destroy deletes the session and any flow it holds.
func (s *SessionService) Destroy(ctx context.Context, sess *Session) error {
	for _, id := range []string{sess.rotatedFrom, sess.ID} {
		if id == "" {
			continue
		}
		if err := s.Store.Sessions().Delete(ctx, id); err != nil {
			return persistence("delete session", err)
		}
	}

	sess.destroyed = true
	sess.AccountID = 0
	sess.Flashes = nil
	sess.FormData = nil
	return nil
}
