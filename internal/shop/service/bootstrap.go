package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/fluffyfriend/internal/shop/domain"
	"github.com/aussiebroadwan/fluffyfriend/internal/shop/store"
	"github.com/aussiebroadwan/fluffyfriend/pkg/cryptox"
	"github.com/aussiebroadwan/fluffyfriend/pkg/slogx"
)

var ErrBootstrapIncomplete = errors.New("admin bootstrap needs both an email and a password")

// BootstrapAdmin is the first administrator, taken from configuration.
type BootstrapAdmin struct {
	Email    string
	Username string
	Password string
}

type BootstrapService struct {
	Store store.Store
}

// EnsureAdmin creates admin when the shop has no administrator yet. It
// reports whether an account was created. An empty admin is a no-op.
func (s *BootstrapService) EnsureAdmin(ctx context.Context, admin BootstrapAdmin) (bool, error) {
	l := slogx.FromContext(ctx)

	admin.Email = strings.TrimSpace(admin.Email)
	admin.Username = strings.TrimSpace(admin.Username)
	if admin.Email == "" && admin.Password == "" {
		return false, nil
	}
	if admin.Email == "" || admin.Password == "" {
		return false, ErrBootstrapIncomplete
	}
	if admin.Username == "" {
		admin.Username = "admin"
	}

	admins, err := s.Store.Accounts().CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return false, persistence("count admins", err)
	}
	if admins > 0 {
		l.Debug("admin bootstrap skipped, an admin already exists")
		return false, nil
	}

	hash, err := cryptox.HashPassword(admin.Password)
	if err != nil {
		return false, err
	}

	id, err := s.Store.Accounts().Create(ctx, domain.Account{
		Username:     admin.Username,
		Email:        admin.Email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	})
	if err != nil {
		return false, persistence("create admin", err)
	}

	l.Info("bootstrapped admin account", slog.Int64("account_id", id), slog.String("email", admin.Email))
	return true, nil
}
