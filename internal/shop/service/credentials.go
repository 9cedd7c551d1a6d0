package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/aussiebroadwan/fluffyfriend/internal/shop/domain"
	"github.com/aussiebroadwan/fluffyfriend/internal/shop/store"
	"github.com/aussiebroadwan/fluffyfriend/pkg/cryptox"
	"github.com/aussiebroadwan/fluffyfriend/pkg/slogx"
)

// CredentialVerifier checks an email and password against stored hashes.
type CredentialVerifier struct {
	Store store.Store

	dummyOnce sync.Once
	dummyHash string
}

// Verify returns the account for email if password matches. An unknown
// email and a wrong password both yield ErrInvalidCredentials, and both pay
// for one hash comparison. Legacy SHA-1 hashes are re-hashed with argon2id
// on success.
func (v *CredentialVerifier) Verify(ctx context.Context, email, password string) (domain.Account, error) {
	log := slogx.FromContext(ctx)

	account, err := v.Store.Accounts().GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = cryptox.VerifyPassword(password, v.dummy())
			return domain.Account{}, ErrInvalidCredentials
		}
		return domain.Account{}, persistence("load account", err)
	}

	if err := cryptox.VerifyPassword(password, account.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Error("stored password hash unreadable", "account_id", account.ID, "error", err)
		}
		return domain.Account{}, ErrInvalidCredentials
	}

	if cryptox.IsLegacyHash(account.PasswordHash) {
		v.upgradeHash(ctx, &account, password)
	}

	return account, nil
}

// upgradeHash replaces a legacy hash. Failure only costs the upgrade.
func (v *CredentialVerifier) upgradeHash(ctx context.Context, account *domain.Account, password string) {
	log := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Warn("failed to re-hash legacy password", "account_id", account.ID, "error", err)
		return
	}
	if err := v.Store.Accounts().UpdatePasswordHash(ctx, account.ID, hash); err != nil {
		log.Warn("failed to store upgraded password hash", "account_id", account.ID, "error", err)
		return
	}

	account.PasswordHash = hash
	log.Info("upgraded legacy password hash", "account_id", account.ID)
}

func (v *CredentialVerifier) dummy() string {
	v.dummyOnce.Do(func() {
		v.dummyHash, _ = cryptox.HashPassword("not-a-real-password")
	})
	return v.dummyHash
}
