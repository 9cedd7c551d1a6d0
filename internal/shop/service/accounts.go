package service

import (
	"context"
	"errors"
	"strings"

	"github.com/aussiebroadwan/fluffyfriend/internal/shop/domain"
	"github.com/aussiebroadwan/fluffyfriend/internal/shop/store"
	"github.com/aussiebroadwan/fluffyfriend/pkg/cryptox"
	"github.com/aussiebroadwan/fluffyfriend/pkg/slogx"
)

// AccountInput is the admin user form. Password is optional on update.
type AccountInput struct {
	Username string
	Email    string
	Password string
	Address  string
	Contact  string
	Role     string
}

func (in *AccountInput) normalise() {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Address = strings.TrimSpace(in.Address)
	in.Contact = strings.TrimSpace(in.Contact)
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
}

func (in AccountInput) profileComplete() bool {
	return in.Username != "" && in.Email != "" && in.Address != "" && in.Contact != "" && in.Role != ""
}

// Stats feeds the admin dashboard.
type Stats struct {
	Users    int
	Admins   int
	Products int
}

// AccountService is the admin side of account management.
type AccountService struct {
	Store store.Store
}

func (s *AccountService) List(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.Store.Accounts().List(ctx)
	if err != nil {
		return nil, persistence("list accounts", err)
	}
	return accounts, nil
}

func (s *AccountService) Get(ctx context.Context, id int64) (domain.Account, error) {
	account, err := s.Store.Accounts().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrNotFound
		}
		return domain.Account{}, persistence("load account", err)
	}
	return account, nil
}

func (s *AccountService) Create(ctx context.Context, in AccountInput) (domain.Account, error) {
	in.normalise()
	if !in.profileComplete() || in.Password == "" {
		return domain.Account{}, invalid("All fields are required.")
	}

	role := domain.Role(in.Role)
	if !role.Valid() {
		return domain.Account{}, invalid("Invalid role.")
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.Account{}, err
	}

	account := domain.Account{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Address:      in.Address,
		Contact:      in.Contact,
		Role:         role,
	}

	id, err := s.Store.Accounts().Create(ctx, account)
	if err != nil {
		return domain.Account{}, persistence("create account", err)
	}
	account.ID = id

	slogx.FromContext(ctx).Info("account created by admin", "account_id", id, "role", role)
	return account, nil
}

// Update rewrites the profile and, when in.Password is set, the password.
// It reports whether the password changed.
func (s *AccountService) Update(ctx context.Context, id int64, in AccountInput) (bool, error) {
	in.normalise()
	if !in.profileComplete() {
		return false, invalid("Missing required fields.")
	}

	role := domain.Role(in.Role)
	if !role.Valid() {
		return false, invalid("Invalid role.")
	}

	var hash string
	if in.Password != "" {
		h, err := cryptox.HashPassword(in.Password)
		if err != nil {
			return false, err
		}
		hash = h
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		account, err := tx.Accounts().GetByID(ctx, id)
		if err != nil {
			return err
		}

		account.Username = in.Username
		account.Email = in.Email
		account.Address = in.Address
		account.Contact = in.Contact
		account.Role = role

		if err := tx.Accounts().Update(ctx, account); err != nil {
			return err
		}
		if hash != "" {
			return tx.Accounts().UpdatePasswordHash(ctx, id, hash)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, ErrNotFound
		}
		return false, persistence("update account", err)
	}

	slogx.FromContext(ctx).Info("account updated by admin", "account_id", id, "password_changed", hash != "")
	return hash != "", nil
}

// Delete removes account id. Admins cannot delete themselves.
func (s *AccountService) Delete(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return invalid("You cannot delete your own account.")
	}

	if err := s.Store.Accounts().Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return persistence("delete account", err)
	}

	slogx.FromContext(ctx).Info("account deleted by admin", "account_id", id, "actor_id", actorID)
	return nil
}

func (s *AccountService) Stats(ctx context.Context) (Stats, error) {
	var st Stats

	users, err := s.Store.Accounts().CountByRole(ctx, domain.RoleUser)
	if err != nil {
		return Stats{}, persistence("count users", err)
	}
	admins, err := s.Store.Accounts().CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return Stats{}, persistence("count admins", err)
	}
	products, err := s.Store.Products().Count(ctx)
	if err != nil {
		return Stats{}, persistence("count products", err)
	}

	st.Users = users + admins
	st.Admins = admins
	st.Products = products
	return st, nil
}
