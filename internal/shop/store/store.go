package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/fluffyfriend/internal/shop/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Drivers implement it and expose
// one sub-repository per table. A Tx-scoped Store refuses to open another
// transaction.
type Store interface {
	Accounts() Accounts
	Products() Products
	Cart() Cart
	Sessions() Sessions
	AuthFlows() AuthFlows

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	GetByID(ctx context.Context, id int64) (domain.Account, error)

	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (domain.Account, error)

	// List returns every account ordered by id.
	List(ctx context.Context) ([]domain.Account, error)

	// Create inserts a and returns the new id. A taken email yields
	// ErrAlreadyExists.
	Create(ctx context.Context, a domain.Account) (int64, error)

	// Update writes username, email, address, contact and role.
	Update(ctx context.Context, a domain.Account) error

	UpdatePasswordHash(ctx context.Context, id int64, hash string) error

	// EnableTwoFactor stores secret and flips twofa_enabled on.
	EnableTwoFactor(ctx context.Context, id int64, secret string) error

	// DisableTwoFactor flips twofa_enabled off and clears the secret.
	DisableTwoFactor(ctx context.Context, id int64) error

	// Delete cascades to the account's sessions and cart.
	Delete(ctx context.Context, id int64) error

	CountByRole(ctx context.Context, role domain.Role) (int, error)
}

type Products interface {
	GetByID(ctx context.Context, id int64) (domain.Product, error)

	// List returns products matching f ordered by id.
	List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error)

	// ListCategories returns the distinct categories in use, sorted.
	ListCategories(ctx context.Context) ([]string, error)

	Create(ctx context.Context, p domain.Product) (int64, error)
	Update(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type Cart interface {
	// AddOrIncrement inserts a cart row or adds qty to the existing row for
	// the same (account, product) pair in a single statement.
	AddOrIncrement(ctx context.Context, accountID, productID, qty, unitPriceCents int64) error

	// Remove deletes accountID's line for productID.
	Remove(ctx context.Context, accountID, productID int64) error

	Clear(ctx context.Context, accountID int64) error

	ListForAccount(ctx context.Context, accountID int64) ([]domain.CartLine, error)
}

type Sessions interface {
	// Get returns an unexpired session.
	Get(ctx context.Context, id string, now time.Time) (domain.Session, error)

	// Save inserts or replaces the session row.
	Save(ctx context.Context, s domain.Session) error

	// Delete also removes the session's auth flows.
	Delete(ctx context.Context, id string) error

	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type AuthFlows interface {
	// Put stores f, replacing the session's flow of the same kind. Flows of
	// other kinds are left alone.
	Put(ctx context.Context, f domain.AuthFlow) error

	// GetBySession returns the session's unexpired flow of kind.
	GetBySession(ctx context.Context, sessionID string, kind domain.FlowKind, now time.Time) (domain.AuthFlow, error)

	// IncrementAttempts bumps the failed attempt counter and returns the
	// new count.
	IncrementAttempts(ctx context.Context, id string) (int, error)

	DeleteBySession(ctx context.Context, sessionID string, kind domain.FlowKind) error

	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
