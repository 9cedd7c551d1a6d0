package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/fluffyfriend/internal/shop/domain"
)

const accountColumns = `id, username, email, password_hash, address, contact, role,
	twofa_enabled, twofa_secret, created_at, updated_at`

type accountsRepo struct {
	db dbtx
}

func scanAccount(row scanner) (domain.Account, error) {
	var (
		a                    domain.Account
		role                 string
		secret               sql.NullString
		createdAt, updatedAt int64
	)
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Address, &a.Contact,
		&role, &a.TwoFAEnabled, &secret, &createdAt, &updatedAt)
	if err != nil {
		return domain.Account{}, err
	}

	a.Role = domain.Role(role)
	a.TwoFASecret = mapNullString(secret)
	a.CreatedAt = unixTime(createdAt)
	a.UpdatedAt = unixTime(updatedAt)
	return a, nil
}

func (r *accountsRepo) GetByID(ctx context.Context, id int64) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email)
	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) List(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *accountsRepo) Create(ctx context.Context, a domain.Account) (int64, error) {
	now := time.Now().Unix()

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (username, email, password_hash, address, contact, role,
			twofa_enabled, twofa_secret, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Username, a.Email, a.PasswordHash, a.Address, a.Contact, string(a.Role),
		a.TwoFAEnabled, mapStringNull(a.TwoFASecret), now, now,
	)
	if err != nil {
		return 0, mapConstraint(err)
	}
	return res.LastInsertId()
}

func (r *accountsRepo) Update(ctx context.Context, a domain.Account) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET username = ?, email = ?, address = ?, contact = ?, role = ?, updated_at = ?
		WHERE id = ?`,
		a.Username, a.Email, a.Address, a.Contact, string(a.Role), time.Now().Unix(), a.ID,
	)
	return mapConstraint(requireAffected(res, err))
}

func (r *accountsRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET password_hash = ?, updated_at = ? WHERE id = ?`,
		hash, time.Now().Unix(), id,
	)
	return requireAffected(res, err)
}

func (r *accountsRepo) EnableTwoFactor(ctx context.Context, id int64, secret string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET twofa_enabled = 1, twofa_secret = ?, updated_at = ? WHERE id = ?`,
		secret, time.Now().Unix(), id,
	)
	return requireAffected(res, err)
}

func (r *accountsRepo) DisableTwoFactor(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET twofa_enabled = 0, twofa_secret = NULL, updated_at = ? WHERE id = ?`,
		time.Now().Unix(), id,
	)
	return requireAffected(res, err)
}

func (r *accountsRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	return requireAffected(res, err)
}

func (r *accountsRepo) CountByRole(ctx context.Context, role domain.Role) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE role = ?`, string(role)).Scan(&n)
	return n, err
}
