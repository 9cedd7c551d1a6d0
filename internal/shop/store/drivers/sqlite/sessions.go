package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aussiebroadwan/fluffyfriend/internal/shop/domain"
)

type sessionsRepo struct {
	db dbtx
}

func (r *sessionsRepo) Get(ctx context.Context, id string, now time.Time) (domain.Session, error) {
	var (
		s                    domain.Session
		accountID            sql.NullInt64
		flashes              string
		formData             sql.NullString
		createdAt, expiresAt int64
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT id, account_id, flashes, form_data, created_at, expires_at
		FROM sessions
		WHERE id = ? AND expires_at > ?`, id, now.Unix(),
	).Scan(&s.ID, &accountID, &flashes, &formData, &createdAt, &expiresAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}

	if accountID.Valid {
		s.AccountID = accountID.Int64
	}
	if err := json.Unmarshal([]byte(flashes), &s.Flashes); err != nil {
		return domain.Session{}, fmt.Errorf("decode session flashes: %w", err)
	}
	if formData.Valid && formData.String != "" {
		if err := json.Unmarshal([]byte(formData.String), &s.FormData); err != nil {
			return domain.Session{}, fmt.Errorf("decode session form data: %w", err)
		}
	}
	s.CreatedAt = unixTime(createdAt)
	s.ExpiresAt = unixTime(expiresAt)

	return s, nil
}

func (r *sessionsRepo) Save(ctx context.Context, s domain.Session) error {
	flashes := s.Flashes
	if flashes == nil {
		flashes = []domain.Flash{}
	}
	flashJSON, err := json.Marshal(flashes)
	if err != nil {
		return fmt.Errorf("encode session flashes: %w", err)
	}

	var formData sql.NullString
	if len(s.FormData) > 0 {
		b, err := json.Marshal(s.FormData)
		if err != nil {
			return fmt.Errorf("encode session form data: %w", err)
		}
		formData = sql.NullString{String: string(b), Valid: true}
	}

	var accountID sql.NullInt64
	if s.AccountID != 0 {
		accountID = sql.NullInt64{Int64: s.AccountID, Valid: true}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, account_id, flashes, form_data, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			account_id = excluded.account_id,
			flashes    = excluded.flashes,
			form_data  = excluded.form_data,
			expires_at = excluded.expires_at`,
		s.ID, accountID, string(flashJSON), formData, s.CreatedAt.Unix(), s.ExpiresAt.Unix(),
	)
	return err
}

func (r *sessionsRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM auth_flows WHERE session_id = ?`, id); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

func (r *sessionsRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
