package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aussiebroadwan/fluffyfriend/internal/shop/domain"
	"github.com/aussiebroadwan/fluffyfriend/pkg/idx"
)

type authFlowsRepo struct {
	db dbtx
}

func encodeFlowPayload(f domain.AuthFlow) (string, error) {
	var v any
	switch f.Kind {
	case domain.FlowPendingAuth:
		if f.Pending == nil {
			return "", fmt.Errorf("flow %s: missing pending auth payload", f.Kind)
		}
		v = f.Pending
	case domain.FlowEnrollment, domain.FlowRegistration:
		if f.Enrollment == nil {
			return "", fmt.Errorf("flow %s: missing enrollment payload", f.Kind)
		}
		v = f.Enrollment
	default:
		return "", fmt.Errorf("unknown flow kind %q", f.Kind)
	}

	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeFlowPayload(f *domain.AuthFlow, payload string) error {
	switch f.Kind {
	case domain.FlowPendingAuth:
		f.Pending = &domain.PendingAuth{}
		return json.Unmarshal([]byte(payload), f.Pending)
	case domain.FlowEnrollment, domain.FlowRegistration:
		f.Enrollment = &domain.EnrollmentSecret{}
		return json.Unmarshal([]byte(payload), f.Enrollment)
	default:
		return fmt.Errorf("unknown flow kind %q", f.Kind)
	}
}

func (r *authFlowsRepo) Put(ctx context.Context, f domain.AuthFlow) error {
	payload, err := encodeFlowPayload(f)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO auth_flows (id, session_id, kind, payload, attempts, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (session_id, kind) DO UPDATE SET
			id         = excluded.id,
			payload    = excluded.payload,
			attempts   = excluded.attempts,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at`,
		f.ID.String(), f.SessionID, string(f.Kind), payload, f.Attempts,
		f.CreatedAt.Unix(), f.ExpiresAt.Unix(),
	)
	return mapConstraint(err)
}

func (r *authFlowsRepo) GetBySession(
	ctx context.Context,
	sessionID string,
	kind domain.FlowKind,
	now time.Time,
) (domain.AuthFlow, error) {
	var (
		f                    domain.AuthFlow
		id, payload          string
		createdAt, expiresAt int64
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT id, session_id, payload, attempts, created_at, expires_at
		FROM auth_flows
		WHERE session_id = ? AND kind = ? AND expires_at > ?`, sessionID, string(kind), now.Unix(),
	).Scan(&id, &f.SessionID, &payload, &f.Attempts, &createdAt, &expiresAt)
	if err != nil {
		return domain.AuthFlow{}, mapNotFound(err)
	}

	f.ID = idx.ID(id)
	f.Kind = kind
	f.CreatedAt = unixTime(createdAt)
	f.ExpiresAt = unixTime(expiresAt)

	if err := decodeFlowPayload(&f, payload); err != nil {
		return domain.AuthFlow{}, fmt.Errorf("decode flow payload: %w", err)
	}
	return f, nil
}

func (r *authFlowsRepo) IncrementAttempts(ctx context.Context, id string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`UPDATE auth_flows SET attempts = attempts + 1 WHERE id = ? RETURNING attempts`, id,
	).Scan(&n)
	if err != nil {
		return 0, mapNotFound(err)
	}
	return n, nil
}

func (r *authFlowsRepo) DeleteBySession(ctx context.Context, sessionID string, kind domain.FlowKind) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM auth_flows WHERE session_id = ? AND kind = ?`, sessionID, string(kind))
	return err
}

func (r *authFlowsRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM auth_flows WHERE expires_at <= ?`, now.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
