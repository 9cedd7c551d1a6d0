package slogx

import (
	"context"
	"log/slog"
	"strconv"
)

type ctxKey struct{}

// WithContext stores logger in ctx for FromContext.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the request scoped logger, or slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

func WithRequestID(ctx context.Context, reqID string) context.Context {
	return WithContext(ctx, FromContext(ctx).With("req_id", reqID))
}

// WithAccount tags every later log line of the request with the signed in
// account.
func WithAccount(ctx context.Context, accountID int64) context.Context {
	return WithContext(ctx, FromContext(ctx).With("account_id", strconv.FormatInt(accountID, 10)))
}
