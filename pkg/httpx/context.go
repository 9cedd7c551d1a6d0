package httpx

import "context"

type ctxKey string

const (
	CtxKeyAccountID ctxKey = "account_id"
	CtxKeyRole      ctxKey = "role"
)

// WithPrincipal records the authenticated account for downstream middleware
// (role gates, per-account rate limits).
func WithPrincipal(ctx context.Context, accountID, role string) context.Context {
	ctx = context.WithValue(ctx, CtxKeyAccountID, accountID)
	return context.WithValue(ctx, CtxKeyRole, role)
}

// AccountIDFromContext returns the principal's account id or "".
func AccountIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyAccountID).(string); ok {
		return v
	}
	return ""
}

func roleFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyRole).(string); ok {
		return v
	}
	return ""
}
