package core

import "context"

type contextKey string

const ctxKeySessionID contextKey = "session_id"

// ContextWithSessionID tags ctx with the session a request is acting on.
func ContextWithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeySessionID, id)
}

// SessionIDFromContext returns the tagged session id, or "".
func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeySessionID).(string); ok {
		return v
	}
	return ""
}
