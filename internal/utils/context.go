package utils

import "context"

type ctxKey string

// userIDCtxKey is the context key under which the auth middleware stores the
// authenticated user's ID.
const userIDCtxKey ctxKey = "userID"

// WithUserID returns a copy of ctx carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

// UserIDFromContext extracts the authenticated user ID stored by the auth
// middleware. ok is false if no ID is present.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDCtxKey).(string)
	return userID, ok && userID != ""
}
