package auth

import "context"

type contextKey string

const userIDContextKey contextKey = "user_id"

// WithUserID stores the authenticated user id in the request context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// GetUserID returns the authenticated user id, if any.
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	return userID, ok
}
