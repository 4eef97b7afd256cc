package graphql

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contextKey string

const userIDKey contextKey = "currentUserID"

// WithUserID attaches the authenticated user's ID to the request context.
// The auth middleware calls this after validating the bearer token.
func WithUserID(ctx context.Context, id primitive.ObjectID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromContext returns the authenticated user's ID, if any.
func UserIDFromContext(ctx context.Context) (primitive.ObjectID, bool) {
	id, ok := ctx.Value(userIDKey).(primitive.ObjectID)
	return id, ok
}
