package model

import (
	"context"

	"github.com/trailhead-social/caravan/pkg/domain/types"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const actorContextKey contextKey = "actor"

// WithActor stores the acting user ID in the context. The ID arrives already
// resolved by the upstream auth layer; this service never authenticates.
func WithActor(ctx context.Context, user types.UserID) context.Context {
	if user == "" {
		return ctx
	}
	return context.WithValue(ctx, actorContextKey, user)
}

// ActorFromContext retrieves the acting user ID from the context
func ActorFromContext(ctx context.Context) (types.UserID, bool) {
	user, ok := ctx.Value(actorContextKey).(types.UserID)
	return user, ok
}
