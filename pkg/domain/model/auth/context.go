package auth

import (
	"context"

	"github.com/standup-lab/jirabot/pkg/domain/types"
)

type ctxKey struct{}

// WithUserID stores the authenticated user ID in the context.
func WithUserID(ctx context.Context, id types.UserID) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// UserIDFrom extracts the authenticated user ID, if any.
func UserIDFrom(ctx context.Context) (types.UserID, bool) {
	id, ok := ctx.Value(ctxKey{}).(types.UserID)
	return id, ok
}
