package handler

import (
	"context"

	"github.com/liftlog/liftlog-go/internal/core/domain"
)

type contextKey struct{}

var userKey contextKey

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated user, or nil on public routes.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userKey).(*domain.User)
	return user
}
