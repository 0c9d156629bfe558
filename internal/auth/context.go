package auth

import (
	"context"

	"github.com/assetline/inventory-api/internal/domain"
	"github.com/google/uuid"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID     uuid.UUID
	Name       string
	Mobile     string
	LegacyRole domain.LegacyRole
	RoleID     *uuid.UUID
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// MustFromContext extracts user context or panics
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}

// IsAdmin reports whether the user carries the legacy admin tag.
// Relational role permissions are evaluated by the access control service.
func (u *UserContext) IsAdmin() bool {
	return u.LegacyRole == domain.LegacyRoleAdmin
}

// UserIDPtr returns the user ID as a pointer, for history attribution
func (u *UserContext) UserIDPtr() *uuid.UUID {
	id := u.UserID
	return &id
}
