package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/pfes/joborder-api/internal/domain"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID   uuid.UUID
	Name     string
	Email    string
	UserType string
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

// HasAnyRole checks if the user's type is one of roles
func (u *UserContext) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if u.UserType == r {
			return true
		}
	}
	return false
}

// IsAdmin checks for the admin user type
func (u *UserContext) IsAdmin() bool {
	return u.UserType == domain.RoleAdmin
}

// Actor converts the user into the identity the access policy evaluates
func (u *UserContext) Actor() domain.Actor {
	return domain.Actor{ID: u.UserID, Role: u.UserType}
}
