package httpapi

import (
	"context"

	"github.com/google/uuid"

	"github.com/lantern-hub/lantern/internal/domain/user"
)

type authContextKey string

const authUserKey authContextKey = "authUser"

// AuthUser represents the authenticated user in context.
type AuthUser struct {
	UserID    uuid.UUID
	Username  string
	Avatar    string
	Role      user.Role
	SessionID uuid.UUID
}

func (u AuthUser) IsAdmin() bool {
	return u.Role == user.RoleAdmin
}

func withAuthUser(ctx context.Context, u *AuthUser) context.Context {
	if u == nil {
		return ctx
	}
	return context.WithValue(ctx, authUserKey, u)
}

func authUserFromContext(ctx context.Context) *AuthUser {
	val := ctx.Value(authUserKey)
	if v, ok := val.(*AuthUser); ok {
		return v
	}
	return nil
}
