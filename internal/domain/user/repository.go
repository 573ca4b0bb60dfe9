package user

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Repository

import (
	"context"

	"github.com/google/uuid"
)

// Filter controls user listing.
type Filter struct {
	Role    *Role
	Keyword *string
}

// Repository defines persistence for users.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	// GetAdminByUsername looks up an ADMIN account by its login name.
	GetAdminByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*User, int, error)
	// DeleteParticipant removes a participant who has not won any riddle,
	// together with their attempts and sessions. It reports whether a row
	// was deleted.
	DeleteParticipant(ctx context.Context, userID uuid.UUID) (bool, error)
}
