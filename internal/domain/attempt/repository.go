package attempt

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Repository

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the attempt ledger.
type Repository interface {
	// Record inserts the attempt unless one already exists for the same
	// (user, riddle) pair. The store's uniqueness constraint decides; no
	// prior read is involved.
	Record(ctx context.Context, a *Attempt) (RecordResult, error)
	// ListForUser returns the user's attempts, most recent first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*Record, error)
	// Get returns the recorded attempt for the pair, or nil when none exists.
	Get(ctx context.Context, userID, riddleID uuid.UUID) (*Attempt, error)
}
