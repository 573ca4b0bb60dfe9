package riddle

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines persistence for riddles.
type Repository interface {
	Create(ctx context.Context, r *Riddle) error
	// UpdateContent rewrites question, remark, options and answer. It never
	// touches solved/winner state.
	UpdateContent(ctx context.Context, r *Riddle) error
	Delete(ctx context.Context, riddleID uuid.UUID) (bool, error)
	GetByID(ctx context.Context, riddleID uuid.UUID) (*Riddle, error)
	GetWithWinner(ctx context.Context, riddleID uuid.UUID) (*WithWinner, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*WithWinner, int, error)
	ListUnsolved(ctx context.Context, exclude []uuid.UUID, limit, offset int) ([]*Riddle, error)

	// MarkSolved is the winning transition: a single conditional write that
	// sets solved/winner only if the riddle is still unsolved. It returns
	// true when this call performed the transition and false when the riddle
	// was already solved (or does not exist).
	MarkSolved(ctx context.Context, riddleID, winnerID uuid.UUID, solvedAt time.Time) (bool, error)
}
