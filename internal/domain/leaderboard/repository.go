package leaderboard

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Repository

import "context"

// Repository reads winners from the riddle and user tables.
type Repository interface {
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Entry, int, error)
	ListAll(ctx context.Context, filter Filter) ([]*Entry, error)
	// Standings orders participants by wins, then by earliest last win.
	Standings(ctx context.Context, limit int) ([]*Standing, error)
}
