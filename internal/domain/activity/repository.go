package activity

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Repository

import "context"

// Repository persists the single activity window.
type Repository interface {
	// Get returns the window, or nil when none has been configured.
	Get(ctx context.Context) (*Window, error)
	// CreateIfAbsent inserts w only when no window exists yet and returns
	// whichever window is stored afterwards.
	CreateIfAbsent(ctx context.Context, w *Window) (*Window, error)
	// Save inserts or replaces the window.
	Save(ctx context.Context, w *Window) (*Window, error)
}
