package notification

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . SSEHub,Relay

import "context"

// SSEHub defines the interface for managing SSE connections.
type SSEHub interface {
	Register(client *SSEClient)
	Unregister(clientID string)
	GetClientCount() int

	BroadcastToAll(message *SSEMessage) int
	SendToClient(clientID string, message *SSEMessage) error

	Stop()
}

// Relay fans riddle_solved events out to every server process. Each process
// delivers what it receives to its local hub. Publish fails when the event
// reached no subscriber; Subscribe blocks until ctx is done and re-establishes
// a lost subscription.
type Relay interface {
	Publish(ctx context.Context, ev RiddleSolved) error
	Subscribe(ctx context.Context, handle func(RiddleSolved)) error
	Close() error
}
