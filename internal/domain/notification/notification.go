package notification

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	// EventRiddleSolved is the SSE event name emitted after a confirmed win.
	EventRiddleSolved = "riddle_solved"
	// EventConnected is sent once to each new stream.
	EventConnected = "connected"
)

const clientBufferSize = 100

var (
	ErrClientNotFound = errors.New("SSE client not found")
	ErrChannelFull    = errors.New("SSE message channel full")
)

// RiddleSolved is broadcast to every connected observer when a riddle is won.
type RiddleSolved struct {
	RiddleID     uuid.UUID `json:"riddleId"`
	WinnerID     uuid.UUID `json:"winnerId"`
	WinnerName   string    `json:"winnerName"`
	WinnerAvatar string    `json:"winnerAvatar"`
	SolvedAt     time.Time `json:"solvedAt"`
}

// SSEClient represents an active SSE connection.
type SSEClient struct {
	ClientID    string
	UserID      *string
	ConnectedAt time.Time
	MessageChan chan *SSEMessage
}

// NewSSEClient creates a new SSE client.
func NewSSEClient(clientID string, userID *string) *SSEClient {
	return &SSEClient{
		ClientID:    clientID,
		UserID:      userID,
		ConnectedAt: time.Now().UTC(),
		MessageChan: make(chan *SSEMessage, clientBufferSize),
	}
}

// Close closes the client's message channel.
func (c *SSEClient) Close() {
	close(c.MessageChan)
}

// SSEMessage represents a message to be sent via SSE.
type SSEMessage struct {
	ID        string          `json:"id"`
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewSSEMessage creates a new SSE message.
func NewSSEMessage(event string, data json.RawMessage) *SSEMessage {
	return &SSEMessage{
		ID:        uuid.New().String(),
		Event:     event,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// NewRiddleSolvedMessage encodes ev as a riddle_solved SSE message.
func NewRiddleSolvedMessage(ev RiddleSolved) (*SSEMessage, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return NewSSEMessage(EventRiddleSolved, data), nil
}

// NewConnectedMessage tells a freshly registered client its connection ID.
func NewConnectedMessage(c *SSEClient) *SSEMessage {
	data, _ := json.Marshal(map[string]interface{}{
		"clientId":    c.ClientID,
		"connectedAt": c.ConnectedAt,
	})
	return NewSSEMessage(EventConnected, data)
}
