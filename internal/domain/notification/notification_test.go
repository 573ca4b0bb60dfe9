package notification

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSSEClient(t *testing.T) {
	userID := "user-1"
	c := NewSSEClient("client-1", &userID)

	assert.Equal(t, "client-1", c.ClientID)
	require.NotNil(t, c.UserID)
	assert.Equal(t, "user-1", *c.UserID)
	assert.Equal(t, clientBufferSize, cap(c.MessageChan))
	assert.False(t, c.ConnectedAt.IsZero())

	c.Close()
	_, ok := <-c.MessageChan
	assert.False(t, ok)
}

func TestNewRiddleSolvedMessage(t *testing.T) {
	ev := RiddleSolved{
		RiddleID:     uuid.New(),
		WinnerID:     uuid.New(),
		WinnerName:   "Lily",
		WinnerAvatar: "/avatar/2026/02/12/a.png",
		SolvedAt:     time.Date(2026, 2, 12, 20, 0, 0, 0, time.UTC),
	}

	msg, err := NewRiddleSolvedMessage(ev)

	require.NoError(t, err)
	assert.Equal(t, EventRiddleSolved, msg.Event)
	assert.NotEmpty(t, msg.ID)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Data, &decoded))
	assert.Equal(t, ev.RiddleID.String(), decoded["riddleId"])
	assert.Equal(t, "Lily", decoded["winnerName"])
	assert.Equal(t, "/avatar/2026/02/12/a.png", decoded["winnerAvatar"])
}

func TestNewConnectedMessage(t *testing.T) {
	c := NewSSEClient("client-7", nil)

	msg := NewConnectedMessage(c)

	assert.Equal(t, EventConnected, msg.Event)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Data, &body))
	assert.Equal(t, "client-7", body["clientId"])
	assert.NotEmpty(t, body["connectedAt"])
}
