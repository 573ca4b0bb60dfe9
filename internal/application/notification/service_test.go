package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lantern-hub/lantern/internal/domain/notification"
	notificationMocks "github.com/lantern-hub/lantern/internal/domain/notification/mocks"
	"github.com/lantern-hub/lantern/internal/infrastructure/redisrelay"
)

type countingRecorder map[string]int

func (c countingRecorder) ObserveBroadcast(result string) { c[result]++ }

func testEvent() notification.RiddleSolved {
	return notification.RiddleSolved{
		RiddleID:     uuid.New(),
		WinnerID:     uuid.New(),
		WinnerName:   "Lily",
		WinnerAvatar: "/avatar/a.png",
		SolvedAt:     time.Date(2026, 2, 12, 20, 0, 0, 0, time.UTC),
	}
}

func TestService_RiddleSolved_LocalHub(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sseHub := notificationMocks.NewMockSSEHub(ctrl)
	rec := countingRecorder{}
	service := NewService(sseHub, nil, rec, zerolog.Nop())
	ev := testEvent()

	sseHub.EXPECT().
		BroadcastToAll(gomock.Any()).
		DoAndReturn(func(msg *notification.SSEMessage) int {
			assert.Equal(t, notification.EventRiddleSolved, msg.Event)
			var decoded notification.RiddleSolved
			require.NoError(t, json.Unmarshal(msg.Data, &decoded))
			assert.Equal(t, ev.RiddleID, decoded.RiddleID)
			assert.Equal(t, "Lily", decoded.WinnerName)
			return 3
		})

	require.NoError(t, service.RiddleSolved(context.Background(), ev))
	assert.Equal(t, 1, rec["delivered"])
}

func TestService_RiddleSolved_NoObservers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sseHub := notificationMocks.NewMockSSEHub(ctrl)
	service := NewService(sseHub, nil, nil, zerolog.Nop())

	sseHub.EXPECT().BroadcastToAll(gomock.Any()).Return(0)

	assert.NoError(t, service.RiddleSolved(context.Background(), testEvent()))
}

func TestService_RiddleSolved_Relay(t *testing.T) {
	t.Run("publishes through relay only", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		sseHub := notificationMocks.NewMockSSEHub(ctrl)
		relay := notificationMocks.NewMockRelay(ctrl)
		rec := countingRecorder{}
		service := NewService(sseHub, relay, rec, zerolog.Nop())
		ctx := context.Background()
		ev := testEvent()

		relay.EXPECT().Publish(ctx, ev).Return(nil)

		require.NoError(t, service.RiddleSolved(ctx, ev))
		assert.Equal(t, 1, rec["relayed"])
	})

	t.Run("falls back to local hub", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		sseHub := notificationMocks.NewMockSSEHub(ctrl)
		relay := notificationMocks.NewMockRelay(ctrl)
		service := NewService(sseHub, relay, nil, zerolog.Nop())
		ctx := context.Background()

		relay.EXPECT().Publish(ctx, gomock.Any()).Return(errors.New("redis down"))
		sseHub.EXPECT().BroadcastToAll(gomock.Any()).Return(1)

		require.NoError(t, service.RiddleSolved(ctx, testEvent()))
	})

	t.Run("falls back when nobody is subscribed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		sseHub := notificationMocks.NewMockSSEHub(ctrl)
		relay := notificationMocks.NewMockRelay(ctrl)
		rec := countingRecorder{}
		service := NewService(sseHub, relay, rec, zerolog.Nop())
		ctx := context.Background()

		relay.EXPECT().Publish(ctx, gomock.Any()).Return(redisrelay.ErrNoSubscribers)
		sseHub.EXPECT().BroadcastToAll(gomock.Any()).Return(2)

		require.NoError(t, service.RiddleSolved(ctx, testEvent()))
		assert.Zero(t, rec["relayed"])
		assert.Equal(t, 1, rec["delivered"])
	})
}

func TestService_Run(t *testing.T) {
	t.Run("without relay", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := NewService(notificationMocks.NewMockSSEHub(ctrl), nil, nil, zerolog.Nop())

		assert.NoError(t, service.Run(context.Background()))
	})

	t.Run("delivers relayed events", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		sseHub := notificationMocks.NewMockSSEHub(ctrl)
		relay := notificationMocks.NewMockRelay(ctrl)
		service := NewService(sseHub, relay, nil, zerolog.Nop())
		ctx := context.Background()
		ev := testEvent()

		relay.EXPECT().
			Subscribe(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, handle func(notification.RiddleSolved)) error {
				handle(ev)
				return nil
			})
		sseHub.EXPECT().BroadcastToAll(gomock.Any()).Return(2)

		assert.NoError(t, service.Run(ctx))
	})
}
