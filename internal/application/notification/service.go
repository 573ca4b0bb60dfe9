package notification

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lantern-hub/lantern/internal/domain/notification"
)

// Recorder receives broadcast results for metrics.
type Recorder interface {
	ObserveBroadcast(result string)
}

// Service fans riddle_solved events out to connected observers. With a relay
// configured, events go through the relay and each process delivers what it
// receives to its own hub.
type Service struct {
	sseHub   notification.SSEHub
	relay    notification.Relay
	recorder Recorder
	logger   zerolog.Logger
}

// NewService creates a notification service. relay and recorder may be nil.
func NewService(sseHub notification.SSEHub, relay notification.Relay, recorder Recorder, logger zerolog.Logger) *Service {
	return &Service{
		sseHub:   sseHub,
		relay:    relay,
		recorder: recorder,
		logger:   logger.With().Str("service", "notification").Logger(),
	}
}

// RiddleSolved publishes a confirmed win. When the relay fails or reports
// that nobody heard the event, it is delivered to the local hub instead.
// Having no connected observers is not an error.
func (s *Service) RiddleSolved(ctx context.Context, ev notification.RiddleSolved) error {
	if s.relay != nil {
		err := s.relay.Publish(ctx, ev)
		if err == nil {
			s.observe("relayed")
			return nil
		}
		s.logger.Warn().Err(err).Str("riddle_id", ev.RiddleID.String()).Msg("relay publish failed, delivering locally")
	}
	return s.Deliver(ev)
}

// Deliver broadcasts ev to every client registered with the local hub.
func (s *Service) Deliver(ev notification.RiddleSolved) error {
	msg, err := notification.NewRiddleSolvedMessage(ev)
	if err != nil {
		s.observe("failed")
		return fmt.Errorf("encode riddle solved: %w", err)
	}
	sent := s.sseHub.BroadcastToAll(msg)
	s.observe("delivered")
	s.logger.Debug().
		Str("riddle_id", ev.RiddleID.String()).
		Int("clients", sent).
		Msg("riddle solved broadcast")
	return nil
}

// Run consumes relayed events until ctx is done. It returns immediately when
// no relay is configured.
func (s *Service) Run(ctx context.Context) error {
	if s.relay == nil {
		return nil
	}
	return s.relay.Subscribe(ctx, func(ev notification.RiddleSolved) {
		if err := s.Deliver(ev); err != nil {
			s.logger.Warn().Err(err).Msg("failed to deliver relayed event")
		}
	})
}

func (s *Service) observe(result string) {
	if s.recorder != nil {
		s.recorder.ObserveBroadcast(result)
	}
}
