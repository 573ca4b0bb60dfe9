package redisrelay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
	"github.com/rs/zerolog"

	"github.com/lantern-hub/lantern/internal/domain/notification"
)

// ErrNoSubscribers is returned by Publish when no process was listening on
// the channel, so the event reached nobody.
var ErrNoSubscribers = errors.New("no relay subscribers")

const (
	minResubscribeDelay = 500 * time.Millisecond
	maxResubscribeDelay = 30 * time.Second
)

// Relay publishes riddle_solved events on a redis channel and hands every
// event received on that channel to a local handler.
type Relay struct {
	client   *redis.Client
	channel  string
	minDelay time.Duration
	maxDelay time.Duration
	logger   zerolog.Logger
}

// New connects to redisURL and verifies the connection.
func New(ctx context.Context, redisURL, channel string, logger zerolog.Logger) (*Relay, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opts.MaintNotificationsConfig = &maintnotifications.Config{
		Mode: maintnotifications.ModeDisabled,
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return newRelay(client, channel, logger), nil
}

func newRelay(client *redis.Client, channel string, logger zerolog.Logger) *Relay {
	return &Relay{
		client:   client,
		channel:  channel,
		minDelay: minResubscribeDelay,
		maxDelay: maxResubscribeDelay,
		logger:   logger.With().Str("component", "redisrelay").Str("channel", channel).Logger(),
	}
}

// Publish sends ev to every subscribed process. It returns ErrNoSubscribers
// when redis accepted the message but nobody received it.
func (r *Relay) Publish(ctx context.Context, ev notification.RiddleSolved) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	receivers, err := r.client.Publish(ctx, r.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("failed to publish to Redis: %w", err)
	}
	if receivers == 0 {
		return ErrNoSubscribers
	}
	return nil
}

// Subscribe blocks, calling handle for each event, until ctx is done. A
// failed or dropped subscription is retried with exponential backoff.
func (r *Relay) Subscribe(ctx context.Context, handle func(notification.RiddleSolved)) error {
	delay := r.minDelay
	for {
		err := r.listen(ctx, handle)
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			// the subscription was up; start the backoff over
			delay = r.minDelay
		} else {
			r.logger.Warn().Err(err).Dur("retry_in", delay).Msg("relay subscription failed")
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
		if err != nil {
			delay = min(delay*2, r.maxDelay)
		}
	}
}

// listen runs one subscription. It returns nil once the subscription has
// been confirmed and later ends, or the error that prevented it.
func (r *Relay) listen(ctx context.Context, handle func(notification.RiddleSolved)) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	r.logger.Info().Msg("subscribed")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			ev, err := decodeEvent(msg.Payload)
			if err != nil {
				r.logger.Warn().Err(err).Msg("dropping malformed event")
				continue
			}
			handle(ev)
		}
	}
}

func (r *Relay) Close() error {
	return r.client.Close()
}

func decodeEvent(payload string) (notification.RiddleSolved, error) {
	var ev notification.RiddleSolved
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return ev, err
	}
	return ev, nil
}
