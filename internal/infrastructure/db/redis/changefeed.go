package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tripsplit/expenses-system/internal/core/domain"
)

const subscribeBuffer = 16

// ChangeFeed carries project change events over Redis pub/sub, one channel
// per project. It implements both ports.ChangePublisher and
// ports.ChangeSubscriber.
type ChangeFeed struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewChangeFeed creates a ChangeFeed wrapping the given Redis client.
func NewChangeFeed(client *redis.Client, log zerolog.Logger) *ChangeFeed {
	return &ChangeFeed{client: client, log: log}
}

// Publish sends a change event to the project's channel.
func (f *ChangeFeed) Publish(ctx context.Context, event domain.ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	if err := f.client.Publish(ctx, channelFor(event.ProjectID), payload).Err(); err != nil {
		return fmt.Errorf("publish change event: %w", err)
	}
	return nil
}

// Subscribe returns a channel of change events for the project. The channel
// closes when ctx is cancelled or the subscription drops; cancel releases
// the underlying Redis subscription.
func (f *ChangeFeed) Subscribe(ctx context.Context, projectID string) (<-chan domain.ChangeEvent, func(), error) {
	sub := f.client.Subscribe(ctx, channelFor(projectID))
	// force the subscription handshake so errors surface here, not mid-stream
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe %s: %w", projectID, err)
	}

	events := make(chan domain.ChangeEvent, subscribeBuffer)
	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				var event domain.ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					f.log.Warn().Err(err).Str("project_id", projectID).Msg("dropping malformed change event")
					continue
				}
				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	cancel := func() { _ = sub.Close() }
	return events, cancel, nil
}

func channelFor(projectID string) string {
	return fmt.Sprintf("project:%s:events", projectID)
}
