package ports

import (
	"context"

	"github.com/tripsplit/expenses-system/internal/core/domain"
)

// ChangePublisher delivers a change event to whatever transport carries it
// (Redis pub/sub in production).
type ChangePublisher interface {
	Publish(ctx context.Context, event domain.ChangeEvent) error
}

// ChangeSubscriber hands out live change streams for a project. The returned
// channel closes when ctx is cancelled; the cancel func releases the
// underlying subscription.
type ChangeSubscriber interface {
	Subscribe(ctx context.Context, projectID string) (<-chan domain.ChangeEvent, func(), error)
}

// ChangeFeed is the ingestion side used by services: mutations enqueue an
// event and never block on delivery.
type ChangeFeed interface {
	Enqueue(event domain.ChangeEvent)
}
