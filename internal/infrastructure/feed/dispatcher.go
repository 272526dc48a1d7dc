package feed

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/tripsplit/expenses-system/internal/api/metrics"
	"github.com/tripsplit/expenses-system/internal/core/domain"
	"github.com/tripsplit/expenses-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes change events to a fixed set of workers using consistent
// hashing on the project id, guaranteeing per-project event ordering on the
// way to the publisher.
type Dispatcher struct {
	workers   []chan domain.ChangeEvent
	publisher ports.ChangePublisher
	log       zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, publisher ports.ChangePublisher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan domain.ChangeEvent, numWorkers),
		publisher: publisher,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ChangeEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an event to the worker responsible for its project.
// Non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(event domain.ChangeEvent) {
	idx := d.shardIndex(event.ProjectID)
	d.workers[idx] <- event
	metrics.FeedQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a project id deterministically to a worker index.
func (d *Dispatcher) shardIndex(projectID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(projectID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.ChangeEvent) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.FeedQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
			if err := d.publisher.Publish(ctx, event); err != nil {
				metrics.ChangeEventsDroppedTotal.WithLabelValues(string(event.Kind)).Inc()
				d.log.Error().Err(err).
					Str("project_id", event.ProjectID).
					Str("kind", string(event.Kind)).
					Int("worker_id", id).
					Msg("change event publish failed")
				continue
			}
			metrics.ChangeEventsPublishedTotal.WithLabelValues(string(event.Kind)).Inc()
		}
	}
}
