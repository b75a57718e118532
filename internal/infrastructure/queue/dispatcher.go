package queue

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hdfops/field-console/internal/api/metrics"
	"github.com/hdfops/field-console/internal/core/domain"
	"github.com/hdfops/field-console/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
	insertTimeout  = 5 * time.Second
)

// Dispatcher persists auth audit events off the login path. Events are
// sharded to a fixed set of workers by subject, keeping per-operator audit
// ordering while never blocking the session guard.
type Dispatcher struct {
	workers []chan domain.AuthEvent
	repo    ports.AuditRepository
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuthEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuthEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue accepts an audit event for asynchronous persistence. Missing IDs
// and timestamps are filled in here so callers only describe the outcome.
// When the responsible worker's buffer is full the event is dropped with a
// warning; the audit trail is best effort by design.
func (d *Dispatcher) Enqueue(event domain.AuthEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	metrics.AuditEventsTotal.WithLabelValues(string(event.Kind)).Inc()

	select {
	case d.workers[d.shardIndex(event)] <- event:
	default:
		d.log.Warn().Str("kind", string(event.Kind)).Msg("audit queue full, dropping event")
	}
}

// shardIndex maps an event deterministically to a worker index. Events for
// the same subject land on the same worker.
func (d *Dispatcher) shardIndex(event domain.AuthEvent) int {
	subject := event.UserID
	if subject == "" {
		subject = event.Email
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(subject))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuthEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			insertCtx, cancel := context.WithTimeout(context.Background(), insertTimeout)
			if err := d.repo.Insert(insertCtx, &event); err != nil {
				d.log.Error().Err(err).
					Str("kind", string(event.Kind)).
					Int("worker_id", id).
					Msg("audit event persistence failed")
			}
			cancel()
		}
	}
}
