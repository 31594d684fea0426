package alerts

import (
	"context"
	"log/slog"
	"sync"
	"time"

	dErrors "fundline/pkg/domain-errors"
)

// Publisher accepts events for delivery. Implementations must be safe for
// concurrent use; Emit is called from request paths and must not block on
// slow sinks.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// MemorySink collects events in memory. Used by tests and as the default
// sink when no broker is configured.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Emit implements Publisher.
func (s *MemorySink) Emit(_ context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a snapshot of everything emitted so far.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Worker buffers events and forwards them to a sink on its own goroutine.
// It implements Publisher, keeping request paths decoupled from sink latency.
type Worker struct {
	sink   Publisher
	inbox  chan Event
	logger *slog.Logger
}

// NewWorker creates a worker with a buffer of the given size draining into
// sink.
func NewWorker(sink Publisher, buffer int) *Worker {
	return &Worker{
		sink:   sink,
		inbox:  make(chan Event, buffer),
		logger: slog.Default(),
	}
}

// Emit implements Publisher. It never blocks; an event arriving while the
// buffer is full is rejected with a dependency error.
func (w *Worker) Emit(_ context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case w.inbox <- event:
		return nil
	default:
		return dErrors.New(dErrors.CodeDependency, "alert buffer is full")
	}
}

// Run forwards buffered events until ctx is cancelled. A failed delivery is
// logged and dropped; the worker keeps draining.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Emit(ctx, event); err != nil {
				w.logger.WarnContext(ctx, "alert delivery failed",
					"type", event.Type,
					"lender_id", event.LenderID,
					"error", err,
				)
			}
		}
	}
}
