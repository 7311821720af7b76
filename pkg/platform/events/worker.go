package events

import (
	"context"
	"log/slog"
)

// Worker drains an event channel into a publisher. It decouples the request
// path from slow sinks: the service emits into the inbox without blocking
// and the worker ships events in the background.
type Worker struct {
	publisher Publisher
	inbox     <-chan Event
	logger    *slog.Logger
}

func NewWorker(publisher Publisher, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{publisher: publisher, inbox: inbox, logger: logger}
}

// Run processes events until the context is cancelled. Delivery failures are
// logged and dropped; the registry never depends on delivery.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.publisher.Emit(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "event delivery failed",
					"type", event.Type,
					"error", err,
				)
			}
		}
	}
}
