package events

import (
	"context"
	"errors"
)

// ChannelPublisher queues events for a Worker without blocking the request
// path. When the buffer is full the event is dropped with an error the
// caller logs; the registry never waits on delivery.
type ChannelPublisher struct {
	inbox chan Event
}

// NewChannelPublisher creates a publisher buffering up to size events.
func NewChannelPublisher(size int) *ChannelPublisher {
	return &ChannelPublisher{inbox: make(chan Event, size)}
}

// Inbox is the consumer side, passed to NewWorker.
func (p *ChannelPublisher) Inbox() <-chan Event { return p.inbox }

func (p *ChannelPublisher) Emit(_ context.Context, event Event) error {
	select {
	case p.inbox <- event:
		return nil
	default:
		return errors.New("event buffer full, event dropped")
	}
}

func (p *ChannelPublisher) Close() error { return nil }
