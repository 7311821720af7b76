// Package events carries registry domain events to the external notification
// collaborator.
//
// The consensus core returns events per operation; this package only moves
// them. Delivery is fail-open: a failed append or produce is logged by the
// caller and never fails the business operation, matching the contract that
// the core does not depend on whether or how events are delivered.
package events

import (
	"context"
	"time"
)

// Event is the transport-agnostic envelope for a registry domain event.
// Identifier fields are plain strings so sinks need no domain imports.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Actor     string    `json:"actor,omitempty"`
	Bank      string    `json:"bank,omitempty"`
	Username  string    `json:"username,omitempty"`
	CanVote   *bool     `json:"can_vote,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Store is an append-only event sink with inspection for admin tooling.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

// Publisher hands events to a delivery backend.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
	Close() error
}
