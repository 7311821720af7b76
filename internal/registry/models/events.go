package models

import (
	"time"

	id "vouchnet/pkg/domain"
)

// EventType names a registry domain event.
type EventType string

const (
	EventBankCreated            EventType = "bank_created"
	EventBankRemoved            EventType = "bank_removed"
	EventBankEligibilityChanged EventType = "bank_eligibility_changed"
	EventCustomerCreated        EventType = "customer_created"
	EventCustomerRemoved        EventType = "customer_removed"
	EventCustomerModified       EventType = "customer_modified"
	EventRequestCreated         EventType = "request_created"
	EventRequestRemoved         EventType = "request_removed"
)

// Event is emitted by the consensus engine after a successful mutation. It
// carries identifiers only; delivery to the notification collaborator is
// fail-open and the core never depends on it.
type Event struct {
	Type      EventType   `json:"type"`
	Actor     id.BankID   `json:"actor,omitempty"`
	Bank      id.BankID   `json:"bank,omitempty"`
	Username  id.Username `json:"username,omitempty"`
	CanVote   *bool       `json:"can_vote,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
