package service

import (
	"vouchnet/pkg/requestcontext"
)

// TestEventsCarryRequestMetadata: emitted events are stamped with a unique
// id, the request id from the context and the request-scoped time.
func (s *ServiceSuite) TestEventsCarryRequestMetadata() {
	ctx := requestcontext.WithRequestID(s.ctx, "req-123")

	_, err := s.service.AddBank(ctx, adminID, "hdfc", "HDFC Bank", "REG-001")
	s.Require().NoError(err)

	ev := s.lastEvent()
	s.NotEmpty(ev.ID)
	s.Equal("req-123", ev.RequestID)
	s.Equal(s.now, ev.Timestamp)
}

// TestRejectedOperationEmitsNothing: the fail-closed contract extends to the
// event stream.
func (s *ServiceSuite) TestRejectedOperationEmitsNothing() {
	s.seedBanks(1)
	before := len(s.allEvents())

	_, err := s.service.AddBank(s.ctx, adminID, "bank1", "Dup", "REG-999")
	s.Require().Error(err)

	err = s.service.RemoveCustomer(s.ctx, "bank1", "nobody")
	s.Require().Error(err)

	s.Len(s.allEvents(), before)
}

// TestServiceWithoutPublisherStillWorks: the publisher is optional; a bare
// engine mutates state and emits nothing.
func (s *ServiceSuite) TestServiceWithoutPublisherStillWorks() {
	bare := New(adminID, s.store)

	bank, err := bare.AddBank(s.ctx, adminID, "solo", "Solo Bank", "REG-777")
	s.Require().NoError(err)
	s.True(bank.CanVote)
	s.Empty(s.allEvents())
}
