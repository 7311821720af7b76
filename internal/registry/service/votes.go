package service

import (
	"context"
	"time"

	"vouchnet/internal/registry/models"
	"vouchnet/internal/registry/store"
	id "vouchnet/pkg/domain"
	dErrors "vouchnet/pkg/domain-errors"
)

// CastVote records the caller's up/down vote on a customer and recomputes
// the derived approval status.
//
// One active vote per bank per customer: casting the opposite direction
// clears the prior vote first, and repeating the same direction is a no-op
// beyond that switch. Approval is recomputed on every successful cast from
// the registry counters as they stand at that moment, never cached.
func (s *Service) CastVote(ctx context.Context, caller id.BankID, username id.Username, direction models.VoteDirection) (*models.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "registry.CastVote")
	defer span.End()
	start := time.Now()

	var customer *models.Customer
	err := s.store.Update(ctx, func(st *store.State) error {
		bank, ok := st.Banks[caller]
		if !ok {
			return dErrors.New(dErrors.CodeBankNotFound, "caller is not a registered bank")
		}
		if !bank.CanVote {
			return dErrors.New(dErrors.CodeNotEligible, "bank is not allowed to vote")
		}
		c, ok := st.Customers[username]
		if !ok {
			return dErrors.New(dErrors.CodeCustomerNotFound, "customer does not exist")
		}

		key := models.VoteKey{Username: username, Bank: caller}
		sameDir, oppositeDir := st.UpVotes, st.DownVotes
		sameCount, oppositeCount := &c.UpVotes, &c.DownVotes
		if direction == models.VoteDown {
			sameDir, oppositeDir = st.DownVotes, st.UpVotes
			sameCount, oppositeCount = &c.DownVotes, &c.UpVotes
		}

		// Switch: clear a prior vote in the opposite direction. The counter
		// can trail the ledger after a modification reset, so never drop it
		// below zero.
		if _, voted := oppositeDir[key]; voted {
			delete(oppositeDir, key)
			if *oppositeCount > 0 {
				*oppositeCount--
			}
		}
		// Fresh vote only; repeating the same direction changes nothing.
		if _, voted := sameDir[key]; !voted {
			sameDir[key] = st.NextVoteSeq()
			*sameCount++
		}

		c.Approved = models.Approved(c.UpVotes, c.DownVotes, st.TotalBanks, st.BannedBanks)
		out := *c
		customer = &out
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.VotesCast.WithLabelValues(string(direction)).Inc()
		s.metrics.ObserveCastVote(start)
	}
	s.invalidate(ctx, username)
	return customer, nil
}
