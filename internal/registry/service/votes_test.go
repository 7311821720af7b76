package service

import (
	"vouchnet/internal/registry/models"
	"vouchnet/internal/registry/store"
	id "vouchnet/pkg/domain"
	dErrors "vouchnet/pkg/domain-errors"
)

func (s *ServiceSuite) TestCastVotePreconditions() {
	s.seedBanks(2)
	s.addCustomer("bank1", "alice")

	s.Run("unregistered caller is rejected", func() {
		_, err := s.service.CastVote(s.ctx, "ghost", "alice", models.VoteUp)
		s.True(dErrors.HasCode(err, dErrors.CodeBankNotFound))
	})

	s.Run("ineligible bank is rejected", func() {
		_, err := s.service.SetVotingPermission(s.ctx, adminID, "bank2", false)
		s.Require().NoError(err)

		_, err = s.service.CastVote(s.ctx, "bank2", "alice", models.VoteUp)
		s.True(dErrors.HasCode(err, dErrors.CodeNotEligible))

		s.state(func(st *store.State) {
			s.Zero(st.Customers["alice"].UpVotes, "rejected vote must not count")
			s.Empty(st.UpVotes)
		})
	})

	s.Run("unknown customer is rejected", func() {
		_, err := s.service.CastVote(s.ctx, "bank1", "nobody", models.VoteUp)
		s.True(dErrors.HasCode(err, dErrors.CodeCustomerNotFound))
	})
}

func (s *ServiceSuite) TestCastVoteOnePerBank() {
	s.seedBanks(3)
	s.addCustomer("bank1", "alice")

	s.Run("first vote counts", func() {
		customer, err := s.service.CastVote(s.ctx, "bank2", "alice", models.VoteUp)
		s.Require().NoError(err)
		s.Equal(uint(1), customer.UpVotes)
	})

	s.Run("repeating the same direction is a no-op", func() {
		customer, err := s.service.CastVote(s.ctx, "bank2", "alice", models.VoteUp)
		s.Require().NoError(err)
		s.Equal(uint(1), customer.UpVotes)
		s.Zero(customer.DownVotes)
	})

	s.Run("switching direction moves the vote", func() {
		customer, err := s.service.CastVote(s.ctx, "bank2", "alice", models.VoteDown)
		s.Require().NoError(err)
		s.Zero(customer.UpVotes)
		s.Equal(uint(1), customer.DownVotes)
	})

	s.Run("banks vote independently", func() {
		customer, err := s.service.CastVote(s.ctx, "bank3", "alice", models.VoteUp)
		s.Require().NoError(err)
		s.Equal(uint(1), customer.UpVotes)
		s.Equal(uint(1), customer.DownVotes)
	})
}

func (s *ServiceSuite) TestCastVoteEmitsNoEvent() {
	s.seedBanks(2)
	s.addCustomer("bank1", "alice")
	before := len(s.allEvents())

	_, err := s.service.CastVote(s.ctx, "bank2", "alice", models.VoteUp)
	s.Require().NoError(err)
	s.Len(s.allEvents(), before)
}

func (s *ServiceSuite) TestCastVoteVoterRemainsEligibleToRevote() {
	// A revoked bank's past votes stand; it only loses the ability to cast
	// new ones.
	s.seedBanks(2)
	s.addCustomer("bank1", "alice")

	customer, err := s.service.CastVote(s.ctx, "bank2", "alice", models.VoteUp)
	s.Require().NoError(err)
	s.Equal(uint(1), customer.UpVotes)

	_, err = s.service.SetVotingPermission(s.ctx, adminID, "bank2", false)
	s.Require().NoError(err)

	_, err = s.service.CastVote(s.ctx, "bank2", "alice", models.VoteDown)
	s.True(dErrors.HasCode(err, dErrors.CodeNotEligible))

	s.state(func(st *store.State) {
		s.Equal(uint(1), st.Customers["alice"].UpVotes)
	})
}

func (s *ServiceSuite) TestApprovalSmallPool() {
	// Pool of 4 banks: simple majority, no dissent cap.
	banks := s.seedBanks(4)
	s.addCustomer("bank1", "alice")

	customer, err := s.service.CastVote(s.ctx, banks[0], "alice", models.VoteUp)
	s.Require().NoError(err)
	s.True(customer.Approved, "1 up, 0 down")

	customer, err = s.service.CastVote(s.ctx, banks[1], "alice", models.VoteDown)
	s.Require().NoError(err)
	s.True(customer.Approved, "tie keeps approval")

	customer, err = s.service.CastVote(s.ctx, banks[2], "alice", models.VoteDown)
	s.Require().NoError(err)
	s.False(customer.Approved, "net negative rejects")
}

func (s *ServiceSuite) TestApprovalLargePoolDissentCap() {
	// Pool of 6 banks: the dissent cap is 6/3 == 2.
	banks := s.seedBanks(6)
	s.addCustomer("bank1", "alice")

	for _, b := range banks[:4] {
		_, err := s.service.CastVote(s.ctx, b, "alice", models.VoteUp)
		s.Require().NoError(err)
	}
	customer, err := s.service.CastVote(s.ctx, banks[4], "alice", models.VoteDown)
	s.Require().NoError(err)
	s.True(customer.Approved, "4 up, 1 down stays under the cap")

	customer, err = s.service.CastVote(s.ctx, banks[5], "alice", models.VoteDown)
	s.Require().NoError(err)
	s.False(customer.Approved, "2 down hits the cap despite net positive")
}

// TestApprovalSurvivesBannedCounterDrift: evicting banned banks leaves the
// banned counter above the total (see TestRemoveBannedBankLeavesBannedCount);
// the approval rule must treat that drifted pool as small, not wrap it into
// the dissent-cap branch.
func (s *ServiceSuite) TestApprovalSurvivesBannedCounterDrift() {
	s.seedBanks(3)
	for _, bank := range []id.BankID{"bank1", "bank2"} {
		_, err := s.service.SetVotingPermission(s.ctx, adminID, bank, false)
		s.Require().NoError(err)
		s.Require().NoError(s.service.RemoveBank(s.ctx, adminID, bank))
	}
	s.addCustomer("bank3", "alice")

	s.state(func(st *store.State) {
		s.Equal(uint(1), st.TotalBanks)
		s.Equal(uint(2), st.BannedBanks)
	})

	customer, err := s.service.CastVote(s.ctx, "bank3", "alice", models.VoteUp)
	s.Require().NoError(err)
	s.True(customer.Approved, "1 up, 0 down with pool below threshold must approve")
}

func (s *ServiceSuite) TestApprovalRecomputedAgainstCurrentPool() {
	// Approval is a function of the counters at cast time: banning a bank
	// shrinks the pool below the cap threshold and the next vote flips the
	// outcome without any tally change.
	banks := s.seedBanks(6)
	s.addCustomer("bank1", "alice")

	for _, b := range banks[:3] {
		_, err := s.service.CastVote(s.ctx, b, "alice", models.VoteUp)
		s.Require().NoError(err)
	}
	customer, err := s.service.CastVote(s.ctx, banks[3], "alice", models.VoteDown)
	s.Require().NoError(err)
	s.True(customer.Approved, "3 up 1 down stays under the cap")

	customer, err = s.service.CastVote(s.ctx, banks[4], "alice", models.VoteDown)
	s.Require().NoError(err)
	s.False(customer.Approved, "3 up 2 down: cap hit")

	// Ban one bank: pool drops to 5, cap no longer applies. The existing
	// tallies stand; any registered eligible bank re-casting recomputes.
	_, err = s.service.SetVotingPermission(s.ctx, adminID, banks[5], false)
	s.Require().NoError(err)

	customer, err = s.service.CastVote(s.ctx, banks[0], "alice", models.VoteUp)
	s.Require().NoError(err)
	s.Equal(uint(3), customer.UpVotes, "repeat vote unchanged")
	s.True(customer.Approved, "3 up 2 down under simple majority")
}
