package service

import (
	"vouchnet/internal/registry/store"
	id "vouchnet/pkg/domain"
	dErrors "vouchnet/pkg/domain-errors"
)

func (s *ServiceSuite) TestSubmitRequest() {
	s.seedBanks(2)
	s.addCustomer("bank1", "alice")

	s.Run("unregistered caller is rejected", func() {
		_, err := s.service.SubmitRequest(s.ctx, "ghost", "alice", "sha256:alice")
		s.True(dErrors.HasCode(err, dErrors.CodeBankNotFound))
	})

	s.Run("bank without voting eligibility is rejected", func() {
		_, err := s.service.SetVotingPermission(s.ctx, adminID, "bank2", false)
		s.Require().NoError(err)

		_, err = s.service.SubmitRequest(s.ctx, "bank2", "alice", "sha256:alice")
		s.True(dErrors.HasCode(err, dErrors.CodeNotEligible))

		_, err = s.service.SetVotingPermission(s.ctx, adminID, "bank2", true)
		s.Require().NoError(err)
	})

	s.Run("unknown customer is rejected", func() {
		_, err := s.service.SubmitRequest(s.ctx, "bank1", "nobody", "sha256:x")
		s.True(dErrors.HasCode(err, dErrors.CodeCustomerNotFound))
	})

	s.Run("submission opens the request and bumps the KYC tally", func() {
		request, err := s.service.SubmitRequest(s.ctx, "bank1", "alice", "sha256:alice")
		s.Require().NoError(err)
		s.Equal(id.BankID("bank1"), request.Bank)
		s.Equal(s.now, request.CreatedAt)

		bank, err := s.service.GetBank(s.ctx, "bank1")
		s.Require().NoError(err)
		s.Equal(uint(1), bank.KYCCount)

		s.Equal("request_created", s.lastEvent().Type)
	})

	s.Run("second request for the same customer is rejected", func() {
		_, err := s.service.SubmitRequest(s.ctx, "bank2", "alice", "sha256:alice")
		s.True(dErrors.HasCode(err, dErrors.CodeRequestPending))

		// The rejected attempt must not bump the caller's tally.
		bank, err := s.service.GetBank(s.ctx, "bank2")
		s.Require().NoError(err)
		s.Zero(bank.KYCCount)
	})
}

func (s *ServiceSuite) TestWithdrawRequest() {
	s.seedBanks(2)
	s.addCustomer("bank1", "alice")
	_, err := s.service.SubmitRequest(s.ctx, "bank1", "alice", "sha256:alice")
	s.Require().NoError(err)

	s.Run("unregistered caller is rejected", func() {
		err := s.service.WithdrawRequest(s.ctx, "ghost", "alice")
		s.True(dErrors.HasCode(err, dErrors.CodeBankNotFound))
	})

	s.Run("a bank cannot withdraw another bank's request", func() {
		err := s.service.WithdrawRequest(s.ctx, "bank2", "alice")
		s.True(dErrors.HasCode(err, dErrors.CodeNotAuthorized))

		s.state(func(st *store.State) {
			s.Contains(st.Requests, id.Username("alice"))
		})
	})

	s.Run("requesting bank withdraws its own request", func() {
		err := s.service.WithdrawRequest(s.ctx, "bank1", "alice")
		s.Require().NoError(err)

		s.state(func(st *store.State) {
			s.NotContains(st.Requests, id.Username("alice"))
		})
		s.Equal("request_removed", s.lastEvent().Type)
	})

	s.Run("withdrawing a missing request is rejected", func() {
		err := s.service.WithdrawRequest(s.ctx, "bank1", "alice")
		s.True(dErrors.HasCode(err, dErrors.CodeNotAuthorized))
	})
}
