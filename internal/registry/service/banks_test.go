package service

import (
	"vouchnet/internal/registry/store"
	id "vouchnet/pkg/domain"
	dErrors "vouchnet/pkg/domain-errors"
)

func (s *ServiceSuite) TestAddBank() {
	s.Run("admin onboards a fully privileged bank", func() {
		bank := s.addBank("hdfc", "REG-001")

		s.True(bank.CanVote)
		s.True(bank.KYCPrivilege)
		s.Zero(bank.SuspicionVotes)
		s.Equal(s.now, bank.CreatedAt)

		s.state(func(st *store.State) {
			s.Equal(uint(1), st.TotalBanks)
			s.Equal(id.BankID("hdfc"), st.RegNumbers["REG-001"])
		})

		ev := s.lastEvent()
		s.Equal("bank_created", ev.Type)
		s.Equal("hdfc", ev.Bank)
		s.Equal("admin", ev.Actor)
	})

	s.Run("non-admin caller is rejected", func() {
		_, err := s.service.AddBank(s.ctx, "hdfc", "axis", "Axis Bank", "REG-002")
		s.True(dErrors.HasCode(err, dErrors.CodeNotAdmin))
	})

	s.Run("duplicate bank id is rejected", func() {
		_, err := s.service.AddBank(s.ctx, adminID, "hdfc", "Other", "REG-900")
		s.True(dErrors.HasCode(err, dErrors.CodeDuplicateBank))

		s.state(func(st *store.State) {
			s.Equal(uint(1), st.TotalBanks, "rejected onboarding must not change the counter")
			s.NotContains(st.RegNumbers, id.RegistrationNumber("REG-900"))
		})
	})

	s.Run("duplicate registration number is rejected", func() {
		_, err := s.service.AddBank(s.ctx, adminID, "axis", "Axis Bank", "REG-001")
		s.True(dErrors.HasCode(err, dErrors.CodeDuplicateRegistration))

		s.state(func(st *store.State) {
			s.NotContains(st.Banks, id.BankID("axis"))
		})
	})
}

func (s *ServiceSuite) TestRemoveBank() {
	s.addBank("hdfc", "REG-001")

	s.Run("non-admin caller is rejected", func() {
		err := s.service.RemoveBank(s.ctx, "hdfc", "hdfc")
		s.True(dErrors.HasCode(err, dErrors.CodeNotAdmin))
	})

	s.Run("unknown bank is rejected", func() {
		err := s.service.RemoveBank(s.ctx, adminID, "ghost")
		s.True(dErrors.HasCode(err, dErrors.CodeBankNotFound))
	})

	s.Run("removal releases the registration number", func() {
		err := s.service.RemoveBank(s.ctx, adminID, "hdfc")
		s.Require().NoError(err)

		s.state(func(st *store.State) {
			s.NotContains(st.Banks, id.BankID("hdfc"))
			s.Zero(st.TotalBanks)
		})
		s.Equal("bank_removed", s.lastEvent().Type)

		// The freed number can be reused immediately.
		s.addBank("axis", "REG-001")
	})
}

// TestRemoveBankDoesNotCascade pins the no-cascade contract: sponsored
// customers survive their bank's removal with a dangling sponsor reference,
// which permanently blocks sponsor-scoped operations on them.
func (s *ServiceSuite) TestRemoveBankDoesNotCascade() {
	s.seedBanks(2)
	s.addCustomer("bank1", "alice")

	s.Require().NoError(s.service.RemoveBank(s.ctx, adminID, "bank1"))

	s.state(func(st *store.State) {
		s.Contains(st.Customers, id.Username("alice"))
		s.Equal(id.BankID("bank1"), st.Customers["alice"].SponsoringBank)
	})

	err := s.service.RemoveCustomer(s.ctx, "bank2", "alice")
	s.True(dErrors.HasCode(err, dErrors.CodeNotAuthorized))
}

// TestRemoveBannedBankLeavesBannedCount pins the counter drift inherited
// from the source system: evicting a banned bank does not decrement the
// banned counter.
func (s *ServiceSuite) TestRemoveBannedBankLeavesBannedCount() {
	s.seedBanks(2)
	_, err := s.service.SetVotingPermission(s.ctx, adminID, "bank1", false)
	s.Require().NoError(err)

	s.Require().NoError(s.service.RemoveBank(s.ctx, adminID, "bank1"))

	s.state(func(st *store.State) {
		s.Equal(uint(1), st.TotalBanks)
		s.Equal(uint(1), st.BannedBanks)
	})
}

func (s *ServiceSuite) TestSetVotingPermission() {
	s.addBank("hdfc", "REG-001")

	s.Run("non-admin caller is rejected", func() {
		_, err := s.service.SetVotingPermission(s.ctx, "hdfc", "hdfc", false)
		s.True(dErrors.HasCode(err, dErrors.CodeNotAdmin))
	})

	s.Run("revocation flips the flag and counts the ban", func() {
		bank, err := s.service.SetVotingPermission(s.ctx, adminID, "hdfc", false)
		s.Require().NoError(err)
		s.False(bank.CanVote)

		s.state(func(st *store.State) {
			s.Equal(uint(1), st.BannedBanks)
		})

		ev := s.lastEvent()
		s.Equal("bank_eligibility_changed", ev.Type)
		s.Require().NotNil(ev.CanVote)
		s.False(*ev.CanVote)
	})

	s.Run("repeated revocation does not double count", func() {
		_, err := s.service.SetVotingPermission(s.ctx, adminID, "hdfc", false)
		s.Require().NoError(err)

		s.state(func(st *store.State) {
			s.Equal(uint(1), st.BannedBanks)
		})
	})

	s.Run("restoration flips back and uncounts the ban", func() {
		bank, err := s.service.SetVotingPermission(s.ctx, adminID, "hdfc", true)
		s.Require().NoError(err)
		s.True(bank.CanVote)

		s.state(func(st *store.State) {
			s.Zero(st.BannedBanks)
		})

		ev := s.lastEvent()
		s.Require().NotNil(ev.CanVote)
		s.True(*ev.CanVote)
	})
}

func (s *ServiceSuite) TestReportSuspicion() {
	s.seedBanks(6) // threshold is 6/3 == 2

	s.Run("unregistered caller is rejected", func() {
		_, err := s.service.ReportSuspicion(s.ctx, "ghost", "bank1")
		s.True(dErrors.HasCode(err, dErrors.CodeBankNotFound))
	})

	s.Run("unknown target is rejected", func() {
		_, err := s.service.ReportSuspicion(s.ctx, "bank1", "ghost")
		s.True(dErrors.HasCode(err, dErrors.CodeBankNotFound))
	})

	s.Run("report below threshold keeps eligibility", func() {
		bank, err := s.service.ReportSuspicion(s.ctx, "bank2", "bank1")
		s.Require().NoError(err)
		s.Equal(uint(1), bank.SuspicionVotes)
		s.Equal(uint(1), bank.ComplaintsReported)
		s.True(bank.CanVote)
	})

	s.Run("report reaching threshold force-revokes eligibility", func() {
		bank, err := s.service.ReportSuspicion(s.ctx, "bank3", "bank1")
		s.Require().NoError(err)
		s.Equal(uint(2), bank.SuspicionVotes)
		s.False(bank.CanVote)

		ev := s.lastEvent()
		s.Equal("bank_eligibility_changed", ev.Type)
		s.Equal("bank1", ev.Bank)
		s.Require().NotNil(ev.CanVote)
		s.False(*ev.CanVote)
	})

	s.Run("further reports keep counting without re-emitting", func() {
		before := len(s.allEvents())
		bank, err := s.service.ReportSuspicion(s.ctx, "bank4", "bank1")
		s.Require().NoError(err)
		s.Equal(uint(3), bank.SuspicionVotes)
		s.False(bank.CanVote)
		s.Len(s.allEvents(), before, "no eligibility event without an actual flip")
	})
}

// TestSuspicionDoesNotAdjustBannedCount pins the source-system parity: a
// suspicion-driven revocation leaves the banned counter untouched, so the
// approval formula's eligible pool drifts from the true voting pool.
func (s *ServiceSuite) TestSuspicionDoesNotAdjustBannedCount() {
	s.seedBanks(6)

	_, err := s.service.ReportSuspicion(s.ctx, "bank2", "bank1")
	s.Require().NoError(err)
	bank, err := s.service.ReportSuspicion(s.ctx, "bank3", "bank1")
	s.Require().NoError(err)
	s.Require().False(bank.CanVote)

	s.state(func(st *store.State) {
		s.Zero(st.BannedBanks)
	})
}

// TestSuspicionSelfReportAllowed: nothing stops a bank reporting itself.
func (s *ServiceSuite) TestSuspicionSelfReportAllowed() {
	s.seedBanks(6)

	bank, err := s.service.ReportSuspicion(s.ctx, "bank1", "bank1")
	s.Require().NoError(err)
	s.Equal(uint(1), bank.SuspicionVotes)
}

func (s *ServiceSuite) TestGetBank() {
	s.addBank("hdfc", "REG-001")

	bank, err := s.service.GetBank(s.ctx, "hdfc")
	s.Require().NoError(err)
	s.Equal(id.BankID("hdfc"), bank.ID)

	_, err = s.service.GetBank(s.ctx, "ghost")
	s.True(dErrors.HasCode(err, dErrors.CodeBankNotFound))
}

func (s *ServiceSuite) TestListBanksOrderedByID() {
	s.addBank("icici", "REG-002")
	s.addBank("axis", "REG-001")
	s.addBank("hdfc", "REG-003")

	banks, err := s.service.ListBanks(s.ctx)
	s.Require().NoError(err)
	s.Equal([]id.BankID{"axis", "hdfc", "icici"}, []id.BankID{banks[0].ID, banks[1].ID, banks[2].ID})
}

// TestBankRegistryConsistency: after a mixed sequence of onboarding and
// eviction, the counter equals the number of live records and every live
// registration number maps back to its bank.
func (s *ServiceSuite) TestBankRegistryConsistency() {
	s.seedBanks(5)
	s.Require().NoError(s.service.RemoveBank(s.ctx, adminID, "bank2"))
	s.Require().NoError(s.service.RemoveBank(s.ctx, adminID, "bank4"))
	s.addBank("bank6", "REG-006")

	s.state(func(st *store.State) {
		s.Equal(uint(len(st.Banks)), st.TotalBanks)
		s.Len(st.RegNumbers, len(st.Banks))
		for reg, bankID := range st.RegNumbers {
			b, ok := st.Banks[bankID]
			s.Require().True(ok)
			s.Equal(reg, b.RegistrationNumber)
		}
	})
}
