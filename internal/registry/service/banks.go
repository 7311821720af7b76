package service

import (
	"context"
	"sort"

	"vouchnet/internal/registry/models"
	"vouchnet/internal/registry/store"
	id "vouchnet/pkg/domain"
	dErrors "vouchnet/pkg/domain-errors"
	"vouchnet/pkg/requestcontext"
)

// AddBank onboards a bank. Admin only. The new bank starts fully privileged
// with all counters zero.
func (s *Service) AddBank(ctx context.Context, caller, bankID id.BankID, name string, regNumber id.RegistrationNumber) (*models.Bank, error) {
	ctx, span := s.tracer.Start(ctx, "registry.AddBank")
	defer span.End()

	if err := s.requireAdmin(caller); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	var (
		bank *models.Bank
		evs  []models.Event
	)
	err := s.store.Update(ctx, func(st *store.State) error {
		if _, ok := st.Banks[bankID]; ok {
			return dErrors.New(dErrors.CodeDuplicateBank, "bank id already registered")
		}
		if _, ok := st.RegNumbers[regNumber]; ok {
			return dErrors.New(dErrors.CodeDuplicateRegistration, "registration number already in use")
		}

		b := models.NewBank(bankID, name, regNumber, now)
		st.Banks[bankID] = b
		out := *b
		bank = &out
		st.RegNumbers[regNumber] = bankID
		st.TotalBanks++

		evs = append(evs, models.Event{
			Type: models.EventBankCreated, Actor: caller, Bank: bankID, Timestamp: now,
		})
		s.setEligiblePool(st.TotalBanks, st.BannedBanks)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.BanksOnboarded.Inc()
	}
	s.emit(ctx, evs)
	return bank, nil
}

// RemoveBank evicts a bank and releases its registration number. Admin only.
//
// Removal does not cascade: customers the bank sponsors keep their dangling
// sponsor reference, which leaves sponsor-scoped operations on them
// permanently unauthorized. A banned bank's removal leaves the banned
// counter untouched.
func (s *Service) RemoveBank(ctx context.Context, caller, bankID id.BankID) error {
	ctx, span := s.tracer.Start(ctx, "registry.RemoveBank")
	defer span.End()

	if err := s.requireAdmin(caller); err != nil {
		return err
	}

	now := requestcontext.Now(ctx)
	var evs []models.Event
	err := s.store.Update(ctx, func(st *store.State) error {
		bank, ok := st.Banks[bankID]
		if !ok {
			return dErrors.New(dErrors.CodeBankNotFound, "bank is not registered")
		}

		delete(st.RegNumbers, bank.RegistrationNumber)
		delete(st.Banks, bankID)
		st.TotalBanks--

		evs = append(evs, models.Event{
			Type: models.EventBankRemoved, Actor: caller, Bank: bankID, Timestamp: now,
		})
		s.setEligiblePool(st.TotalBanks, st.BannedBanks)
		return nil
	})
	if err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.BanksRemoved.Inc()
	}
	s.emit(ctx, evs)
	return nil
}

// SetVotingPermission grants or revokes a bank's voting eligibility. Admin
// only. The banned counter tracks admin-driven transitions in both
// directions; suspicion-driven revocation bypasses it (see ReportSuspicion).
func (s *Service) SetVotingPermission(ctx context.Context, caller, bankID id.BankID, allowed bool) (*models.Bank, error) {
	ctx, span := s.tracer.Start(ctx, "registry.SetVotingPermission")
	defer span.End()

	if err := s.requireAdmin(caller); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	var (
		bank *models.Bank
		evs  []models.Event
	)
	err := s.store.Update(ctx, func(st *store.State) error {
		b, ok := st.Banks[bankID]
		if !ok {
			return dErrors.New(dErrors.CodeBankNotFound, "bank is not registered")
		}

		switch {
		case b.CanVote && !allowed:
			st.BannedBanks++
		case !b.CanVote && allowed:
			st.BannedBanks--
		}
		b.CanVote = allowed
		out := *b
		bank = &out

		canVote := allowed
		evs = append(evs, models.Event{
			Type: models.EventBankEligibilityChanged, Actor: caller, Bank: bankID,
			CanVote: &canVote, Timestamp: now,
		})
		s.setEligiblePool(st.TotalBanks, st.BannedBanks)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, evs)
	return bank, nil
}

// ReportSuspicion files a suspicion vote against a bank. Any registered bank
// may report, including the target itself. When accumulated suspicion
// reaches a third of the registry (truncating division), the target's voting
// eligibility is force-revoked without admin action.
//
// Intentional parity with the source system: the forced revocation does NOT
// adjust the banned counter, so the eligible pool used by the approval
// formula can drift from the true count of voting-eligible banks.
func (s *Service) ReportSuspicion(ctx context.Context, caller, target id.BankID) (*models.Bank, error) {
	ctx, span := s.tracer.Start(ctx, "registry.ReportSuspicion")
	defer span.End()

	now := requestcontext.Now(ctx)
	var (
		bank *models.Bank
		evs  []models.Event
	)
	err := s.store.Update(ctx, func(st *store.State) error {
		if _, ok := st.Banks[caller]; !ok {
			return dErrors.New(dErrors.CodeBankNotFound, "caller is not a registered bank")
		}
		b, ok := st.Banks[target]
		if !ok {
			return dErrors.New(dErrors.CodeBankNotFound, "target bank is not registered")
		}

		b.SuspicionVotes++
		b.ComplaintsReported++
		if b.SuspicionVotes >= models.SuspicionThreshold(st.TotalBanks) && b.CanVote {
			b.CanVote = false
			canVote := false
			evs = append(evs, models.Event{
				Type: models.EventBankEligibilityChanged, Actor: caller, Bank: target,
				CanVote: &canVote, Timestamp: now,
			})
		}
		out := *b
		bank = &out
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SuspicionReports.Inc()
	}
	s.emit(ctx, evs)
	return bank, nil
}

// GetBank returns a bank's registry record.
func (s *Service) GetBank(ctx context.Context, bankID id.BankID) (*models.Bank, error) {
	var bank models.Bank
	err := s.store.View(ctx, func(st *store.State) error {
		b, ok := st.Banks[bankID]
		if !ok {
			return dErrors.New(dErrors.CodeBankNotFound, "bank is not registered")
		}
		bank = *b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &bank, nil
}

// ListBanks returns all registered banks ordered by ID.
func (s *Service) ListBanks(ctx context.Context) ([]models.Bank, error) {
	var banks []models.Bank
	err := s.store.View(ctx, func(st *store.State) error {
		for _, b := range st.Banks {
			banks = append(banks, *b)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(banks, func(i, j int) bool { return banks[i].ID < banks[j].ID })
	return banks, nil
}

func (s *Service) requireAdmin(caller id.BankID) error {
	if caller != s.admin {
		return dErrors.New(dErrors.CodeNotAdmin, "operation requires the administrator")
	}
	return nil
}
