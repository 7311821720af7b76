package service

import (
	"context"

	"vouchnet/internal/registry/models"
	"vouchnet/internal/registry/store"
	id "vouchnet/pkg/domain"
	dErrors "vouchnet/pkg/domain-errors"
	"vouchnet/pkg/requestcontext"
)

// AddCustomer creates a customer record sponsored by the caller. The caller
// must be a registered bank; the username must be free.
func (s *Service) AddCustomer(ctx context.Context, caller id.BankID, username id.Username, data string) (*models.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "registry.AddCustomer")
	defer span.End()

	now := requestcontext.Now(ctx)
	var (
		customer *models.Customer
		evs      []models.Event
	)
	err := s.store.Update(ctx, func(st *store.State) error {
		if _, ok := st.Banks[caller]; !ok {
			return dErrors.New(dErrors.CodeBankNotFound, "caller is not a registered bank")
		}
		if _, ok := st.Customers[username]; ok {
			return dErrors.New(dErrors.CodeCustomerExists, "username already taken")
		}

		c := models.NewCustomer(username, data, caller, now)
		st.Customers[username] = c
		out := *c
		customer = &out

		evs = append(evs, models.Event{
			Type: models.EventCustomerCreated, Actor: caller, Username: username, Timestamp: now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.CustomersCreated.Inc()
	}
	s.emit(ctx, evs)
	return customer, nil
}

// RemoveCustomer deletes a customer and any pending request for it. Only the
// sponsoring bank may remove its customer.
func (s *Service) RemoveCustomer(ctx context.Context, caller id.BankID, username id.Username) error {
	ctx, span := s.tracer.Start(ctx, "registry.RemoveCustomer")
	defer span.End()

	now := requestcontext.Now(ctx)
	var evs []models.Event
	err := s.store.Update(ctx, func(st *store.State) error {
		if _, ok := st.Banks[caller]; !ok {
			return dErrors.New(dErrors.CodeBankNotFound, "caller is not a registered bank")
		}
		customer, ok := st.Customers[username]
		if !ok {
			return dErrors.New(dErrors.CodeCustomerNotFound, "customer does not exist")
		}
		if customer.SponsoringBank != caller {
			return dErrors.New(dErrors.CodeNotAuthorized, "only the sponsoring bank may remove a customer")
		}

		delete(st.Customers, username)
		// Idempotent: no error when no request is pending.
		delete(st.Requests, username)

		evs = append(evs, models.Event{
			Type: models.EventCustomerRemoved, Actor: caller, Username: username, Timestamp: now,
		})
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, username)
	s.emit(ctx, evs)
	return nil
}

// ModifyCustomer overwrites a customer's data reference, resets both vote
// counters to zero and clears any pending request.
//
// Intentional parity with the source system, twice over: any registered bank
// may modify any customer (the sponsoring-bank check applies to removal
// only), and the per-bank vote ledger is NOT cleared alongside the counters,
// so a bank repeating its prior direction after a modification is a no-op
// instead of a fresh vote.
func (s *Service) ModifyCustomer(ctx context.Context, caller id.BankID, username id.Username, newData string) (*models.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "registry.ModifyCustomer")
	defer span.End()

	now := requestcontext.Now(ctx)
	var (
		customer *models.Customer
		evs      []models.Event
	)
	err := s.store.Update(ctx, func(st *store.State) error {
		if _, ok := st.Banks[caller]; !ok {
			return dErrors.New(dErrors.CodeBankNotFound, "caller is not a registered bank")
		}
		c, ok := st.Customers[username]
		if !ok {
			return dErrors.New(dErrors.CodeCustomerNotFound, "customer does not exist")
		}

		delete(st.Requests, username)
		c.Data = newData
		c.UpVotes = 0
		c.DownVotes = 0
		c.UpdatedAt = now
		out := *c
		customer = &out

		evs = append(evs, models.Event{
			Type: models.EventCustomerModified, Actor: caller, Username: username, Timestamp: now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, username)
	s.emit(ctx, evs)
	return customer, nil
}

// ViewCustomer returns the customer's data reference and approval status.
// Served from the read cache when one is configured; the store stays
// authoritative.
func (s *Service) ViewCustomer(ctx context.Context, username id.Username) (CustomerView, error) {
	if s.cache != nil {
		if view, ok := s.cache.Get(ctx, username); ok {
			return view, nil
		}
	}

	var view CustomerView
	err := s.store.View(ctx, func(st *store.State) error {
		c, ok := st.Customers[username]
		if !ok {
			return dErrors.New(dErrors.CodeCustomerNotFound, "customer does not exist")
		}
		view = CustomerView{Username: c.Username, Data: c.Data, Approved: c.Approved}
		return nil
	})
	if err != nil {
		return CustomerView{}, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, view)
	}
	return view, nil
}

// GetStatus returns the customer's derived approval status.
func (s *Service) GetStatus(ctx context.Context, username id.Username) (bool, error) {
	view, err := s.ViewCustomer(ctx, username)
	if err != nil {
		return false, err
	}
	return view.Approved, nil
}
