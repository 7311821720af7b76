package service

import (
	"context"

	"vouchnet/internal/registry/models"
	"vouchnet/internal/registry/store"
	id "vouchnet/pkg/domain"
	dErrors "vouchnet/pkg/domain-errors"
	"vouchnet/pkg/requestcontext"
)

// SubmitRequest opens a KYC review request for a customer. The caller must
// hold voting and KYC privilege; at most one live request exists per
// username.
func (s *Service) SubmitRequest(ctx context.Context, caller id.BankID, username id.Username, data string) (*models.KYCRequest, error) {
	ctx, span := s.tracer.Start(ctx, "registry.SubmitRequest")
	defer span.End()

	now := requestcontext.Now(ctx)
	var (
		request *models.KYCRequest
		evs     []models.Event
	)
	err := s.store.Update(ctx, func(st *store.State) error {
		bank, ok := st.Banks[caller]
		if !ok {
			return dErrors.New(dErrors.CodeBankNotFound, "caller is not a registered bank")
		}
		if !bank.CanVote || !bank.KYCPrivilege {
			return dErrors.New(dErrors.CodeNotEligible, "bank lacks KYC privilege")
		}
		if _, ok := st.Customers[username]; !ok {
			return dErrors.New(dErrors.CodeCustomerNotFound, "customer does not exist")
		}
		if _, ok := st.Requests[username]; ok {
			return dErrors.New(dErrors.CodeRequestPending, "a request is already pending for this customer")
		}

		r := &models.KYCRequest{Username: username, Data: data, Bank: caller, CreatedAt: now}
		st.Requests[username] = r
		bank.KYCCount++
		out := *r
		request = &out

		evs = append(evs, models.Event{
			Type: models.EventRequestCreated, Actor: caller, Bank: caller, Username: username, Timestamp: now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, evs)
	return request, nil
}

// WithdrawRequest removes the caller's pending request for a customer. A
// missing request surfaces as NotAuthorized, same as a request held by
// another bank: the stored requesting bank simply does not match the caller.
func (s *Service) WithdrawRequest(ctx context.Context, caller id.BankID, username id.Username) error {
	ctx, span := s.tracer.Start(ctx, "registry.WithdrawRequest")
	defer span.End()

	now := requestcontext.Now(ctx)
	var evs []models.Event
	err := s.store.Update(ctx, func(st *store.State) error {
		if _, ok := st.Banks[caller]; !ok {
			return dErrors.New(dErrors.CodeBankNotFound, "caller is not a registered bank")
		}
		request, ok := st.Requests[username]
		if !ok || request.Bank != caller {
			return dErrors.New(dErrors.CodeNotAuthorized, "no pending request held by this bank")
		}

		delete(st.Requests, username)

		evs = append(evs, models.Event{
			Type: models.EventRequestRemoved, Actor: caller, Bank: caller, Username: username, Timestamp: now,
		})
		return nil
	})
	if err != nil {
		return err
	}

	s.emit(ctx, evs)
	return nil
}
