// Package store owns the registry's shared mutable state.
//
// All core records live in one State value behind one lock so every
// operation is applied atomically against a single consistency domain: bank
// registry, customer ledger, request queue and vote ledger never observe
// each other mid-mutation.
package store

import (
	"context"
	"sync"

	"vouchnet/internal/registry/models"
	id "vouchnet/pkg/domain"
)

// State is the complete registry state. Operations receive it by pointer
// inside Update/View callbacks; nothing outside this package retains a
// reference to it.
type State struct {
	Banks      map[id.BankID]*models.Bank
	RegNumbers map[id.RegistrationNumber]id.BankID
	Customers  map[id.Username]*models.Customer
	Requests   map[id.Username]*models.KYCRequest

	// Two independent timestamp maps; the cast-vote operation maintains the
	// invariant that at most one is set per key.
	UpVotes   map[models.VoteKey]uint64
	DownVotes map[models.VoteKey]uint64

	TotalBanks  uint
	BannedBanks uint

	voteSeq uint64
}

// NextVoteSeq returns the next value of the monotonically increasing vote
// timestamp sequence.
func (s *State) NextVoteSeq() uint64 {
	s.voteSeq++
	return s.voteSeq
}

func newState() *State {
	return &State{
		Banks:      make(map[id.BankID]*models.Bank),
		RegNumbers: make(map[id.RegistrationNumber]id.BankID),
		Customers:  make(map[id.Username]*models.Customer),
		Requests:   make(map[id.Username]*models.KYCRequest),
		UpVotes:    make(map[models.VoteKey]uint64),
		DownVotes:  make(map[models.VoteKey]uint64),
	}
}

// InMemory serializes access to the registry state. Writers are exclusive;
// readers share the lock and observe committed state only.
type InMemory struct {
	mu    sync.RWMutex
	state *State
}

// NewInMemory returns an empty registry store.
func NewInMemory() *InMemory {
	return &InMemory{state: newState()}
}

// Update runs fn with exclusive access to the state. The callback contract
// is validate-then-mutate: fn must check every precondition before touching
// the state, so a returned error implies zero state change. There is no
// rollback.
func (m *InMemory) Update(_ context.Context, fn func(*State) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.state)
}

// View runs fn with shared read access to the state. The callback must not
// mutate anything it reaches through the state pointer.
func (m *InMemory) View(_ context.Context, fn func(*State) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(m.state)
}
