package models

import (
	"time"

	id "vouchnet/pkg/domain"
)

// Bank is a registered consortium member.
//
// Invariants:
//   - Exactly one Bank per ID; RegistrationNumber maps to exactly one live
//     bank (bijective secondary index maintained by the store)
//   - Created only by the administrator, with CanVote and KYCPrivilege true
//     and all counters zero
//   - CanVote can be revoked by the administrator or forced off when
//     SuspicionVotes crosses the registry's suspicion threshold
type Bank struct {
	ID                 id.BankID             `json:"id"`
	Name               string                `json:"name"`
	RegistrationNumber id.RegistrationNumber `json:"registration_number"`
	ComplaintsReported uint                  `json:"complaints_reported"`
	KYCCount           uint                  `json:"kyc_count"`
	CanVote            bool                  `json:"can_vote"`
	KYCPrivilege       bool                  `json:"kyc_privilege"`
	SuspicionVotes     uint                  `json:"suspicion_votes"`
	CreatedAt          time.Time             `json:"created_at"`
}

// NewBank constructs a bank in its onboarded state.
func NewBank(bankID id.BankID, name string, regNumber id.RegistrationNumber, now time.Time) *Bank {
	return &Bank{
		ID:                 bankID,
		Name:               name,
		RegistrationNumber: regNumber,
		CanVote:            true,
		KYCPrivilege:       true,
		CreatedAt:          now,
	}
}

// SuspicionThreshold returns the suspicion vote count at which a bank's
// voting eligibility is force-revoked, given the current registry size.
// Integer division is intentional: with 6 banks the threshold is 2.
func SuspicionThreshold(totalBanks uint) uint {
	return totalBanks / 3
}
