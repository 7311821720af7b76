package models

import (
	"time"

	id "vouchnet/pkg/domain"
)

// ApprovalThreshold is the eligible-pool size above which the stricter
// dissent-capped approval rule applies.
const ApprovalThreshold = 5

// Customer is an identity record under multi-bank peer verification.
//
// Invariants:
//   - Exists only while sponsored; SponsoringBank is set at creation and
//     never reassigned (bank removal does not cascade, see Service.RemoveBank)
//   - UpVotes/DownVotes count at most one active vote per bank
//   - Approved is derived state, recomputed on every successful vote cast
type Customer struct {
	Username       id.Username `json:"username"`
	Data           string      `json:"data"`
	UpVotes        uint        `json:"up_votes"`
	DownVotes      uint        `json:"down_votes"`
	SponsoringBank id.BankID   `json:"sponsoring_bank"`
	Approved       bool        `json:"approved"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// NewCustomer constructs an unverified customer sponsored by the given bank.
func NewCustomer(username id.Username, data string, sponsor id.BankID, now time.Time) *Customer {
	return &Customer{
		Username:       username,
		Data:           data,
		SponsoringBank: sponsor,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Approved computes the dynamic-threshold approval rule as a pure function
// of the vote tallies and the registry counters at the moment of the vote.
//
// When the eligible pool (total - banned) exceeds ApprovalThreshold, approval
// requires a non-negative net vote AND absolute dissent below a third of all
// banks, banned included. Below that pool size the dissent cap would be
// statistically meaningless, so the simple majority rule applies.
//
// The banned counter can legitimately exceed the total (evicting a banned
// bank leaves the counter behind, see Service.RemoveBank), so the pool
// comparison must not rely on unsigned subtraction.
func Approved(upVotes, downVotes, totalBanks, bannedBanks uint) bool {
	baseOK := upVotes >= downVotes
	if totalBanks > bannedBanks && totalBanks-bannedBanks > ApprovalThreshold {
		return baseOK && downVotes < totalBanks/3
	}
	return baseOK
}
