package models

import (
	"fmt"

	id "vouchnet/pkg/domain"
)

// VoteDirection is a bank's up/down assertion about a customer record.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// ParseVoteDirection validates an externally supplied direction string.
func ParseVoteDirection(s string) (VoteDirection, error) {
	switch VoteDirection(s) {
	case VoteUp:
		return VoteUp, nil
	case VoteDown:
		return VoteDown, nil
	}
	return "", fmt.Errorf("unknown vote direction %q", s)
}

// VoteKey addresses a bank's vote on a customer. The ledger keeps two
// independent maps (up and down) keyed by VoteKey; the invariant that at
// most one of the two is set per key is enforced by the cast-vote operation,
// not by the map structure.
type VoteKey struct {
	Username id.Username
	Bank     id.BankID
}
