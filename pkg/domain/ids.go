// Package domain holds the typed identifiers shared across modules.
//
// IDs are distinct string types so a BankID can never be passed where a
// Username is expected. Parse functions enforce validity at trust
// boundaries; internal code constructs IDs directly once validated.
package domain

import (
	"strings"

	dErrors "vouchnet/pkg/domain-errors"
)

// BankID is the address-like identifier of a registered bank. It is assigned
// by the administrator at onboarding and is opaque to the registry.
type BankID string

// Username is the unique key of a customer record.
type Username string

// RegistrationNumber is a bank's legal registration number. Exactly one live
// bank may hold a given number at any time.
type RegistrationNumber string

// ParseBankID validates an externally supplied bank identifier.
func ParseBankID(s string) (BankID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "bank id is required")
	}
	return BankID(s), nil
}

// ParseUsername validates an externally supplied customer username.
func ParseUsername(s string) (Username, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "username is required")
	}
	return Username(s), nil
}

// ParseRegistrationNumber validates an externally supplied registration number.
func ParseRegistrationNumber(s string) (RegistrationNumber, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "registration number is required")
	}
	return RegistrationNumber(s), nil
}

func (b BankID) String() string             { return string(b) }
func (b BankID) IsNil() bool                { return b == "" }
func (u Username) String() string           { return string(u) }
func (u Username) IsNil() bool              { return u == "" }
func (r RegistrationNumber) String() string { return string(r) }
