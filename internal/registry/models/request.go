package models

import (
	"time"

	id "vouchnet/pkg/domain"
)

// KYCRequest is a pending ask for peer review of a customer's data. At most
// one live request exists per username; it dies with the customer and on any
// customer modification.
type KYCRequest struct {
	Username  id.Username `json:"username"`
	Data      string      `json:"data"`
	Bank      id.BankID   `json:"bank"`
	CreatedAt time.Time   `json:"created_at"`
}
