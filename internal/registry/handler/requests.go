package handler

// Request and response payloads for the registry HTTP surface. Kept apart
// from the handler logic so the wire shapes are easy to review.

type createBankRequest struct {
	BankID             string `json:"bank_id"`
	Name               string `json:"name"`
	RegistrationNumber string `json:"registration_number"`
}

type setVotingRequest struct {
	Allowed bool `json:"allowed"`
}

type createCustomerRequest struct {
	Username string `json:"username"`
	Data     string `json:"data"`
}

type modifyCustomerRequest struct {
	Data string `json:"data"`
}

type createKYCRequest struct {
	Data string `json:"data"`
}

type castVoteRequest struct {
	Direction string `json:"direction"`
}

type statusResponse struct {
	Approved bool `json:"approved"`
}
