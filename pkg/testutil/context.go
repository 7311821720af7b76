package testutil

import (
	"net/http"
	"time"

	id "vouchnet/pkg/domain"
	"vouchnet/pkg/requestcontext"
)

// WithCallerBank adds a caller bank identity to the request context.
// This simulates what the auth middleware would do for authenticated requests.
// If the bank ID is not valid, it is not added to the context.
func WithCallerBank(req *http.Request, bank string) *http.Request {
	if parsed, err := id.ParseBankID(bank); err == nil {
		return req.WithContext(requestcontext.WithCallerBank(req.Context(), parsed))
	}
	return req
}

// WithRequestTime pins the request clock, so handlers that stamp records
// via requestcontext.Now produce deterministic timestamps.
func WithRequestTime(req *http.Request, at time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), at))
}
