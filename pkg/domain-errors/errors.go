// Package domainerrors provides code-carrying errors for the registry core.
//
// Services return these so transports can translate them mechanically. Every
// rejected operation surfaces exactly one code and mutates nothing; the code
// set below is the complete vocabulary of precondition failures.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error.
type Code string

const (
	// Registry precondition failures.
	CodeNotAdmin              Code = "not_admin"
	CodeBankNotFound          Code = "bank_not_found"
	CodeDuplicateBank         Code = "duplicate_bank"
	CodeDuplicateRegistration Code = "duplicate_registration"
	CodeNotEligible           Code = "not_eligible"
	CodeCustomerNotFound      Code = "customer_not_found"
	CodeCustomerExists        Code = "customer_exists"
	CodeRequestPending        Code = "request_pending"
	CodeNotAuthorized         Code = "not_authorized"

	// Transport and infrastructure failures.
	CodeInvalidInput Code = "invalid_input"
	CodeBadRequest   Code = "bad_request"
	CodeUnauthorized Code = "unauthorized"
	CodeInternal     Code = "internal"
)

// Error is a domain error with a stable code and human-readable message.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a domain error with the given code.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias for HasCode kept for call-site readability.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a domain error code to an HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBankNotFound, CodeCustomerNotFound:
		return http.StatusNotFound
	case CodeDuplicateBank, CodeDuplicateRegistration, CodeCustomerExists, CodeRequestPending:
		return http.StatusConflict
	case CodeNotAdmin, CodeNotEligible, CodeNotAuthorized:
		return http.StatusForbidden
	case CodeInvalidInput, CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
