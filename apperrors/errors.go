package apperrors

import "fmt"

// Machine-readable error codes surfaced in API responses.
const (
	CodeIdempotencyKeyRequired = "IDEMPOTENCY_KEY_REQUIRED"
	CodeMissingRequiredField   = "MISSING_REQUIRED_FIELD"
	CodeInvalidAmount          = "INVALID_AMOUNT"
	CodeInvalidLimit           = "INVALID_LIMIT"
	CodeInvalidStatus          = "INVALID_STATUS"
	CodeDonorRecipientMatch    = "DONOR_RECIPIENT_MATCH"
	CodeDonationNotFound       = "DONATION_NOT_FOUND"
	CodeWalletNotFound         = "WALLET_NOT_FOUND"
	CodeInvalidStateTransition = "INVALID_STATE_TRANSITION"
	CodeInternalError          = "INTERNAL_ERROR"
)

// ValidationError reports malformed, missing or out-of-range input.
// Field names the offending request field when one exists.
type ValidationError struct {
	Code    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(code, field, message string) *ValidationError {
	return &ValidationError{Code: code, Field: field, Message: message}
}

// NotFoundError reports an unknown record id.
type NotFoundError struct {
	Code     string
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s %s not found", e.Code, e.Resource, e.ID)
}

// InvalidStateTransitionError reports an illegal status change,
// naming both states. The record is guaranteed unmodified.
type InvalidStateTransitionError struct {
	From string
	To   string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("%s: cannot transition from %s to %s", CodeInvalidStateTransition, e.From, e.To)
}

// InternalError wraps a persistence or other unexpected failure.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %s: %v", CodeInternalError, e.Op, e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}
