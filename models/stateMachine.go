package models

import (
	"github.com/XOUL-LABS/Stellar-Micro-Donation-API/apperrors"
)

// validTransitions maps each status to the set of statuses it may move to.
// pending is the only non-terminal state; confirmed, failed and cancelled
// have no outgoing transitions.
var validTransitions = map[TransactionStatus][]TransactionStatus{
	StatusPending:   {StatusConfirmed, StatusFailed, StatusCancelled},
	StatusConfirmed: {},
	StatusFailed:    {},
	StatusCancelled: {},
}

// ParseTransactionStatus validates a raw status string against the enum.
func ParseTransactionStatus(raw string) (TransactionStatus, error) {
	status := TransactionStatus(raw)
	switch status {
	case StatusPending, StatusConfirmed, StatusFailed, StatusCancelled:
		return status, nil
	}
	return "", apperrors.NewValidationError(apperrors.CodeInvalidStatus, "status",
		"Status must be one of pending, confirmed, failed, cancelled!")
}

// ValidateTransition checks that current may legally move to next.
// On failure the returned error names both states and the caller must
// leave the record untouched.
func ValidateTransition(current, next TransactionStatus) error {
	for _, allowed := range validTransitions[current] {
		if allowed == next {
			return nil
		}
	}
	return &apperrors.InvalidStateTransitionError{
		From: string(current),
		To:   string(next),
	}
}

// IsTerminal reports whether a status has no outgoing transitions.
func IsTerminal(status TransactionStatus) bool {
	return len(validTransitions[status]) == 0
}
