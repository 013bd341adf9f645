package services

import (
	"context"
	"encoding/json"
)

// VerificationResult is the data the core expects back from a ledger
// verification. Raw carries the full ledger record for auditing.
type VerificationResult struct {
	Valid         bool            `json:"valid"`
	Ledger        uint            `json:"ledger"`
	CreatedAt     string          `json:"createdAt,omitempty"`
	SourceAccount string          `json:"sourceAccount,omitempty"`
	Raw           json.RawMessage `json:"-"`
}

// LedgerSync is the port through which the core obtains external ledger
// confirmation data. Implementations own network latency, retries and
// failure handling; the core only consumes the result. Verification is
// always called outside the store's locks.
type LedgerSync interface {
	Verify(ctx context.Context, transactionHash string) (*VerificationResult, error)
}
