package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TransactionStatus defines the status of a donation transaction
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusConfirmed TransactionStatus = "confirmed"
	StatusFailed    TransactionStatus = "failed"
	StatusCancelled TransactionStatus = "cancelled"
)

// Transaction is the permanent audit record of a donation. Rows are never
// deleted; status is the only lifecycle field mutated after creation.
type Transaction struct {
	gorm.Model
	Amount         float64 `gorm:"not null" json:"amount"`
	Donor          string  `gorm:"type:varchar(255);default:'Anonymous'" json:"donor"`
	Recipient      string  `gorm:"type:varchar(255);not null" json:"recipient"`
	IdempotencyKey string  `gorm:"type:varchar(128);uniqueIndex;not null" json:"idempotencyKey"`

	// Computed once at creation, immutable thereafter
	AnalyticsFee           float64 `gorm:"not null" json:"analyticsFee"`
	AnalyticsFeePercentage float64 `gorm:"not null" json:"analyticsFeePercentage"`

	Status TransactionStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`

	// Ledger confirmation details, set only on the way to confirmed
	StellarTxID       string         `gorm:"type:varchar(100);index" json:"stellarTxId,omitempty"`
	Ledger            uint           `gorm:"default:0" json:"ledger,omitempty"`
	LedgerResponseRaw datatypes.JSON `json:"-"` // Full Horizon record JSON

	Timestamp   time.Time  `gorm:"not null;index" json:"timestamp"`
	ConfirmedAt *time.Time `json:"confirmedAt,omitempty"`
}

func (Transaction) TableName() string {
	return "donation_transactions"
}

// TransactionSummary is the sanitized projection returned by the public
// recent-donations listing. Ledger-internal fields are deliberately absent.
type TransactionSummary struct {
	ID        uint              `json:"id"`
	Amount    float64           `json:"amount"`
	Donor     string            `json:"donor"`
	Recipient string            `json:"recipient"`
	Timestamp time.Time         `json:"timestamp"`
	Status    TransactionStatus `json:"status"`
}

// Summary returns the sanitized projection of the transaction.
func (t *Transaction) Summary() TransactionSummary {
	return TransactionSummary{
		ID:        t.ID,
		Amount:    t.Amount,
		Donor:     t.Donor,
		Recipient: t.Recipient,
		Timestamp: t.Timestamp,
		Status:    t.Status,
	}
}
