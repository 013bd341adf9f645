package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/XOUL-LABS/Stellar-Micro-Donation-API/apperrors"
	"github.com/XOUL-LABS/Stellar-Micro-Donation-API/models"
	"github.com/XOUL-LABS/Stellar-Micro-Donation-API/store"

	"gorm.io/datatypes"
)

// Bounds for the recent-donations listing. Requests outside the range are
// rejected, never clamped.
const (
	DefaultRecentLimit = 10
	MaxRecentLimit     = 100
)

// AnonymousDonor is recorded when a donation arrives without a donor name.
const AnonymousDonor = "Anonymous"

// CreateDonationRequest is the validated input for a new donation.
type CreateDonationRequest struct {
	IdempotencyKey string
	Amount         float64
	Donor          string
	Recipient      string
	StellarTxID    string // optional hash of an already-submitted ledger tx
}

// StellarData carries the ledger fields accompanying a status update.
type StellarData struct {
	StellarTxID string
	Ledger      uint
	Raw         []byte
}

// DonationService orchestrates validation, fee computation, idempotent
// creation, status updates and read queries. It is the only component the
// HTTP layer and the reconciler talk to.
type DonationService struct {
	store  *store.TransactionStore
	ledger LedgerSync
}

// NewDonationService wires the service to its store and ledger port.
func NewDonationService(txStore *store.TransactionStore, ledger LedgerSync) *DonationService {
	return &DonationService{store: txStore, ledger: ledger}
}

// Create validates the request, computes the analytics fee and delegates to
// the store's idempotent create. The bool reports whether a new record was
// inserted (false on idempotent replay).
func (s *DonationService) Create(req CreateDonationRequest) (*models.Transaction, bool, error) {
	if strings.TrimSpace(req.IdempotencyKey) == "" {
		return nil, false, apperrors.NewValidationError(apperrors.CodeIdempotencyKeyRequired,
			"idempotencyKey", "Idempotency-Key header is required!")
	}
	recipient := strings.TrimSpace(req.Recipient)
	if recipient == "" {
		return nil, false, apperrors.NewValidationError(apperrors.CodeMissingRequiredField,
			"recipient", "Recipient is required!")
	}
	if req.Amount <= 0 {
		return nil, false, apperrors.NewValidationError(apperrors.CodeInvalidAmount,
			"amount", "Amount must be greater than 0!")
	}

	donor := strings.TrimSpace(req.Donor)
	if donor != "" && donor == recipient {
		return nil, false, apperrors.NewValidationError(apperrors.CodeDonorRecipientMatch,
			"donor", "Donor and recipient must differ!")
	}
	if donor == "" {
		donor = AnonymousDonor
	}

	fee, percentage := ComputeAnalyticsFee(req.Amount)

	draft := &models.Transaction{
		Amount:                 req.Amount,
		Donor:                  donor,
		Recipient:              recipient,
		IdempotencyKey:         strings.TrimSpace(req.IdempotencyKey),
		AnalyticsFee:           fee,
		AnalyticsFeePercentage: percentage,
		Status:                 models.StatusPending,
		StellarTxID:            strings.TrimSpace(req.StellarTxID),
		Timestamp:              time.Now(),
	}
	return s.store.Create(draft)
}

// List returns every transaction including ledger-internal fields.
// Admin use only; the route is permission-guarded.
func (s *DonationService) List() ([]models.Transaction, error) {
	return s.store.GetAll()
}

// ListRecent returns sanitized summaries of the most recent donations,
// newest first. limit must lie in [1, 100]; out-of-range values are
// rejected rather than clamped.
func (s *DonationService) ListRecent(limit int) ([]models.TransactionSummary, error) {
	if limit < 1 || limit > MaxRecentLimit {
		return nil, apperrors.NewValidationError(apperrors.CodeInvalidLimit,
			"limit", "Limit must be between 1 and 100!")
	}

	transactions, err := s.store.GetRecent(limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.TransactionSummary, 0, len(transactions))
	for i := range transactions {
		summaries = append(summaries, transactions[i].Summary())
	}
	return summaries, nil
}

// GetByID returns one transaction or a NotFoundError.
func (s *DonationService) GetByID(id uint) (*models.Transaction, error) {
	return s.store.GetByID(id)
}

// UpdateStatus validates the status value and delegates the atomic
// transition to the store. Entering confirmed requires a ledger
// transaction hash, either supplied here or already on the record.
func (s *DonationService) UpdateStatus(id uint, status string, data StellarData) (*models.Transaction, error) {
	next, err := models.ParseTransactionStatus(status)
	if err != nil {
		return nil, err
	}

	if next == models.StatusConfirmed && strings.TrimSpace(data.StellarTxID) == "" {
		current, err := s.store.GetByID(id)
		if err != nil {
			return nil, err
		}
		if current.StellarTxID == "" {
			return nil, apperrors.NewValidationError(apperrors.CodeMissingRequiredField,
				"stellarTxId", "A ledger transaction hash is required to confirm a donation!")
		}
	}

	return s.store.UpdateStatus(id, next, store.StatusExtra{
		StellarTxID:       strings.TrimSpace(data.StellarTxID),
		Ledger:            data.Ledger,
		LedgerResponseRaw: datatypes.JSON(data.Raw),
	})
}

// Verify asks the ledger port whether a transaction hash is confirmed on
// chain. It never mutates stored state.
func (s *DonationService) Verify(ctx context.Context, transactionHash string) (*VerificationResult, error) {
	if strings.TrimSpace(transactionHash) == "" {
		return nil, apperrors.NewValidationError(apperrors.CodeMissingRequiredField,
			"transactionHash", "Transaction hash is required!")
	}
	return s.ledger.Verify(ctx, transactionHash)
}

// Reconcile sweeps pending transactions that carry a ledger hash, verifies
// each against the external ledger and commits the outcome. Verification
// runs before the store lock is taken; a verification error leaves the row
// pending for the next sweep.
func (s *DonationService) Reconcile(ctx context.Context) (confirmed, failed int) {
	pending, err := s.store.ListPendingWithHash()
	if err != nil {
		log.Printf("Reconcile: failed to list pending transactions: %v", err)
		return 0, 0
	}

	for i := range pending {
		tx := &pending[i]

		result, err := s.ledger.Verify(ctx, tx.StellarTxID)
		if err != nil {
			log.Printf("Reconcile: verification error for tx %d (%s): %v", tx.ID, tx.StellarTxID, err)
			continue
		}

		next := models.StatusConfirmed
		extra := store.StatusExtra{
			StellarTxID:       tx.StellarTxID,
			Ledger:            result.Ledger,
			LedgerResponseRaw: datatypes.JSON(result.Raw),
		}
		if !result.Valid {
			next = models.StatusFailed
			extra = store.StatusExtra{LedgerResponseRaw: datatypes.JSON(result.Raw)}
		}

		if _, err := s.store.UpdateStatus(tx.ID, next, extra); err != nil {
			log.Printf("Reconcile: failed to update tx %d to %s: %v", tx.ID, next, err)
			continue
		}
		if next == models.StatusConfirmed {
			confirmed++
		} else {
			failed++
		}
	}
	return confirmed, failed
}
