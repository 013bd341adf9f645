package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/XOUL-LABS/Stellar-Micro-Donation-API/apperrors"
	"github.com/XOUL-LABS/Stellar-Micro-Donation-API/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TransactionStore owns durable keyed storage for donation transactions.
// Mutating operations hold the exclusive lock across their whole
// load-validate-merge-persist sequence; reads hold the shared lock. No
// network I/O may happen while either lock is held.
type TransactionStore struct {
	db *gorm.DB
	mu sync.RWMutex
}

// StatusExtra carries the ledger confirmation fields merged into a
// transaction on a successful status transition. ConfirmedAt is stamped by
// the store itself and is not settable by callers.
type StatusExtra struct {
	StellarTxID       string
	Ledger            uint
	LedgerResponseRaw datatypes.JSON
}

// NewTransactionStore wraps an open database connection.
func NewTransactionStore(db *gorm.DB) *TransactionStore {
	return &TransactionStore{db: db}
}

// Create inserts a new transaction unless one already exists for the
// draft's idempotency key, in which case the existing record is returned
// unchanged and created is false. The check-then-insert runs under the
// exclusive lock, and the unique index on idempotency_key backstops it, so
// two concurrent creates with the same key cannot both insert.
func (s *TransactionStore) Create(draft *models.Transaction) (*models.Transaction, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing models.Transaction
	err := s.db.Where("idempotency_key = ?", draft.IdempotencyKey).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, &apperrors.InternalError{Op: "lookup idempotency key", Err: err}
	}

	if err := s.db.Create(draft).Error; err != nil {
		// Lost a race the lock should have prevented (e.g. a second
		// process on the same database): fall back to the winner's row.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if lookupErr := s.db.Where("idempotency_key = ?", draft.IdempotencyKey).First(&existing).Error; lookupErr == nil {
				return &existing, false, nil
			}
		}
		return nil, false, &apperrors.InternalError{Op: "create transaction", Err: err}
	}
	return draft, true, nil
}

// GetAll returns a snapshot of every transaction in insertion order.
func (s *TransactionStore) GetAll() ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var transactions []models.Transaction
	if err := s.db.Order("id asc").Find(&transactions).Error; err != nil {
		return nil, &apperrors.InternalError{Op: "list transactions", Err: err}
	}
	return transactions, nil
}

// GetByID returns one transaction or a NotFoundError.
func (s *TransactionStore) GetByID(id uint) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getByID(id)
}

func (s *TransactionStore) getByID(id uint) (*models.Transaction, error) {
	var transaction models.Transaction
	err := s.db.First(&transaction, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperrors.NotFoundError{
			Code:     apperrors.CodeDonationNotFound,
			Resource: "donation",
			ID:       fmt.Sprintf("%d", id),
		}
	}
	if err != nil {
		return nil, &apperrors.InternalError{Op: "load transaction", Err: err}
	}
	return &transaction, nil
}

// GetRecent returns up to limit transactions, most recent timestamp first.
func (s *TransactionStore) GetRecent(limit int) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var transactions []models.Transaction
	if err := s.db.Order("timestamp desc").Limit(limit).Find(&transactions).Error; err != nil {
		return nil, &apperrors.InternalError{Op: "list recent transactions", Err: err}
	}
	return transactions, nil
}

// ListPendingWithHash returns pending transactions that carry a ledger
// transaction hash and are therefore eligible for reconciliation.
func (s *TransactionStore) ListPendingWithHash() ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var transactions []models.Transaction
	err := s.db.
		Where("status = ? AND stellar_tx_id <> ''", models.StatusPending).
		Order("id asc").
		Find(&transactions).Error
	if err != nil {
		return nil, &apperrors.InternalError{Op: "list pending transactions", Err: err}
	}
	return transactions, nil
}

// UpdateStatus performs an atomic load -> validate -> merge -> persist for
// one transaction. An invalid transition aborts before any mutation.
// Entering confirmed stamps ConfirmedAt with the current time.
func (s *TransactionStore) UpdateStatus(id uint, next models.TransactionStatus, extra StatusExtra) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	transaction, err := s.getByID(id)
	if err != nil {
		return nil, err
	}

	if err := models.ValidateTransition(transaction.Status, next); err != nil {
		return nil, err
	}

	transaction.Status = next
	if extra.StellarTxID != "" {
		transaction.StellarTxID = extra.StellarTxID
	}
	if extra.Ledger != 0 {
		transaction.Ledger = extra.Ledger
	}
	if len(extra.LedgerResponseRaw) > 0 {
		transaction.LedgerResponseRaw = extra.LedgerResponseRaw
	}
	if next == models.StatusConfirmed {
		now := time.Now()
		transaction.ConfirmedAt = &now
	}

	tx := s.db.Begin()
	if err := tx.Save(transaction).Error; err != nil {
		tx.Rollback()
		return nil, &apperrors.InternalError{Op: "persist status update", Err: err}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, &apperrors.InternalError{Op: "commit status update", Err: err}
	}
	return transaction, nil
}

// Count returns the number of stored transactions.
func (s *TransactionStore) Count() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	if err := s.db.Model(&models.Transaction{}).Count(&count).Error; err != nil {
		return 0, &apperrors.InternalError{Op: "count transactions", Err: err}
	}
	return count, nil
}
