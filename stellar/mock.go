package stellar

import (
	"context"
	"fmt"
	"strings"

	"github.com/XOUL-LABS/Stellar-Micro-Donation-API/services"
)

// MockService is a deterministic stand-in for Horizon, selected with
// MOCK_STELLAR=true. Hashes prefixed "bad" verify as invalid; everything
// else confirms on a fixed ledger number.
type MockService struct{}

// NewMockService returns the mock ledger service.
func NewMockService() *MockService {
	return &MockService{}
}

const mockLedger = 123456

func (m *MockService) Verify(_ context.Context, transactionHash string) (*services.VerificationResult, error) {
	if strings.HasPrefix(transactionHash, "bad") {
		return &services.VerificationResult{
			Valid: false,
			Raw:   []byte(fmt.Sprintf(`{"hash":%q,"successful":false}`, transactionHash)),
		}, nil
	}

	return &services.VerificationResult{
		Valid:         true,
		Ledger:        mockLedger,
		CreatedAt:     "2024-01-01T00:00:00Z",
		SourceAccount: "GMOCKSOURCEACCOUNT",
		Raw:           []byte(fmt.Sprintf(`{"hash":%q,"successful":true,"ledger":%d}`, transactionHash, mockLedger)),
	}, nil
}

// LoadAccountBalance reports a fixed testnet balance for any account.
func (m *MockService) LoadAccountBalance(_ context.Context, _ string) (string, error) {
	return "10000.0000000", nil
}

// FundWithFriendbot is a no-op in mock mode.
func (m *MockService) FundWithFriendbot(_ context.Context, _ string) error {
	return nil
}
