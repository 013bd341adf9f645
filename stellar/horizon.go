package stellar

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/XOUL-LABS/Stellar-Micro-Donation-API/services"

	"github.com/go-resty/resty/v2"
)

// HorizonClient talks to a Stellar Horizon server. It implements the
// ledger verification port and serves wallet balance lookups.
type HorizonClient struct {
	client       *resty.Client
	horizonURL   string
	friendbotURL string
}

// NewHorizonClient builds a client for the given Horizon and Friendbot URLs.
func NewHorizonClient(horizonURL, friendbotURL string) *HorizonClient {
	client := resty.New().
		SetTimeout(15 * time.Second).
		SetHeader("Accept", "application/json")

	return &HorizonClient{
		client:       client,
		horizonURL:   horizonURL,
		friendbotURL: friendbotURL,
	}
}

// horizonTransaction is the subset of Horizon's transaction record we use.
type horizonTransaction struct {
	Hash          string `json:"hash"`
	Ledger        uint   `json:"ledger"`
	Successful    bool   `json:"successful"`
	CreatedAt     string `json:"created_at"`
	SourceAccount string `json:"source_account"`
}

// Verify fetches a transaction record by hash. A 404 means the ledger does
// not know the hash and yields an invalid (not errored) result; transport
// failures and other status codes are returned as errors so callers can
// retry on the next sweep.
func (h *HorizonClient) Verify(ctx context.Context, transactionHash string) (*services.VerificationResult, error) {
	url := fmt.Sprintf("%s/transactions/%s", h.horizonURL, transactionHash)

	resp, err := h.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("horizon request failed: %w", err)
	}

	if resp.StatusCode() == 404 {
		return &services.VerificationResult{Valid: false, Raw: resp.Body()}, nil
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("horizon returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var record horizonTransaction
	if err := json.Unmarshal(resp.Body(), &record); err != nil {
		return nil, fmt.Errorf("failed to parse horizon response: %w", err)
	}

	return &services.VerificationResult{
		Valid:         record.Successful,
		Ledger:        record.Ledger,
		CreatedAt:     record.CreatedAt,
		SourceAccount: record.SourceAccount,
		Raw:           resp.Body(),
	}, nil
}

// horizonAccount is the subset of Horizon's account record we use.
type horizonAccount struct {
	Balances []struct {
		Balance   string `json:"balance"`
		AssetType string `json:"asset_type"`
	} `json:"balances"`
}

// LoadAccountBalance returns the native XLM balance for a public key.
func (h *HorizonClient) LoadAccountBalance(ctx context.Context, publicKey string) (string, error) {
	url := fmt.Sprintf("%s/accounts/%s", h.horizonURL, publicKey)

	resp, err := h.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("horizon request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("horizon returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var account horizonAccount
	if err := json.Unmarshal(resp.Body(), &account); err != nil {
		return "", fmt.Errorf("failed to parse horizon response: %w", err)
	}

	for _, balance := range account.Balances {
		if balance.AssetType == "native" {
			return balance.Balance, nil
		}
	}
	return "", fmt.Errorf("account %s has no native balance", publicKey)
}

// FundWithFriendbot asks the testnet Friendbot to fund a new account.
func (h *HorizonClient) FundWithFriendbot(ctx context.Context, publicKey string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParam("addr", publicKey).
		Get(h.friendbotURL)
	if err != nil {
		return fmt.Errorf("friendbot request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("friendbot returned status %d: %s", resp.StatusCode(), resp.String())
	}

	log.Printf("Funded wallet %s via friendbot", publicKey)
	return nil
}
