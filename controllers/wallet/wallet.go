package walletController

import (
	"context"
	"log"

	"github.com/XOUL-LABS/Stellar-Micro-Donation-API/database"
	"github.com/XOUL-LABS/Stellar-Micro-Donation-API/middleware"
	"github.com/XOUL-LABS/Stellar-Micro-Donation-API/models"
	"github.com/XOUL-LABS/Stellar-Micro-Donation-API/stellar"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HorizonGateway is what the wallet handlers need from the ledger side:
// testnet funding at mint time and balance lookups afterwards.
type HorizonGateway interface {
	FundWithFriendbot(ctx context.Context, publicKey string) error
	LoadAccountBalance(ctx context.Context, publicKey string) (string, error)
}

// Gateway is the horizon gateway instance, wired from main.
var Gateway HorizonGateway

// Init sets the horizon gateway used by the handlers.
func Init(gateway HorizonGateway) {
	Gateway = gateway
}

// CreateWallet mints a keypair, funds it via friendbot and stores the
// public half. The seed is never persisted or returned.
func CreateWallet(c *fiber.Ctx) error {
	keypair, err := stellar.RandomKeypair()
	if err != nil {
		log.Printf("Failed to generate keypair: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create wallet!", nil)
	}

	if err := Gateway.FundWithFriendbot(c.Context(), keypair.Address); err != nil {
		log.Printf("Friendbot funding failed for %s: %v", keypair.Address, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create wallet!", nil)
	}

	wallet := models.Wallet{
		WalletID:  uuid.NewString(),
		PublicKey: keypair.Address,
	}
	if err := database.Database.Db.Create(&wallet).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create wallet!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Wallet created!", fiber.Map{
		"walletId":  wallet.WalletID,
		"publicKey": wallet.PublicKey,
	})
}

// GetWalletBalance returns the native XLM balance for a stored wallet
func GetWalletBalance(c *fiber.Ctx) error {
	id := c.Params("id")

	var wallet models.Wallet
	if err := database.Database.Db.Where("wallet_id = ?", id).First(&wallet).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Wallet not found!", nil)
	}

	balance, err := Gateway.LoadAccountBalance(c.Context(), wallet.PublicKey)
	if err != nil {
		log.Printf("Failed to fetch balance for %s: %v", wallet.PublicKey, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch wallet balance!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Wallet balance fetched!", fiber.Map{
		"walletId": wallet.WalletID,
		"balance":  balance,
		"asset":    "XLM",
	})
}
