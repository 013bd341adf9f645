package walletRoutes

import (
	walletController "github.com/XOUL-LABS/Stellar-Micro-Donation-API/controllers/wallet"

	"github.com/gofiber/fiber/v2"
)

func SetupWalletRoutes(app *fiber.App) {
	app.Post("/wallets", walletController.CreateWallet)
	app.Get("/wallet/:id", walletController.GetWalletBalance)
}
