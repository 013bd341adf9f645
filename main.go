package main

import (
	"log"

	"github.com/XOUL-LABS/Stellar-Micro-Donation-API/config"
	donationController "github.com/XOUL-LABS/Stellar-Micro-Donation-API/controllers/donation"
	walletController "github.com/XOUL-LABS/Stellar-Micro-Donation-API/controllers/wallet"
	"github.com/XOUL-LABS/Stellar-Micro-Donation-API/database"
	donationRoutes "github.com/XOUL-LABS/Stellar-Micro-Donation-API/routers/donationRoutes"
	walletRoutes "github.com/XOUL-LABS/Stellar-Micro-Donation-API/routers/walletRoutes"
	"github.com/XOUL-LABS/Stellar-Micro-Donation-API/services"
	"github.com/XOUL-LABS/Stellar-Micro-Donation-API/stellar"
	"github.com/XOUL-LABS/Stellar-Micro-Donation-API/store"
	"github.com/XOUL-LABS/Stellar-Micro-Donation-API/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	// Ledger side: real Horizon or the deterministic mock
	var (
		ledger  services.LedgerSync
		gateway walletController.HorizonGateway
	)
	if config.AppConfig.MockStellar {
		mock := stellar.NewMockService()
		ledger, gateway = mock, mock
	} else {
		horizon := stellar.NewHorizonClient(config.AppConfig.HorizonURL, config.AppConfig.FriendbotURL)
		ledger, gateway = horizon, horizon
	}

	txStore := store.NewTransactionStore(database.Database.Db)
	donationService := services.NewDonationService(txStore, ledger)

	donationController.Init(donationService)
	walletController.Init(gateway)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,DELETE",      // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization,Idempotency-Key", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	donationRoutes.SetupDonationRoutes(app)
	walletRoutes.SetupWalletRoutes(app)

	scheduler := utils.StartLedgerSyncScheduler(donationService)
	defer scheduler.Stop()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
