package donationRoutes

import (
	donationController "github.com/XOUL-LABS/Stellar-Micro-Donation-API/controllers/donation"
	"github.com/XOUL-LABS/Stellar-Micro-Donation-API/middleware"
	donationValidator "github.com/XOUL-LABS/Stellar-Micro-Donation-API/validators/donation"

	"github.com/gofiber/fiber/v2"
)

func SetupDonationRoutes(app *fiber.App) {
	donationGroup := app.Group("/donations")

	// Public routes
	donationGroup.Post("/", donationValidator.CreateDonation(), donationController.CreateDonation)
	donationGroup.Get("/recent", donationController.ListRecentDonations)
	donationGroup.Post("/verify", donationValidator.Verify(), donationController.VerifyDonation)
	donationGroup.Get("/:id", donationController.GetDonation)

	// Ops routes
	donationGroup.Get("/", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("donations:list_all"), donationController.ListDonations)
	donationGroup.Patch("/:id/status", donationValidator.UpdateStatus(), middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("donations:update_status"), donationController.UpdateDonationStatus)
}
