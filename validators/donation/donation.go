package donationValidator

import (
	"github.com/XOUL-LABS/Stellar-Micro-Donation-API/middleware"

	"github.com/gofiber/fiber/v2"
)

// CreateDonationBody is the inbound shape for POST /donations. The
// Idempotency-Key travels as a header, not in the body.
type CreateDonationBody struct {
	Amount      float64 `json:"amount"`
	Donor       string  `json:"donor"`
	Recipient   string  `json:"recipient"`
	StellarTxID string  `json:"stellarTxId"`
}

// UpdateStatusBody is the inbound shape for PATCH /donations/:id/status.
type UpdateStatusBody struct {
	Status      string `json:"status"`
	StellarTxID string `json:"stellarTxId"`
	Ledger      uint   `json:"ledger"`
}

// VerifyBody is the inbound shape for POST /donations/verify.
type VerifyBody struct {
	TransactionHash string `json:"transactionHash"`
}

// CreateDonation parses the create request body. Field-level rules live in
// the donation service so they carry machine-readable codes.
func CreateDonation() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateDonationBody)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("validatedCreateDonation", reqData)
		return c.Next()
	}
}

// UpdateStatus validates the status update request
func UpdateStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateStatusBody)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Status == "" {
			errors["status"] = "Status is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUpdateStatus", reqData)
		return c.Next()
	}
}

// Verify validates the transaction verification request
func Verify() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(VerifyBody)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.TransactionHash == "" {
			errors["transactionHash"] = "Transaction hash is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVerify", reqData)
		return c.Next()
	}
}
