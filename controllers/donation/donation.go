package donationController

import (
	"errors"
	"strconv"

	"github.com/XOUL-LABS/Stellar-Micro-Donation-API/apperrors"
	"github.com/XOUL-LABS/Stellar-Micro-Donation-API/middleware"
	"github.com/XOUL-LABS/Stellar-Micro-Donation-API/services"
	donationValidator "github.com/XOUL-LABS/Stellar-Micro-Donation-API/validators/donation"

	"github.com/gofiber/fiber/v2"
)

// Service is the donation service instance, wired from main.
var Service *services.DonationService

// Init sets the donation service used by the handlers.
func Init(service *services.DonationService) {
	Service = service
}

// errorResponse maps typed service errors onto HTTP responses.
func errorResponse(c *fiber.Ctx, err error) error {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, validationErr.Message, fiber.Map{
			"code":  validationErr.Code,
			"field": validationErr.Field,
		})
	}

	var notFoundErr *apperrors.NotFoundError
	if errors.As(err, &notFoundErr) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Donation not found!", fiber.Map{
			"code": notFoundErr.Code,
		})
	}

	var transitionErr *apperrors.InvalidStateTransitionError
	if errors.As(err, &transitionErr) {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, transitionErr.Error(), fiber.Map{
			"code": apperrors.CodeInvalidStateTransition,
			"from": transitionErr.From,
			"to":   transitionErr.To,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Internal server error!", fiber.Map{
		"code": apperrors.CodeInternalError,
	})
}

// CreateDonation records a new donation idempotently. Replays with a known
// Idempotency-Key return the original record with a 200.
func CreateDonation(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCreateDonation").(*donationValidator.CreateDonationBody)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	transaction, created, err := Service.Create(services.CreateDonationRequest{
		IdempotencyKey: c.Get("Idempotency-Key"),
		Amount:         reqData.Amount,
		Donor:          reqData.Donor,
		Recipient:      reqData.Recipient,
		StellarTxID:    reqData.StellarTxID,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	if !created {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Donation already recorded!", transaction)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Donation recorded!", transaction)
}

// ListDonations returns every donation including ledger-internal fields.
// Admin only; the route is permission-guarded.
func ListDonations(c *fiber.Ctx) error {
	transactions, err := Service.List()
	if err != nil {
		return errorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Donations fetched!", fiber.Map{
		"transactions": transactions,
		"total":        len(transactions),
	})
}

// ListRecentDonations returns sanitized summaries of the latest donations
func ListRecentDonations(c *fiber.Ctx) error {
	limit := services.DefaultRecentLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return errorResponse(c, apperrors.NewValidationError(apperrors.CodeInvalidLimit,
				"limit", "Limit must be a number between 1 and 100!"))
		}
		limit = parsed
	}

	summaries, err := Service.ListRecent(limit)
	if err != nil {
		return errorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Recent donations fetched!", fiber.Map{
		"donations": summaries,
		"count":     len(summaries),
	})
}

// GetDonation returns a single donation by id
func GetDonation(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Donation not found!", fiber.Map{
			"code": apperrors.CodeDonationNotFound,
		})
	}

	transaction, err := Service.GetByID(uint(id))
	if err != nil {
		return errorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Donation fetched!", transaction)
}

// UpdateDonationStatus moves a donation through its status state machine
func UpdateDonationStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Donation not found!", fiber.Map{
			"code": apperrors.CodeDonationNotFound,
		})
	}

	reqData, ok := c.Locals("validatedUpdateStatus").(*donationValidator.UpdateStatusBody)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	transaction, err := Service.UpdateStatus(uint(id), reqData.Status, services.StellarData{
		StellarTxID: reqData.StellarTxID,
		Ledger:      reqData.Ledger,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Donation status updated!", transaction)
}

// VerifyDonation checks a transaction hash against the external ledger
// without touching stored state.
func VerifyDonation(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedVerify").(*donationValidator.VerifyBody)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := Service.Verify(c.Context(), reqData.TransactionHash)
	if err != nil {
		var validationErr *apperrors.ValidationError
		if errors.As(err, &validationErr) {
			return errorResponse(c, err)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Verification failed!", fiber.Map{
			"code": "VERIFICATION_FAILED",
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Verification completed!", result)
}
