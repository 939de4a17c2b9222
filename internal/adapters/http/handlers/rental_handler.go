package handlers

import (
	"errors"

	"libtrack/internal/core/services"
	"libtrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RentalHandler handles rent/return and rent history endpoints
type RentalHandler struct {
	rentalService  *services.RentalService
	listingService *services.ListingService
}

// NewRentalHandler creates a new rental handler
func NewRentalHandler(rentalService *services.RentalService, listingService *services.ListingService) *RentalHandler {
	return &RentalHandler{
		rentalService:  rentalService,
		listingService: listingService,
	}
}

// RentRequest represents the optional rent request body.
// Without a body the endpoint toggles; "rent" and "return" force
// one direction and conflict when the loan state disagrees.
type RentRequest struct {
	Action string `json:"action"`
}

// Rent handles the rent/return transition for a book
// @Summary Rent or return a book
// @Description Toggle the caller's loan for a book, or force a direction with {"action":"rent"|"return"}
// @Tags Rentals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param body body RentRequest false "Optional action"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /book/{id}/rent [post]
func (h *RentalHandler) Rent(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid book ID")
	}
	bookID := uint(id)

	// Body is optional; no body means toggle, a present body must parse
	var req RentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}

	var result *services.ToggleResult
	switch req.Action {
	case "":
		result, err = h.rentalService.Toggle(c.Context(), userID, bookID)
	case "rent":
		result, err = h.rentalService.Rent(c.Context(), userID, bookID)
	case "return":
		result, err = h.rentalService.Return(c.Context(), userID, bookID)
	default:
		return response.BadRequest(c, "Action must be 'rent' or 'return'")
	}

	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		case errors.Is(err, services.ErrOutOfStock):
			return response.Conflict(c, "No copies available")
		case errors.Is(err, services.ErrAlreadyRented):
			return response.Conflict(c, "Book already rented by you")
		case errors.Is(err, services.ErrNotRented):
			return response.Conflict(c, "Book is not rented by you")
		default:
			return response.InternalServerError(c, "Failed to process rental")
		}
	}

	message := "Book rented successfully"
	if result.Returned {
		message = "Book returned successfully"
	}

	return response.Success(c, message, fiber.Map{
		"returned":       result.Returned,
		"loan_id":        result.LoanID,
		"available_book": result.AvailableBook,
	})
}

// History handles the rent history listing
// @Summary List rent history
// @Description List loan records; admins see all users, regular users see their own
// @Tags Rentals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /rents-list [get]
func (h *RentalHandler) History(c *fiber.Ctx) error {
	identity := identityFromLocals(c)
	if identity == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	rents, err := h.listingService.ListRentHistory(c.Context(), identity)
	if err != nil {
		return response.InternalServerError(c, "Failed to list rents")
	}

	return response.Success(c, "Rents retrieved successfully", fiber.Map{
		"rents":    rents,
		"is_admin": identity.IsAdmin,
	})
}
