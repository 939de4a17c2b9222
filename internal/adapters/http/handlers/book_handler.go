package handlers

import (
	"errors"

	"libtrack/internal/core/domain"
	"libtrack/internal/core/services"
	"libtrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BookHandler handles catalog book endpoints
type BookHandler struct {
	listingService *services.ListingService
	catalogService *services.CatalogService
}

// NewBookHandler creates a new book handler
func NewBookHandler(listingService *services.ListingService, catalogService *services.CatalogService) *BookHandler {
	return &BookHandler{
		listingService: listingService,
		catalogService: catalogService,
	}
}

// BookRequest represents book create/update request body
type BookRequest struct {
	Title          string `json:"title"`
	Year           int    `json:"year"`
	AvailableCount int    `json:"available_count"`
	CategoryID     uint   `json:"category_id"`
	AuthorID       uint   `json:"author_id"`
}

// List handles the role-differentiated catalog listing
// @Summary List books
// @Description List books visible to the caller; regular users see only available or held books
// @Tags Books
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /book-list [get]
func (h *BookHandler) List(c *fiber.Ctx) error {
	identity := identityFromLocals(c)
	if identity == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	view, err := h.listingService.ListBooks(c.Context(), identity)
	if err != nil {
		return response.InternalServerError(c, "Failed to list books")
	}

	return response.Success(c, "Books retrieved successfully", view)
}

// Get handles fetching a single book
// @Summary Get book
// @Description Get a single book with author and category
// @Tags Books
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /book/{id} [get]
func (h *BookHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid book ID")
	}

	book, err := h.catalogService.GetBook(c.Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		default:
			return response.InternalServerError(c, "Failed to get book")
		}
	}

	return response.Success(c, "Book retrieved successfully", book)
}

// Create handles book creation, single or batch
// @Summary Create books
// @Description Create one or more books (admin only)
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body []BookRequest true "Books to create"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /book [post]
func (h *BookHandler) Create(c *fiber.Ctx) error {
	reqs, ok := parseOneOrMany[BookRequest](c)
	if !ok {
		return response.BadRequest(c, "Invalid request body")
	}
	if len(reqs) == 0 {
		return response.BadRequest(c, "At least one book is required")
	}

	inputs := make([]*services.BookInput, 0, len(reqs))
	for _, req := range reqs {
		if req.Title == "" {
			return response.BadRequest(c, "Title is required")
		}
		if req.AvailableCount < 0 {
			return response.BadRequest(c, "Available count cannot be negative")
		}
		if req.CategoryID == 0 || req.AuthorID == 0 {
			return response.BadRequest(c, "Category and author are required")
		}
		inputs = append(inputs, &services.BookInput{
			Title:          req.Title,
			Year:           req.Year,
			AvailableCount: req.AvailableCount,
			CategoryID:     req.CategoryID,
			AuthorID:       req.AuthorID,
		})
	}

	books, err := h.catalogService.CreateBooks(c.Context(), inputs)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCategoryNotFound):
			return response.NotFound(c, "Category not found")
		case errors.Is(err, services.ErrAuthorNotFound):
			return response.NotFound(c, "Author not found")
		default:
			return response.InternalServerError(c, "Failed to create books")
		}
	}

	return response.Created(c, "Books created successfully", books)
}

// Update handles book update
// @Summary Update book
// @Description Update a book's fields (admin only)
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param body body BookRequest true "Book fields"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /book/{id} [put]
func (h *BookHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid book ID")
	}

	var req BookRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Title == "" {
		return response.BadRequest(c, "Title is required")
	}
	if req.AvailableCount < 0 {
		return response.BadRequest(c, "Available count cannot be negative")
	}

	book, err := h.catalogService.UpdateBook(c.Context(), uint(id), &services.BookInput{
		Title:          req.Title,
		Year:           req.Year,
		AvailableCount: req.AvailableCount,
		CategoryID:     req.CategoryID,
		AuthorID:       req.AuthorID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		default:
			return response.InternalServerError(c, "Failed to update book")
		}
	}

	return response.Success(c, "Book updated successfully", book)
}

// Delete handles book deletion
// @Summary Delete book
// @Description Delete a book without open loans (admin only)
// @Tags Books
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /book/{id} [delete]
func (h *BookHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid book ID")
	}

	if err := h.catalogService.DeleteBook(c.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, services.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		case errors.Is(err, services.ErrBookHasOpenLoans):
			return response.Conflict(c, "Book has open loans and cannot be deleted")
		default:
			return response.InternalServerError(c, "Failed to delete book")
		}
	}

	return response.Success(c, "Book deleted successfully", nil)
}

// identityFromLocals rebuilds the caller identity placed by the auth middleware
func identityFromLocals(c *fiber.Ctx) *domain.Identity {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return nil
	}
	email, _ := c.Locals("email").(string)
	isAdmin, _ := c.Locals("isAdmin").(bool)

	return &domain.Identity{
		UserID:  userID,
		Email:   email,
		IsAdmin: isAdmin,
	}
}

// parseOneOrMany accepts either a single JSON object or a JSON array
func parseOneOrMany[T any](c *fiber.Ctx) ([]T, bool) {
	var many []T
	if err := c.BodyParser(&many); err == nil {
		return many, true
	}

	var one T
	if err := c.BodyParser(&one); err == nil {
		return []T{one}, true
	}

	return nil, false
}
