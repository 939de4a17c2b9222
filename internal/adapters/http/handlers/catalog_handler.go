package handlers

import (
	"errors"

	"libtrack/internal/core/services"
	"libtrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles author and category endpoints
type CatalogHandler struct {
	catalogService *services.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// AuthorRequest represents author create request body
type AuthorRequest struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

// CategoryRequest represents category create request body
type CategoryRequest struct {
	Name string `json:"name"`
}

// ListAuthors handles author listing
// @Summary List authors
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /authors [get]
func (h *CatalogHandler) ListAuthors(c *fiber.Ctx) error {
	authors, err := h.catalogService.ListAuthors(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list authors")
	}

	return response.Success(c, "Authors retrieved successfully", authors)
}

// CreateAuthors handles author creation, single or batch
// @Summary Create authors
// @Description Create one or more authors (admin only)
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body []AuthorRequest true "Authors to create"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /authors [post]
func (h *CatalogHandler) CreateAuthors(c *fiber.Ctx) error {
	reqs, ok := parseOneOrMany[AuthorRequest](c)
	if !ok {
		return response.BadRequest(c, "Invalid request body")
	}
	if len(reqs) == 0 {
		return response.BadRequest(c, "At least one author is required")
	}

	inputs := make([]*services.AuthorInput, 0, len(reqs))
	for _, req := range reqs {
		if req.Name == "" || req.Surname == "" {
			return response.BadRequest(c, "Name and surname are required")
		}
		inputs = append(inputs, &services.AuthorInput{
			Name:    req.Name,
			Surname: req.Surname,
		})
	}

	authors, err := h.catalogService.CreateAuthors(c.Context(), inputs)
	if err != nil {
		return response.InternalServerError(c, "Failed to create authors")
	}

	return response.Created(c, "Authors created successfully", authors)
}

// DeleteAuthor handles author deletion
// @Summary Delete author
// @Description Delete an author that no book references (admin only)
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param id path int true "Author ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /authors/{id} [delete]
func (h *CatalogHandler) DeleteAuthor(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid author ID")
	}

	if err := h.catalogService.DeleteAuthor(c.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, services.ErrAuthorNotFound):
			return response.NotFound(c, "Author not found")
		case errors.Is(err, services.ErrAuthorInUse):
			return response.Conflict(c, "Author is referenced by books")
		default:
			return response.InternalServerError(c, "Failed to delete author")
		}
	}

	return response.Success(c, "Author deleted successfully", nil)
}

// ListCategories handles category listing
// @Summary List categories
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /categories [get]
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalogService.ListCategories(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list categories")
	}

	return response.Success(c, "Categories retrieved successfully", categories)
}

// CreateCategories handles category creation, single or batch
// @Summary Create categories
// @Description Create one or more categories (admin only)
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body []CategoryRequest true "Categories to create"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /categories [post]
func (h *CatalogHandler) CreateCategories(c *fiber.Ctx) error {
	reqs, ok := parseOneOrMany[CategoryRequest](c)
	if !ok {
		return response.BadRequest(c, "Invalid request body")
	}
	if len(reqs) == 0 {
		return response.BadRequest(c, "At least one category is required")
	}

	inputs := make([]*services.CategoryInput, 0, len(reqs))
	for _, req := range reqs {
		if req.Name == "" {
			return response.BadRequest(c, "Name is required")
		}
		inputs = append(inputs, &services.CategoryInput{Name: req.Name})
	}

	categories, err := h.catalogService.CreateCategories(c.Context(), inputs)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCategoryExists):
			return response.Conflict(c, "Category name already exists")
		default:
			return response.InternalServerError(c, "Failed to create categories")
		}
	}

	return response.Created(c, "Categories created successfully", categories)
}

// DeleteCategory handles category deletion by name
// @Summary Delete category
// @Description Delete a category by name when no book references it (admin only)
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param name path string true "Category name"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /categories/{name} [delete]
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return response.BadRequest(c, "Category name is required")
	}

	if err := h.catalogService.DeleteCategory(c.Context(), name); err != nil {
		switch {
		case errors.Is(err, services.ErrCategoryNotFound):
			return response.NotFound(c, "Category not found")
		case errors.Is(err, services.ErrCategoryInUse):
			return response.Conflict(c, "Category is referenced by books")
		default:
			return response.InternalServerError(c, "Failed to delete category")
		}
	}

	return response.Success(c, "Category deleted successfully", nil)
}
