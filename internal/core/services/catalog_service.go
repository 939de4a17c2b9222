package services

import (
	"context"
	"errors"
	"log"

	"libtrack/internal/adapters/persistence/models"
	"libtrack/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Catalog errors
var (
	ErrAuthorNotFound   = errors.New("author not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
	ErrBookHasOpenLoans = errors.New("book has open loans")
	ErrAuthorInUse      = errors.New("author is referenced by books")
	ErrCategoryInUse    = errors.New("category is referenced by books")
)

// CatalogService handles admin maintenance of books, authors and categories
type CatalogService struct {
	bookRepo     repositories.BookRepository
	authorRepo   repositories.AuthorRepository
	categoryRepo repositories.CategoryRepository
	loanRepo     repositories.LoanRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	bookRepo repositories.BookRepository,
	authorRepo repositories.AuthorRepository,
	categoryRepo repositories.CategoryRepository,
	loanRepo repositories.LoanRepository,
) *CatalogService {
	return &CatalogService{
		bookRepo:     bookRepo,
		authorRepo:   authorRepo,
		categoryRepo: categoryRepo,
		loanRepo:     loanRepo,
	}
}

// BookInput represents book create/update input
type BookInput struct {
	Title          string `json:"title" validate:"required,min=1,max=200"`
	Year           int    `json:"year" validate:"required"`
	AvailableCount int    `json:"available_count" validate:"min=0"`
	CategoryID     uint   `json:"category_id" validate:"required"`
	AuthorID       uint   `json:"author_id" validate:"required"`
}

// AuthorInput represents author create input
type AuthorInput struct {
	Name    string `json:"name" validate:"required,min=1,max=100"`
	Surname string `json:"surname" validate:"required,min=1,max=100"`
}

// CategoryInput represents category create input
type CategoryInput struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// ============================================================
// Books
// ============================================================

// CreateBooks creates one or more books in a single batch.
// Each book must reference an existing category and author.
func (s *CatalogService) CreateBooks(ctx context.Context, inputs []*BookInput) ([]*models.Book, error) {
	books := make([]*models.Book, 0, len(inputs))
	for _, input := range inputs {
		if _, err := s.categoryRepo.GetByID(ctx, input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		if _, err := s.authorRepo.GetByID(ctx, input.AuthorID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAuthorNotFound
			}
			return nil, err
		}
		books = append(books, &models.Book{
			Title:          input.Title,
			Year:           input.Year,
			AvailableCount: input.AvailableCount,
			CategoryID:     input.CategoryID,
			AuthorID:       input.AuthorID,
		})
	}

	if err := s.bookRepo.CreateBatch(ctx, books); err != nil {
		return nil, err
	}

	log.Printf("✅ Created %d book(s)", len(books))
	return books, nil
}

// GetBook returns a single book with its author and category preloaded
func (s *CatalogService) GetBook(ctx context.Context, id uint) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

// UpdateBook replaces the mutable fields of a book
func (s *CatalogService) UpdateBook(ctx context.Context, id uint, input *BookInput) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	book.Title = input.Title
	book.Year = input.Year
	book.AvailableCount = input.AvailableCount
	book.CategoryID = input.CategoryID
	book.AuthorID = input.AuthorID

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}

	log.Printf("✅ Book updated: %s (ID: %d)", book.Title, book.ID)
	return book, nil
}

// DeleteBook removes a book from the catalog. A book with open loans
// cannot be deleted; copies must come back first.
func (s *CatalogService) DeleteBook(ctx context.Context, id uint) error {
	open, err := s.loanRepo.CountOpenByBook(ctx, id)
	if err != nil {
		return err
	}
	if open > 0 {
		return ErrBookHasOpenLoans
	}

	if err := s.bookRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}

	log.Printf("✅ Book deleted (ID: %d)", id)
	return nil
}

// ============================================================
// Authors
// ============================================================

// CreateAuthors creates one or more authors in a single batch
func (s *CatalogService) CreateAuthors(ctx context.Context, inputs []*AuthorInput) ([]*models.Author, error) {
	authors := make([]*models.Author, 0, len(inputs))
	for _, input := range inputs {
		authors = append(authors, &models.Author{
			Name:    input.Name,
			Surname: input.Surname,
		})
	}

	if err := s.authorRepo.CreateBatch(ctx, authors); err != nil {
		return nil, err
	}

	log.Printf("✅ Created %d author(s)", len(authors))
	return authors, nil
}

// ListAuthors lists all authors
func (s *CatalogService) ListAuthors(ctx context.Context) ([]*models.Author, error) {
	return s.authorRepo.List(ctx)
}

// DeleteAuthor removes an author that no book references
func (s *CatalogService) DeleteAuthor(ctx context.Context, id uint) error {
	count, err := s.authorRepo.CountBooks(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrAuthorInUse
	}

	if err := s.authorRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAuthorNotFound
		}
		return err
	}

	log.Printf("✅ Author deleted (ID: %d)", id)
	return nil
}

// ============================================================
// Categories
// ============================================================

// CreateCategories creates one or more categories in a single batch.
// Names are unique; a taken name rejects the whole batch.
func (s *CatalogService) CreateCategories(ctx context.Context, inputs []*CategoryInput) ([]*models.Category, error) {
	categories := make([]*models.Category, 0, len(inputs))
	seen := make(map[string]bool, len(inputs))
	for _, input := range inputs {
		if seen[input.Name] {
			return nil, ErrCategoryExists
		}
		seen[input.Name] = true

		_, err := s.categoryRepo.GetByName(ctx, input.Name)
		if err == nil {
			return nil, ErrCategoryExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		categories = append(categories, &models.Category{
			Name: input.Name,
		})
	}

	if err := s.categoryRepo.CreateBatch(ctx, categories); err != nil {
		return nil, err
	}

	log.Printf("✅ Created %d category(ies)", len(categories))
	return categories, nil
}

// ListCategories lists all categories
func (s *CatalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.categoryRepo.List(ctx)
}

// DeleteCategory removes a category by name when no book references it
func (s *CatalogService) DeleteCategory(ctx context.Context, name string) error {
	category, err := s.categoryRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	count, err := s.categoryRepo.CountBooks(ctx, category.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	if err := s.categoryRepo.DeleteByName(ctx, name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	log.Printf("✅ Category deleted: %s", name)
	return nil
}
