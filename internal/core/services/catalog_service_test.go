package services

import (
	"context"
	"testing"

	"libtrack/internal/adapters/persistence/models"
	"libtrack/internal/adapters/persistence/repositories"
	"libtrack/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCatalogFixture(t *testing.T) (*CatalogService, *RentalService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	bookRepo := repositories.NewBookRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	svc := NewCatalogService(bookRepo, repositories.NewAuthorRepository(db), repositories.NewCategoryRepository(db), loanRepo)
	return svc, NewRentalService(db, bookRepo, loanRepo), db
}

func TestCreateBooksBatch(t *testing.T) {
	svc, _, db := newCatalogFixture(t)
	ctx := context.Background()

	authors, err := svc.CreateAuthors(ctx, []*AuthorInput{{Name: "Jane", Surname: "Austen"}})
	require.NoError(t, err)
	categories, err := svc.CreateCategories(ctx, []*CategoryInput{{Name: "Classic"}})
	require.NoError(t, err)

	books, err := svc.CreateBooks(ctx, []*BookInput{
		{Title: "Pride and Prejudice", Year: 1813, AvailableCount: 2, CategoryID: categories[0].ID, AuthorID: authors[0].ID},
		{Title: "Emma", Year: 1815, AvailableCount: 1, CategoryID: categories[0].ID, AuthorID: authors[0].ID},
	})
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.NotZero(t, books[0].ID)

	var count int64
	require.NoError(t, db.Model(&models.Book{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestCreateBooksUnknownReferences(t *testing.T) {
	svc, _, _ := newCatalogFixture(t)
	ctx := context.Background()

	_, err := svc.CreateBooks(ctx, []*BookInput{
		{Title: "Ghost", Year: 2000, AvailableCount: 1, CategoryID: 42, AuthorID: 42},
	})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	categories, err := svc.CreateCategories(ctx, []*CategoryInput{{Name: "Horror"}})
	require.NoError(t, err)

	_, err = svc.CreateBooks(ctx, []*BookInput{
		{Title: "Ghost", Year: 2000, AvailableCount: 1, CategoryID: categories[0].ID, AuthorID: 42},
	})
	assert.ErrorIs(t, err, ErrAuthorNotFound)
}

func TestDeleteBookWithOpenLoans(t *testing.T) {
	svc, rental, db := newCatalogFixture(t)
	ctx := context.Background()

	bookID := testutil.SeedCatalog(t, db, 1)
	userID := testutil.SeedUser(t, db, "reader@example.org", false)

	_, err := rental.Rent(ctx, userID, bookID)
	require.NoError(t, err)

	err = svc.DeleteBook(ctx, bookID)
	assert.ErrorIs(t, err, ErrBookHasOpenLoans)

	// After the return the delete goes through
	_, err = rental.Return(ctx, userID, bookID)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteBook(ctx, bookID))

	err = svc.DeleteBook(ctx, bookID)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestDeleteAuthorGuards(t *testing.T) {
	svc, _, db := newCatalogFixture(t)
	ctx := context.Background()

	bookID := testutil.SeedCatalog(t, db, 1)

	var book models.Book
	require.NoError(t, db.First(&book, bookID).Error)

	err := svc.DeleteAuthor(ctx, book.AuthorID)
	assert.ErrorIs(t, err, ErrAuthorInUse)

	require.NoError(t, svc.DeleteBook(ctx, bookID))
	require.NoError(t, svc.DeleteAuthor(ctx, book.AuthorID))

	err = svc.DeleteAuthor(ctx, book.AuthorID)
	assert.ErrorIs(t, err, ErrAuthorNotFound)
}

func TestCreateCategoriesDuplicateName(t *testing.T) {
	svc, _, db := newCatalogFixture(t)
	ctx := context.Background()

	_, err := svc.CreateCategories(ctx, []*CategoryInput{{Name: "Classic"}})
	require.NoError(t, err)

	_, err = svc.CreateCategories(ctx, []*CategoryInput{{Name: "Classic"}})
	assert.ErrorIs(t, err, ErrCategoryExists)

	// A taken name anywhere in the batch rejects the whole batch
	_, err = svc.CreateCategories(ctx, []*CategoryInput{{Name: "Horror"}, {Name: "Classic"}})
	assert.ErrorIs(t, err, ErrCategoryExists)

	// So does the same name twice within one batch
	_, err = svc.CreateCategories(ctx, []*CategoryInput{{Name: "Sci-Fi"}, {Name: "Sci-Fi"}})
	assert.ErrorIs(t, err, ErrCategoryExists)

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDeleteCategoryGuards(t *testing.T) {
	svc, _, db := newCatalogFixture(t)
	ctx := context.Background()

	bookID := testutil.SeedCatalog(t, db, 1)

	err := svc.DeleteCategory(ctx, "Classic")
	assert.ErrorIs(t, err, ErrCategoryInUse)

	require.NoError(t, svc.DeleteBook(ctx, bookID))
	require.NoError(t, svc.DeleteCategory(ctx, "Classic"))

	err = svc.DeleteCategory(ctx, "Classic")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestUpdateBook(t *testing.T) {
	svc, _, db := newCatalogFixture(t)
	ctx := context.Background()

	bookID := testutil.SeedCatalog(t, db, 1)

	var book models.Book
	require.NoError(t, db.First(&book, bookID).Error)

	updated, err := svc.UpdateBook(ctx, bookID, &BookInput{
		Title:          "Animal Farm",
		Year:           1945,
		AvailableCount: 4,
		CategoryID:     book.CategoryID,
		AuthorID:       book.AuthorID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Animal Farm", updated.Title)
	assert.Equal(t, 4, updated.AvailableCount)

	_, err = svc.UpdateBook(ctx, 9999, &BookInput{Title: "X", CategoryID: 1, AuthorID: 1})
	assert.ErrorIs(t, err, ErrBookNotFound)
}
