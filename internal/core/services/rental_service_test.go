package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"libtrack/internal/adapters/persistence/models"
	"libtrack/internal/adapters/persistence/repositories"
	"libtrack/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRentalService(t *testing.T) (*RentalService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	return NewRentalService(db, repositories.NewBookRepository(db), repositories.NewLoanRepository(db)), db
}

func bookCount(t *testing.T, db *gorm.DB, bookID uint) int {
	t.Helper()
	var book models.Book
	require.NoError(t, db.First(&book, bookID).Error)
	return book.AvailableCount
}

func TestToggleRentsThenReturns(t *testing.T) {
	svc, db := newRentalService(t)
	ctx := context.Background()

	bookID := testutil.SeedCatalog(t, db, 3)
	userID := testutil.SeedUser(t, db, "reader@example.org", false)

	// First toggle opens a loan and takes one copy
	result, err := svc.Toggle(ctx, userID, bookID)
	require.NoError(t, err)
	assert.False(t, result.Returned)
	assert.Equal(t, 2, result.AvailableBook)
	assert.Equal(t, 2, bookCount(t, db, bookID))

	var loan models.LoanRecord
	require.NoError(t, db.First(&loan, result.LoanID).Error)
	assert.Equal(t, userID, loan.UserID)
	assert.Equal(t, bookID, loan.BookID)
	assert.False(t, loan.IsReturned)
	assert.Nil(t, loan.ReturnedAt)

	// Second toggle closes the same record and puts the copy back
	result, err = svc.Toggle(ctx, userID, bookID)
	require.NoError(t, err)
	assert.True(t, result.Returned)
	assert.Equal(t, loan.ID, result.LoanID)
	assert.Equal(t, 3, result.AvailableBook)
	assert.Equal(t, 3, bookCount(t, db, bookID))

	require.NoError(t, db.First(&loan, loan.ID).Error)
	assert.True(t, loan.IsReturned)
	assert.NotNil(t, loan.ReturnedAt)

	// Only one ledger row for the whole cycle
	var total int64
	require.NoError(t, db.Model(&models.LoanRecord{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)
}

func TestRentRejectsDoubleRent(t *testing.T) {
	svc, db := newRentalService(t)
	ctx := context.Background()

	bookID := testutil.SeedCatalog(t, db, 3)
	userID := testutil.SeedUser(t, db, "reader@example.org", false)

	_, err := svc.Rent(ctx, userID, bookID)
	require.NoError(t, err)

	_, err = svc.Rent(ctx, userID, bookID)
	assert.ErrorIs(t, err, ErrAlreadyRented)

	// Counter moved exactly once
	assert.Equal(t, 2, bookCount(t, db, bookID))
}

func TestReturnWithoutLoan(t *testing.T) {
	svc, db := newRentalService(t)
	ctx := context.Background()

	bookID := testutil.SeedCatalog(t, db, 3)
	userID := testutil.SeedUser(t, db, "reader@example.org", false)

	_, err := svc.Return(ctx, userID, bookID)
	assert.ErrorIs(t, err, ErrNotRented)
	assert.Equal(t, 3, bookCount(t, db, bookID))
}

func TestRentOutOfStock(t *testing.T) {
	svc, db := newRentalService(t)
	ctx := context.Background()

	bookID := testutil.SeedCatalog(t, db, 0)
	userID := testutil.SeedUser(t, db, "reader@example.org", false)

	_, err := svc.Toggle(ctx, userID, bookID)
	assert.ErrorIs(t, err, ErrOutOfStock)

	// The failed rent leaves no ledger row behind
	var total int64
	require.NoError(t, db.Model(&models.LoanRecord{}).Count(&total).Error)
	assert.Equal(t, int64(0), total)
	assert.Equal(t, 0, bookCount(t, db, bookID))
}

func TestRentUnknownBook(t *testing.T) {
	svc, db := newRentalService(t)
	ctx := context.Background()

	userID := testutil.SeedUser(t, db, "reader@example.org", false)

	_, err := svc.Toggle(ctx, userID, 9999)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestConcurrentRentersSingleCopy(t *testing.T) {
	svc, db := newRentalService(t)
	ctx := context.Background()

	bookID := testutil.SeedCatalog(t, db, 1)
	alice := testutil.SeedUser(t, db, "alice@example.org", false)
	bob := testutil.SeedUser(t, db, "bob@example.org", false)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for i, userID := range []uint{alice, bob} {
		go func(i int, userID uint) {
			defer wg.Done()
			_, errs[i] = svc.Toggle(ctx, userID, bookID)
		}(i, userID)
	}
	wg.Wait()

	var succeeded, outOfStock int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrOutOfStock):
			outOfStock++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded, "exactly one renter gets the copy")
	assert.Equal(t, 1, outOfStock)
	assert.Equal(t, 0, bookCount(t, db, bookID))

	var open int64
	require.NoError(t, db.Model(&models.LoanRecord{}).Where("is_returned = ?", false).Count(&open).Error)
	assert.Equal(t, int64(1), open)
}

func TestSameUserConcurrentToggles(t *testing.T) {
	svc, db := newRentalService(t)
	ctx := context.Background()

	bookID := testutil.SeedCatalog(t, db, 5)
	userID := testutil.SeedUser(t, db, "reader@example.org", false)

	// An even number of toggles always lands back at the start state
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Toggle(ctx, userID, bookID)
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	var open int64
	require.NoError(t, db.Model(&models.LoanRecord{}).
		Where("user_id = ? AND book_id = ? AND is_returned = ?", userID, bookID, false).
		Count(&open).Error)
	assert.Equal(t, int64(0), open)
	assert.Equal(t, 5, bookCount(t, db, bookID))
}
