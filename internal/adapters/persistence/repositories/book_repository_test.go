package repositories

import (
	"context"
	"testing"

	"libtrack/internal/adapters/persistence/models"
	"libtrack/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAdjustAvailabilityGuards(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBookRepository(db)

	bookID := testutil.SeedCatalog(t, db, 1)

	// Take the only copy
	count, err := repo.AdjustAvailability(db, bookID, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// A further decrement touches nothing
	_, err = repo.AdjustAvailability(db, bookID, -1)
	assert.ErrorIs(t, err, ErrNoStock)

	var book models.Book
	require.NoError(t, db.First(&book, bookID).Error)
	assert.Equal(t, 0, book.AvailableCount)

	// Increments always go through
	count, err = repo.AdjustAvailability(db, bookID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Unknown book
	_, err = repo.AdjustAvailability(db, 9999, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListJoinedConcatenatesAuthor(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBookRepository(db)

	testutil.SeedCatalog(t, db, 2)

	rows, err := repo.ListJoined(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Nineteen Eighty-Four", rows[0].Title)
	assert.Equal(t, "George Orwell", rows[0].AuthorName)
	assert.Equal(t, "Classic", rows[0].CategoryName)
	assert.Equal(t, 2, rows[0].AvailableCount)
}
