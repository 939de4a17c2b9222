package repositories

import (
	"context"
	"testing"
	"time"

	"libtrack/internal/adapters/persistence/models"
	"libtrack/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOverdue(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	bookID := testutil.SeedCatalog(t, db, 3)
	userID := testutil.SeedUser(t, db, "reader@example.org", false)

	fresh := &models.LoanRecord{UserID: userID, BookID: bookID, LoanedAt: time.Now()}
	require.NoError(t, db.Create(fresh).Error)

	stale := &models.LoanRecord{UserID: userID, BookID: bookID, LoanedAt: time.Now().AddDate(0, 0, -45)}
	require.NoError(t, db.Create(stale).Error)

	returned := &models.LoanRecord{UserID: userID, BookID: bookID, LoanedAt: time.Now().AddDate(0, 0, -60), IsReturned: true}
	require.NoError(t, db.Create(returned).Error)

	rows, err := repo.ListOverdue(ctx, 30)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, stale.ID, rows[0].ID)
	assert.Equal(t, "reader@example.org", rows[0].Username)
	assert.Equal(t, "Nineteen Eighty-Four", rows[0].BookName)
}

func TestDeleteExpiredTokens(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()

	userID := testutil.SeedUser(t, db, "reader@example.org", false)

	live := &models.RefreshToken{UserID: userID, TokenHash: "live", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, db.Create(live).Error)

	expired := &models.RefreshToken{UserID: userID, TokenHash: "expired", ExpiresAt: time.Now().Add(-time.Hour)}
	require.NoError(t, db.Create(expired).Error)

	require.NoError(t, repo.DeleteExpired(ctx))

	var remaining []models.RefreshToken
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "live", remaining[0].TokenHash)
}
