package repositories

import (
	"context"
	"time"

	"libtrack/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// loanRepository implements LoanRepository interface
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// Create inserts a new open loan record on the given handle
func (r *loanRepository) Create(tx *gorm.DB, loan *models.LoanRecord) error {
	return tx.Create(loan).Error
}

// GetOpen returns the open loan record for a (user, book) pair,
// or gorm.ErrRecordNotFound when none exists
func (r *loanRepository) GetOpen(tx *gorm.DB, userID, bookID uint) (*models.LoanRecord, error) {
	var loan models.LoanRecord
	err := tx.
		Where("user_id = ? AND book_id = ? AND is_returned = ?", userID, bookID, false).
		First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// MarkReturned closes an open loan record on the given handle
func (r *loanRepository) MarkReturned(tx *gorm.DB, loan *models.LoanRecord) error {
	now := time.Now()
	return tx.Model(loan).Updates(map[string]interface{}{
		"is_returned": true,
		"returned_at": &now,
	}).Error
}

// CountOpenByBook counts open loans referencing a book
func (r *loanRepository) CountOpenByBook(ctx context.Context, bookID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LoanRecord{}).
		Where("book_id = ? AND is_returned = ?", bookID, false).
		Count(&count).Error
	return count, err
}

// OpenBookIDsByUser returns the IDs of books the user currently holds
func (r *loanRepository) OpenBookIDsByUser(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.LoanRecord{}).
		Where("user_id = ? AND is_returned = ?", userID, false).
		Pluck("book_id", &ids).Error
	return ids, err
}

// ListJoined returns loan records joined with user email and book title,
// open loans first, most recent first. A non-nil userID filters the view
// to that user's records.
func (r *loanRepository) ListJoined(ctx context.Context, userID *uint) ([]*models.RentRow, error) {
	query := r.db.WithContext(ctx).
		Table("loan_records").
		Select(`loan_records.id, loan_records.user_id, loan_records.book_id,
			loan_records.loaned_at, loan_records.returned_at, loan_records.is_returned,
			users.email AS username,
			books.title AS book_name`).
		Joins("JOIN users ON users.id = loan_records.user_id").
		Joins("JOIN books ON books.id = loan_records.book_id").
		Order("loan_records.is_returned ASC, loan_records.loaned_at DESC")

	if userID != nil {
		query = query.Where("loan_records.user_id = ?", *userID)
	}

	var rows []*models.RentRow
	err := query.Scan(&rows).Error
	return rows, err
}

// ListOverdue returns open loans older than overdueDays
func (r *loanRepository) ListOverdue(ctx context.Context, overdueDays int) ([]*models.RentRow, error) {
	cutoff := time.Now().AddDate(0, 0, -overdueDays)

	var rows []*models.RentRow
	err := r.db.WithContext(ctx).
		Table("loan_records").
		Select(`loan_records.id, loan_records.user_id, loan_records.book_id,
			loan_records.loaned_at, loan_records.returned_at, loan_records.is_returned,
			users.email AS username,
			books.title AS book_name`).
		Joins("JOIN users ON users.id = loan_records.user_id").
		Joins("JOIN books ON books.id = loan_records.book_id").
		Where("loan_records.is_returned = ? AND loan_records.loaned_at < ?", false, cutoff).
		Order("loan_records.loaned_at ASC").
		Scan(&rows).Error
	return rows, err
}
