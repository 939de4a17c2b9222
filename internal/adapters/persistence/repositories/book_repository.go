package repositories

import (
	"context"
	"errors"

	"libtrack/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// ErrNoStock is returned when a guarded decrement finds no copy to take
var ErrNoStock = errors.New("no available copies")

// bookRepository implements BookRepository interface
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// CreateBatch creates several books in one statement
func (r *bookRepository) CreateBatch(ctx context.Context, books []*models.Book) error {
	return r.db.WithContext(ctx).Create(books).Error
}

// GetByID gets a book by ID with its author and category preloaded
func (r *bookRepository) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Update updates a book
func (r *bookRepository) Update(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Save(book).Error
}

// Delete deletes a book
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Book{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListJoined returns the catalog joined with author and category names,
// ordered by book ID. Books without a matching author or category are
// omitted (inner join).
func (r *bookRepository) ListJoined(ctx context.Context) ([]*models.BookRow, error) {
	type joinedRow struct {
		ID             uint
		Title          string
		Year           int
		AvailableCount int
		CategoryName   string
		AuthorName     string
		AuthorSurname  string
	}

	var raw []joinedRow
	err := r.db.WithContext(ctx).
		Table("books").
		Select(`books.id, books.title, books.year, books.available_count,
			categories.name AS category_name,
			authors.name AS author_name,
			authors.surname AS author_surname`).
		Joins("JOIN categories ON categories.id = books.category_id").
		Joins("JOIN authors ON authors.id = books.author_id").
		Order("books.id ASC").
		Scan(&raw).Error
	if err != nil {
		return nil, err
	}

	rows := make([]*models.BookRow, 0, len(raw))
	for _, row := range raw {
		rows = append(rows, &models.BookRow{
			ID:             row.ID,
			Title:          row.Title,
			Year:           row.Year,
			AvailableCount: row.AvailableCount,
			CategoryName:   row.CategoryName,
			AuthorName:     row.AuthorName + " " + row.AuthorSurname,
		})
	}
	return rows, nil
}

// AdjustAvailability moves available_count by delta as a single guarded
// atomic UPDATE and returns the new count. Decrements that would take the
// count below zero touch no row and return ErrNoStock. Runs on the given
// handle so the rental ledger can call it inside its transaction.
func (r *bookRepository) AdjustAvailability(tx *gorm.DB, id uint, delta int) (int, error) {
	query := tx.Model(&models.Book{}).Where("id = ?", id)
	if delta < 0 {
		query = query.Where("available_count >= ?", -delta)
	}

	res := query.UpdateColumn("available_count", gorm.Expr("available_count + ?", delta))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		if delta < 0 {
			return 0, ErrNoStock
		}
		return 0, gorm.ErrRecordNotFound
	}

	var count int
	err := tx.Model(&models.Book{}).Where("id = ?", id).
		Select("available_count").Scan(&count).Error
	return count, err
}
