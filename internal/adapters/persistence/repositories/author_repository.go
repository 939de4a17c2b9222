package repositories

import (
	"context"

	"libtrack/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// authorRepository implements AuthorRepository interface
type authorRepository struct {
	db *gorm.DB
}

// NewAuthorRepository creates a new author repository
func NewAuthorRepository(db *gorm.DB) AuthorRepository {
	return &authorRepository{db: db}
}

// CreateBatch creates several authors in one statement
func (r *authorRepository) CreateBatch(ctx context.Context, authors []*models.Author) error {
	return r.db.WithContext(ctx).Create(authors).Error
}

// GetByID gets an author by ID
func (r *authorRepository) GetByID(ctx context.Context, id uint) (*models.Author, error) {
	var author models.Author
	err := r.db.WithContext(ctx).First(&author, id).Error
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// List lists all authors ordered by ID
func (r *authorRepository) List(ctx context.Context) ([]*models.Author, error) {
	var authors []*models.Author
	err := r.db.WithContext(ctx).Order("id ASC").Find(&authors).Error
	return authors, err
}

// Delete deletes an author by ID
func (r *authorRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Author{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountBooks counts books referencing an author
func (r *authorRepository) CountBooks(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Book{}).Where("author_id = ?", id).Count(&count).Error
	return count, err
}
