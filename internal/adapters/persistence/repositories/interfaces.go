package repositories

import (
	"context"

	"libtrack/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// BookRepository defines catalog book storage
//
// AdjustAvailability must be callable with a transaction handle so the
// rental ledger can move the counter inside its own unit of work.
type BookRepository interface {
	CreateBatch(ctx context.Context, books []*models.Book) error
	GetByID(ctx context.Context, id uint) (*models.Book, error)
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id uint) error
	ListJoined(ctx context.Context) ([]*models.BookRow, error)
	AdjustAvailability(tx *gorm.DB, id uint, delta int) (int, error)
}

// AuthorRepository defines author storage
type AuthorRepository interface {
	CreateBatch(ctx context.Context, authors []*models.Author) error
	GetByID(ctx context.Context, id uint) (*models.Author, error)
	List(ctx context.Context) ([]*models.Author, error)
	Delete(ctx context.Context, id uint) error
	CountBooks(ctx context.Context, id uint) (int64, error)
}

// CategoryRepository defines category storage
type CategoryRepository interface {
	CreateBatch(ctx context.Context, categories []*models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	DeleteByName(ctx context.Context, name string) error
	CountBooks(ctx context.Context, id uint) (int64, error)
}

// LoanRepository defines rental ledger storage
type LoanRepository interface {
	Create(tx *gorm.DB, loan *models.LoanRecord) error
	GetOpen(tx *gorm.DB, userID, bookID uint) (*models.LoanRecord, error)
	MarkReturned(tx *gorm.DB, loan *models.LoanRecord) error
	CountOpenByBook(ctx context.Context, bookID uint) (int64, error)
	OpenBookIDsByUser(ctx context.Context, userID uint) ([]uint, error)
	ListJoined(ctx context.Context, userID *uint) ([]*models.RentRow, error)
	ListOverdue(ctx context.Context, overdueDays int) ([]*models.RentRow, error)
}
