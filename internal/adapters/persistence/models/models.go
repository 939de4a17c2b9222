package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Surname   string    `gorm:"size:100;not null" json:"surname"`
	Email     string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Phone     string    `gorm:"size:15" json:"phone"`
	IsAdmin   bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Surname:   u.Surname,
		Email:     u.Email,
		Phone:     u.Phone,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Catalog Tables
// ============================================================

// Author represents authors table
type Author struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Surname   string    `gorm:"size:100;not null" json:"surname"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Author) TableName() string {
	return "authors"
}

// Category represents categories table
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}

// Book represents books table
//
// AvailableCount is the running count of copies on the shelf. It is seeded
// at creation and moved only by guarded atomic updates: catalog admin edits
// and the rental ledger's rent/return transitions. There is no separate
// total-copies column; the count never goes below zero.
type Book struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"size:200;not null" json:"title"`
	Year           int       `gorm:"not null" json:"year"`
	AvailableCount int       `gorm:"not null;default:0" json:"available_count"`
	CategoryID     uint      `gorm:"not null;index" json:"category_id"`
	AuthorID       uint      `gorm:"not null;index" json:"author_id"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Author   *Author   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (Book) TableName() string {
	return "books"
}

// ============================================================
// Rental Ledger Tables
// ============================================================

// LoanRecord represents loan_records table
//
// One row per rental cycle: created open on rent, the same row is flipped
// to IsReturned=true on return. For a given (user, book) pair at most one
// open row may exist at any time.
type LoanRecord struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index:idx_loan_user_book" json:"user_id"`
	BookID     uint       `gorm:"not null;index:idx_loan_user_book" json:"book_id"`
	LoanedAt   time.Time  `gorm:"not null" json:"loaned_at"`
	ReturnedAt *time.Time `json:"returned_at"`
	IsReturned bool       `gorm:"not null;default:false;index" json:"is_returned"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Book *Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

func (LoanRecord) TableName() string {
	return "loan_records"
}

// ============================================================
// Listing DTOs
// ============================================================

// BookRow is the joined catalog projection returned by listing queries.
// Books missing their category or author are omitted (inner join).
type BookRow struct {
	ID             uint   `json:"id"`
	Title          string `json:"title"`
	Year           int    `json:"year"`
	AvailableCount int    `json:"available_count"`
	CategoryName   string `json:"category_name"`
	AuthorName     string `json:"author_name"`
}

// RentRow is the joined loan projection for rent history views.
type RentRow struct {
	ID         uint       `json:"id"`
	UserID     uint       `json:"user_id"`
	BookID     uint       `json:"book_id"`
	LoanedAt   time.Time  `json:"loaned_at"`
	ReturnedAt *time.Time `json:"returned_at"`
	IsReturned bool       `json:"is_returned"`
	Username   string     `json:"username"`
	BookName   string     `json:"book_name"`
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Author{},
		&Category{},
		&Book{},
		&LoanRecord{},
	)
}
