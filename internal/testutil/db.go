package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"libtrack/internal/adapters/persistence/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewDB opens a fresh in-memory database with the full schema migrated.
// Each call gets its own named database so parallel tests stay isolated.
// The pool is capped at one connection; SQLite allows a single writer,
// so this keeps concurrent transactions serialized instead of erroring.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return db
}

// SeedCatalog inserts one author, one category and a book with the given
// number of copies, returning the book ID.
func SeedCatalog(t *testing.T, db *gorm.DB, copies int) uint {
	t.Helper()

	author := &models.Author{Name: "George", Surname: "Orwell"}
	if err := db.Create(author).Error; err != nil {
		t.Fatalf("seed author: %v", err)
	}

	category := &models.Category{Name: "Classic"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}

	book := &models.Book{
		Title:          "Nineteen Eighty-Four",
		Year:           1949,
		AvailableCount: copies,
		CategoryID:     category.ID,
		AuthorID:       author.ID,
	}
	if err := db.Create(book).Error; err != nil {
		t.Fatalf("seed book: %v", err)
	}

	return book.ID
}

// SeedUser inserts a user with the given email and admin flag,
// returning the user ID. The password hash is not valid for login.
func SeedUser(t *testing.T, db *gorm.DB, email string, isAdmin bool) uint {
	t.Helper()

	user := &models.User{
		Name:     "Test",
		Surname:  "User",
		Email:    email,
		Password: "x",
		IsAdmin:  isAdmin,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	return user.ID
}
