package config

import (
	"log"

	"libtrack/internal/adapters/persistence/models"
	"libtrack/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}
	if err := s.seedCatalog(); err != nil {
		log.Printf("⚠️ Catalog seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds the default admin user
// This is for development/testing only
// In production, grant admin through the admin role endpoint
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("is_admin = ?", true).Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:     "Admin",
		Surname:  "Admin",
		Email:    "admin@libtrack.local",
		Password: hashedPassword,
		IsAdmin:  true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Email)
	return nil
}

// seedCatalog seeds a starter catalog when the tables are empty
func (s *Seeder) seedCatalog() error {
	var count int64
	s.db.Model(&models.Book{}).Count(&count)
	if count > 0 {
		return nil // Catalog already populated
	}

	authors := []models.Author{
		{Name: "George", Surname: "Orwell"},
		{Name: "Joanne", Surname: "Rowling"},
		{Name: "Stephen", Surname: "King"},
		{Name: "Jane", Surname: "Austen"},
	}
	if err := s.db.Create(&authors).Error; err != nil {
		return err
	}

	categories := []models.Category{
		{Name: "Child"},
		{Name: "Adults"},
		{Name: "Horror"},
		{Name: "Classic"},
	}
	if err := s.db.Create(&categories).Error; err != nil {
		return err
	}

	books := []models.Book{
		{Title: "The Shining", Year: 1977, AvailableCount: 3, CategoryID: categories[2].ID, AuthorID: authors[2].ID},
		{Title: "Harry Potter", Year: 1997, AvailableCount: 7, CategoryID: categories[0].ID, AuthorID: authors[1].ID},
		{Title: "Nineteen Eighty-Four", Year: 1949, AvailableCount: 2, CategoryID: categories[1].ID, AuthorID: authors[0].ID},
		{Title: "Pride and Prejudice", Year: 1813, AvailableCount: 12, CategoryID: categories[3].ID, AuthorID: authors[3].ID},
	}
	if err := s.db.Create(&books).Error; err != nil {
		return err
	}

	log.Printf("✅ Catalog seeded: %d authors, %d categories, %d books",
		len(authors), len(categories), len(books))
	return nil
}
