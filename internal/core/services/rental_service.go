package services

import (
	"context"
	"errors"
	"time"

	"libtrack/internal/adapters/persistence/models"
	"libtrack/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Rental errors
var (
	ErrBookNotFound  = errors.New("book not found")
	ErrAlreadyRented = errors.New("user already holds an open loan for this book")
	ErrNotRented     = errors.New("no open loan for this user and book")
	ErrOutOfStock    = errors.New("no copies available")
)

// rentMode selects how a rental request treats the current loan state
type rentMode int

const (
	modeToggle rentMode = iota // open loan returns, none rents
	modeRent                   // open loan conflicts
	modeReturn                 // no open loan conflicts
)

// RentalService owns the rent/return life cycle for (user, book) pairs
// and keeps the book availability counter consistent with open loans.
type RentalService struct {
	db       *gorm.DB
	bookRepo repositories.BookRepository
	loanRepo repositories.LoanRepository
}

// NewRentalService creates a new rental service
func NewRentalService(db *gorm.DB, bookRepo repositories.BookRepository, loanRepo repositories.LoanRepository) *RentalService {
	return &RentalService{
		db:       db,
		bookRepo: bookRepo,
		loanRepo: loanRepo,
	}
}

// ToggleResult reports the outcome of a rental transition
type ToggleResult struct {
	Returned      bool `json:"returned"`
	LoanID        uint `json:"loan_id"`
	AvailableBook int  `json:"available_book"`
}

// Toggle rents the book when the caller has no open loan for it and
// returns it otherwise, mirroring the single rent endpoint contract.
func (s *RentalService) Toggle(ctx context.Context, userID, bookID uint) (*ToggleResult, error) {
	return s.transition(ctx, userID, bookID, modeToggle)
}

// Rent opens a loan for the (user, book) pair. An existing open loan is
// rejected as a conflict instead of being treated as a return.
func (s *RentalService) Rent(ctx context.Context, userID, bookID uint) (*ToggleResult, error) {
	return s.transition(ctx, userID, bookID, modeRent)
}

// Return closes the open loan for the (user, book) pair.
func (s *RentalService) Return(ctx context.Context, userID, bookID uint) (*ToggleResult, error) {
	return s.transition(ctx, userID, bookID, modeReturn)
}

// transition runs one rent/return state change as a single unit of work.
// The book row is locked for the duration, so concurrent calls for the
// same book (and hence the same pair) serialize: only one caller can see
// "no open record" and take the rent path. Ledger write and counter move
// commit together or not at all.
func (s *RentalService) transition(ctx context.Context, userID, bookID uint, mode rentMode) (*ToggleResult, error) {
	var result ToggleResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := lockForUpdate(tx).First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}

		loan, err := s.loanRepo.GetOpen(tx, userID, bookID)
		switch {
		case err == nil:
			if mode == modeRent {
				return ErrAlreadyRented
			}
			return s.closeLoan(tx, loan, &result)
		case errors.Is(err, gorm.ErrRecordNotFound):
			if mode == modeReturn {
				return ErrNotRented
			}
			return s.openLoan(tx, userID, &book, &result)
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// openLoan inserts an open loan record and takes one copy off the shelf
func (s *RentalService) openLoan(tx *gorm.DB, userID uint, book *models.Book, result *ToggleResult) error {
	if book.AvailableCount <= 0 {
		return ErrOutOfStock
	}

	loan := &models.LoanRecord{
		UserID:   userID,
		BookID:   book.ID,
		LoanedAt: time.Now(),
	}
	if err := s.loanRepo.Create(tx, loan); err != nil {
		return err
	}

	count, err := s.bookRepo.AdjustAvailability(tx, book.ID, -1)
	if err != nil {
		if errors.Is(err, repositories.ErrNoStock) {
			return ErrOutOfStock
		}
		return err
	}

	result.Returned = false
	result.LoanID = loan.ID
	result.AvailableBook = count
	return nil
}

// closeLoan flips the open record to returned and puts the copy back
func (s *RentalService) closeLoan(tx *gorm.DB, loan *models.LoanRecord, result *ToggleResult) error {
	if err := s.loanRepo.MarkReturned(tx, loan); err != nil {
		return err
	}

	count, err := s.bookRepo.AdjustAvailability(tx, loan.BookID, 1)
	if err != nil {
		return err
	}

	result.Returned = true
	result.LoanID = loan.ID
	result.AvailableBook = count
	return nil
}

// lockForUpdate locks the selected row until the transaction ends.
// SQLite rejects FOR UPDATE and serializes writers on its own, so the
// clause is skipped there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
