package services

import (
	"context"

	"libtrack/internal/adapters/persistence/models"
	"libtrack/internal/adapters/persistence/repositories"
	"libtrack/internal/core/domain"
)

// ListingService builds the role-differentiated catalog and rent views.
// Admins see the raw shelves; regular users see only what they can act
// on, with their own open loans marked.
type ListingService struct {
	bookRepo repositories.BookRepository
	loanRepo repositories.LoanRepository
}

// NewListingService creates a new listing service
func NewListingService(bookRepo repositories.BookRepository, loanRepo repositories.LoanRepository) *ListingService {
	return &ListingService{
		bookRepo: bookRepo,
		loanRepo: loanRepo,
	}
}

// BookListView is the catalog listing for one caller
type BookListView struct {
	Books      []*models.BookRow `json:"books"`
	RentedByMe []uint            `json:"rented_by_me,omitempty"`
	IsAdmin    bool              `json:"is_admin"`
}

// ListBooks returns the catalog as seen by the caller.
//
// Admins get every joined row unfiltered. Regular users get rows that
// are either in stock or currently held by them, with the held book IDs
// reported alongside so the client can render a return action.
func (s *ListingService) ListBooks(ctx context.Context, identity *domain.Identity) (*BookListView, error) {
	rows, err := s.bookRepo.ListJoined(ctx)
	if err != nil {
		return nil, err
	}

	if identity.IsAdmin {
		return &BookListView{Books: rows, IsAdmin: true}, nil
	}

	heldIDs, err := s.loanRepo.OpenBookIDsByUser(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	held := make(map[uint]bool, len(heldIDs))
	for _, id := range heldIDs {
		held[id] = true
	}

	visible := make([]*models.BookRow, 0, len(rows))
	for _, row := range rows {
		if row.AvailableCount > 0 || held[row.ID] {
			visible = append(visible, row)
		}
	}

	return &BookListView{
		Books:      visible,
		RentedByMe: heldIDs,
		IsAdmin:    false,
	}, nil
}

// ListRentHistory returns the loan ledger as seen by the caller.
// Admins see every record; regular users see only their own.
func (s *ListingService) ListRentHistory(ctx context.Context, identity *domain.Identity) ([]*models.RentRow, error) {
	if identity.IsAdmin {
		return s.loanRepo.ListJoined(ctx, nil)
	}
	return s.loanRepo.ListJoined(ctx, &identity.UserID)
}
