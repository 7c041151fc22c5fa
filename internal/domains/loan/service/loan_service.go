package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	clientmodel "library-backend/internal/domains/client/model"
	clientrepo "library-backend/internal/domains/client/repository"
	"library-backend/internal/domains/loan/model"
	"library-backend/internal/domains/loan/repository"
	usermodel "library-backend/internal/domains/user/model"
	userrepo "library-backend/internal/domains/user/repository"
)

type loanService struct {
	repo       repository.RepositoryInterface
	clients    clientrepo.RepositoryInterface
	users      userrepo.RepositoryInterface
	periodDays int
}

func NewLoanService(
	repo repository.RepositoryInterface,
	clients clientrepo.RepositoryInterface,
	users userrepo.RepositoryInterface,
	periodDays int,
) ServiceInterface {
	return &loanService{
		repo:       repo,
		clients:    clients,
		users:      users,
		periodDays: periodDays,
	}
}

// Create checks the parties up front, then hands off to the repository,
// which takes the stock atomically. The stock check is NOT done here: a
// precheck outside the transaction would just race.
func (s *loanService) Create(ctx context.Context, librarianID uuid.UUID, req *model.CreateLoanRequest) (*model.Loan, error) {
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, model.ErrInvalidQuantity
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("invalid client id: %w", err)
	}
	bookID, err := uuid.Parse(req.BookID)
	if err != nil {
		return nil, fmt.Errorf("invalid book id: %w", err)
	}

	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, clientmodel.ErrClientNotFound) {
			return nil, model.ErrClientNotFound
		}
		return nil, err
	}
	if !client.IsActive() {
		return nil, model.ErrClientInactive
	}

	librarian, err := s.users.GetByID(ctx, librarianID)
	if err != nil {
		if errors.Is(err, usermodel.ErrUserNotFound) {
			return nil, model.ErrLibrarianNotFound
		}
		return nil, err
	}
	if librarian.Role != usermodel.RoleLibrarian {
		return nil, model.ErrNotLibrarian
	}

	now := time.Now()
	loan := &model.Loan{
		ID:          uuid.New(),
		ClientID:    clientID,
		LibrarianID: librarianID,
		BookID:      bookID,
		Quantity:    quantity,
		BorrowDate:  now,
		DueDate:     now.AddDate(0, 0, s.periodDays),
		Returned:    false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, loan); err != nil {
		return nil, err
	}

	return loan, nil
}

func (s *loanService) GetByID(ctx context.Context, id uuid.UUID) (*model.LoanDetail, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *loanService) List(ctx context.Context, filter model.LoanFilter) ([]model.LoanDetail, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return s.repo.List(ctx, filter)
}

func (s *loanService) MarkReturned(ctx context.Context, id uuid.UUID) (*model.Loan, error) {
	return s.repo.MarkReturned(ctx, id, time.Now())
}

func (s *loanService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *loanService) ListOverdue(ctx context.Context, asOf time.Time) ([]model.LoanDetail, error) {
	return s.repo.ListOverdue(ctx, asOf)
}
