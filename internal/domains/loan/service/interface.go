package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/loan/model"
)

type ServiceInterface interface {
	// Create opens a loan on behalf of the authenticated librarian.
	Create(ctx context.Context, librarianID uuid.UUID, req *model.CreateLoanRequest) (*model.Loan, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.LoanDetail, error)
	List(ctx context.Context, filter model.LoanFilter) ([]model.LoanDetail, int64, error)
	MarkReturned(ctx context.Context, id uuid.UUID) (*model.Loan, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListOverdue(ctx context.Context, asOf time.Time) ([]model.LoanDetail, error)
}
