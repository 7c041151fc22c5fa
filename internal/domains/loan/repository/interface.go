package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/loan/model"
)

// RepositoryInterface owns the transactional loan operations. Create,
// MarkReturned and Delete each run as a single transaction that locks the
// book row, so stock can never be oversold or double-restored.
type RepositoryInterface interface {
	Create(ctx context.Context, loan *model.Loan) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.LoanDetail, error)
	List(ctx context.Context, filter model.LoanFilter) ([]model.LoanDetail, int64, error)
	MarkReturned(ctx context.Context, id uuid.UUID, returnDate time.Time) (*model.Loan, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListOverdue(ctx context.Context, asOf time.Time) ([]model.LoanDetail, error)
}
