package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"library-backend/internal/domains/book/model"
)

type RepositoryInterface interface {
	Create(ctx context.Context, book *model.Book) error
	// CreateTx inserts within a caller-owned transaction (bulk import).
	CreateTx(ctx context.Context, tx pgx.Tx, book *model.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	List(ctx context.Context, filter *model.BookFilter) ([]model.Book, int64, error)
	// Update re-reads the row under a row lock, applies the caller's
	// changes and writes them back in the same transaction, so a partial
	// patch can never overwrite stock a concurrent loan just changed.
	Update(ctx context.Context, id uuid.UUID, apply func(*model.Book) error) (*model.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteBatch removes all ids in one transaction: partial failure
	// leaves no partial deletion behind.
	DeleteBatch(ctx context.Context, ids []uuid.UUID) error
	UpdatePhotoURL(ctx context.Context, id uuid.UUID, url string) error
	AuthorExists(ctx context.Context, authorID uuid.UUID) (bool, error)
}
