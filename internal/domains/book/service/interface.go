package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"library-backend/internal/domains/book/model"
)

type ServiceInterface interface {
	Create(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	List(ctx context.Context, filter *model.BookFilter) ([]model.Book, int64, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateBookRequest) (*model.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteBatch(ctx context.Context, ids []uuid.UUID) error
	UploadCover(ctx context.Context, id uuid.UUID, data []byte, contentType string) (string, error)
}

type BulkImportServiceInterface interface {
	ImportFromXLSX(ctx context.Context, r io.Reader) (*model.BulkImportResult, error)
}

// ObjectStorage is the slice of the storage layer the book service needs.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
