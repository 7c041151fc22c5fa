package repository

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/author/model"
)

type RepositoryInterface interface {
	Create(ctx context.Context, author *model.Author) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error)
	GetAll(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error)
	Update(ctx context.Context, author *model.Author) error
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	GetBookCount(ctx context.Context, id uuid.UUID) (int, error)
	GetBooksByAuthor(ctx context.Context, id uuid.UUID) ([]model.AuthorBook, error)
}
