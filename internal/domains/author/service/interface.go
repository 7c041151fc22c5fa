package service

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/author/model"
)

type ServiceInterface interface {
	Create(ctx context.Context, req *model.CreateAuthorRequest) (*model.Author, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error)
	GetAll(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateAuthorRequest) (*model.Author, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetBooks(ctx context.Context, id uuid.UUID) ([]model.AuthorBook, error)
}
