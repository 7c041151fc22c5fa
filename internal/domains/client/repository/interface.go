package repository

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/client/model"
)

type RepositoryInterface interface {
	Create(ctx context.Context, client *model.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Client, error)
	List(ctx context.Context, filter model.ClientFilter) ([]model.Client, int64, error)
	Update(ctx context.Context, client *model.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
