package service

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/client/model"
)

type ServiceInterface interface {
	Create(ctx context.Context, req *model.CreateClientRequest) (*model.Client, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Client, error)
	List(ctx context.Context, filter model.ClientFilter) ([]model.Client, int64, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateClientRequest) (*model.Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
