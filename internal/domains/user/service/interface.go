package service

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/user/model"
)

type ServiceInterface interface {
	Register(ctx context.Context, req *model.CreateUserRequest) (*model.UserResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*model.LoginResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error)
	List(ctx context.Context, filter model.UserFilter) ([]model.UserResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.UserResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
