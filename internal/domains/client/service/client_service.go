package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/client/model"
	"library-backend/internal/domains/client/repository"
)

type clientService struct {
	repo repository.RepositoryInterface
}

func NewClientService(repo repository.RepositoryInterface) ServiceInterface {
	return &clientService{repo: repo}
}

func (s *clientService) Create(ctx context.Context, req *model.CreateClientRequest) (*model.Client, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, model.ErrEmailAlreadyExists
	}

	status := req.Status
	if status == "" {
		status = model.StatusActive
	}
	if !model.IsValidStatus(status) {
		return nil, model.ErrInvalidStatus
	}

	now := time.Now()
	client := &model.Client{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		Phone:     req.Phone,
		Address:   req.Address,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

func (s *clientService) GetByID(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *clientService) List(ctx context.Context, filter model.ClientFilter) ([]model.Client, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Status != "" && !model.IsValidStatus(filter.Status) {
		return nil, 0, model.ErrInvalidStatus
	}

	return s.repo.List(ctx, filter)
}

func (s *clientService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateClientRequest) (*model.Client, error) {
	client, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		client.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != client.Email {
			exists, err := s.repo.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			if exists {
				return nil, model.ErrEmailAlreadyExists
			}
			client.Email = email
		}
	}
	if req.Phone != nil {
		client.Phone = req.Phone
	}
	if req.Address != nil {
		client.Address = req.Address
	}
	if req.Status != nil {
		if !model.IsValidStatus(*req.Status) {
			return nil, model.ErrInvalidStatus
		}
		client.Status = *req.Status
	}

	client.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}

func (s *clientService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
