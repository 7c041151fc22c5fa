package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/author/model"
	"library-backend/internal/domains/author/repository"
)

type authorService struct {
	repo repository.RepositoryInterface
}

func NewAuthorService(repo repository.RepositoryInterface) ServiceInterface {
	return &authorService{repo: repo}
}

func (s *authorService) Create(ctx context.Context, req *model.CreateAuthorRequest) (*model.Author, error) {
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return nil, model.ErrInvalidName
	}

	now := time.Now()
	newAuthor := &model.Author{
		ID:          uuid.New(),
		FirstName:   firstName,
		LastName:    lastName,
		Biography:   req.Biography,
		Nationality: req.Nationality,
		Photo:       req.Photo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, newAuthor); err != nil {
		return nil, fmt.Errorf("failed to create author: %w", err)
	}

	return newAuthor, nil
}

func (s *authorService) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	if id == uuid.Nil {
		return nil, model.ErrAuthorNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *authorService) GetAll(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	// Whitelist sort columns, the filter goes straight into ORDER BY.
	allowedSortColumns := map[string]bool{
		"first_name": true,
		"last_name":  true,
		"created_at": true,
		"updated_at": true,
	}

	if filter.SortBy == "" {
		filter.SortBy = "created_at"
	}
	if !allowedSortColumns[filter.SortBy] {
		return nil, 0, fmt.Errorf("invalid sort column: %s", filter.SortBy)
	}

	filter.Order = strings.ToUpper(filter.Order)
	if filter.Order != "ASC" && filter.Order != "DESC" {
		filter.Order = "DESC"
	}

	return s.repo.GetAll(ctx, filter)
}

func (s *authorService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateAuthorRequest) (*model.Author, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current

	if req.FirstName != nil {
		name := strings.TrimSpace(*req.FirstName)
		if name == "" {
			return nil, model.ErrInvalidName
		}
		updated.FirstName = name
	}
	if req.LastName != nil {
		name := strings.TrimSpace(*req.LastName)
		if name == "" {
			return nil, model.ErrInvalidName
		}
		updated.LastName = name
	}
	if req.Biography != nil {
		updated.Biography = req.Biography
	}
	if req.Nationality != nil {
		updated.Nationality = req.Nationality
	}
	if req.Photo != nil {
		updated.Photo = req.Photo
	}

	updated.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

// Delete refuses to delete an author that still has books. Removing the
// books first is an explicit decision the caller must make.
func (s *authorService) Delete(ctx context.Context, id uuid.UUID) error {
	bookCount, err := s.repo.GetBookCount(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check book count: %w", err)
	}

	if bookCount > 0 {
		return fmt.Errorf("%w: author has %d linked books", model.ErrAuthorHasBooks, bookCount)
	}

	return s.repo.Delete(ctx, id)
}

func (s *authorService) GetBooks(ctx context.Context, id uuid.UUID) ([]model.AuthorBook, error) {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrAuthorNotFound
	}

	return s.repo.GetBooksByAuthor(ctx, id)
}
