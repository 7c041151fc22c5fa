package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/repository"
)

type bookService struct {
	repo    repository.RepositoryInterface
	storage ObjectStorage
}

func NewBookService(repo repository.RepositoryInterface, storage ObjectStorage) ServiceInterface {
	return &bookService{
		repo:    repo,
		storage: storage,
	}
}

func (s *bookService) Create(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error) {
	authorID, err := uuid.Parse(req.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author id: %w", err)
	}

	exists, err := s.repo.AuthorExists(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check author: %w", err)
	}
	if !exists {
		return nil, model.ErrAuthorNotFound
	}

	quantity := 0
	if req.QuantityInStock != nil {
		if *req.QuantityInStock < 0 {
			return nil, model.ErrNegativeStock
		}
		quantity = *req.QuantityInStock
	}

	now := time.Now()
	book := &model.Book{
		ID:              uuid.New(),
		Title:           strings.TrimSpace(req.Title),
		YearPublished:   req.YearPublished,
		Genre:           req.Genre,
		PhotoURL:        req.PhotoURL,
		Images:          pq.StringArray(req.Images),
		Price:           decimal.NewFromFloat(req.Price),
		Description:     req.Description,
		QuantityInStock: quantity,
		AuthorID:        authorID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	book.RecomputeAvailability()

	if err := s.repo.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	return book, nil
}

func (s *bookService) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	if id == uuid.Nil {
		return nil, model.ErrBookNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *bookService) List(ctx context.Context, filter *model.BookFilter) ([]model.Book, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	if filter.Genre != "" && !model.IsValidGenre(filter.Genre) {
		return nil, 0, model.ErrInvalidGenre
	}

	allowedSortColumns := map[string]bool{
		"title":          true,
		"year_published": true,
		"price":          true,
		"genre":          true,
		"created_at":     true,
		"updated_at":     true,
	}

	if filter.SortBy == "" {
		filter.SortBy = "title"
	}
	if !allowedSortColumns[filter.SortBy] {
		return nil, 0, fmt.Errorf("invalid sort column: %s", filter.SortBy)
	}

	filter.Order = strings.ToUpper(filter.Order)
	if filter.Order != "ASC" && filter.Order != "DESC" {
		filter.Order = "ASC"
	}

	return s.repo.List(ctx, filter)
}

// Update applies a partial update. A stock change always recomputes
// availability; a client-supplied is_available is rejected outright. The
// patch runs against the row the repository reads under its lock, never
// against a copy fetched earlier, so untouched fields keep whatever value
// a concurrent loan committed.
func (s *bookService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateBookRequest) (*model.Book, error) {
	if req.IsAvailable != nil {
		return nil, model.ErrAvailabilityDerived
	}

	return s.repo.Update(ctx, id, func(book *model.Book) error {
		if req.Title != nil {
			book.Title = strings.TrimSpace(*req.Title)
		}
		if req.AuthorID != nil {
			authorID, err := uuid.Parse(*req.AuthorID)
			if err != nil {
				return fmt.Errorf("invalid author id: %w", err)
			}
			exists, err := s.repo.AuthorExists(ctx, authorID)
			if err != nil {
				return fmt.Errorf("failed to check author: %w", err)
			}
			if !exists {
				return model.ErrAuthorNotFound
			}
			book.AuthorID = authorID
		}
		if req.YearPublished != nil {
			book.YearPublished = *req.YearPublished
		}
		if req.Genre != nil {
			if !model.IsValidGenre(*req.Genre) {
				return model.ErrInvalidGenre
			}
			book.Genre = *req.Genre
		}
		if req.PhotoURL != nil {
			book.PhotoURL = *req.PhotoURL
		}
		if req.Images != nil {
			book.Images = pq.StringArray(req.Images)
		}
		if req.Price != nil {
			book.Price = decimal.NewFromFloat(*req.Price)
		}
		if req.Description != nil {
			book.Description = req.Description
		}
		if req.QuantityInStock != nil {
			if *req.QuantityInStock < 0 {
				return model.ErrNegativeStock
			}
			book.QuantityInStock = *req.QuantityInStock
		}

		book.RecomputeAvailability()
		book.UpdatedAt = time.Now()
		return nil
	})
}

func (s *bookService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *bookService) DeleteBatch(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return s.repo.DeleteBatch(ctx, ids)
}

// UploadCover stores the image and points the book's photo_url at it.
func (s *bookService) UploadCover(ctx context.Context, id uuid.UUID, data []byte, contentType string) (string, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return "", err
	}

	ext := "jpg"
	if contentType == "image/png" {
		ext = "png"
	}

	key := fmt.Sprintf("books/%s/cover.%s", id, ext)
	url, err := s.storage.Upload(ctx, key, data, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload cover: %w", err)
	}

	if err := s.repo.UpdatePhotoURL(ctx, id, url); err != nil {
		return "", err
	}

	return url, nil
}
