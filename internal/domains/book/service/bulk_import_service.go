package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/repository"
	"library-backend/pkg/database"
	"library-backend/pkg/logger"
)

// Expected sheet layout, first row is the header:
// title | author_id | year_published | genre | photo_url | price | quantity_in_stock | description
const importColumns = 8

type bulkImportService struct {
	pool *pgxpool.Pool
	repo repository.RepositoryInterface
}

func NewBulkImportService(pool *pgxpool.Pool, repo repository.RepositoryInterface) BulkImportServiceInterface {
	return &bulkImportService{
		pool: pool,
		repo: repo,
	}
}

// ImportFromXLSX parses the workbook and inserts every row in a single
// transaction. One bad row aborts the whole import.
func (s *bulkImportService) ImportFromXLSX(ctx context.Context, r io.Reader) (*model.BulkImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, model.ErrEmptyImport
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	if len(rows) < 2 {
		return nil, model.ErrEmptyImport
	}

	books := make([]*model.Book, 0, len(rows)-1)
	for i, row := range rows[1:] {
		book, err := parseImportRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", model.ErrInvalidImportRow, i+2, err)
		}
		books = append(books, book)
	}

	// Author references are checked inside the transaction so the import
	// cannot race a concurrent author delete.
	err = database.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
		for _, book := range books {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM authors WHERE id = $1)`, book.AuthorID).Scan(&exists); err != nil {
				return fmt.Errorf("failed to check author: %w", err)
			}
			if !exists {
				return fmt.Errorf("%w: %s", model.ErrAuthorNotFound, book.AuthorID)
			}

			if err := s.repo.CreateTx(ctx, tx, book); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	bookIDs := make([]string, len(books))
	for i, b := range books {
		bookIDs[i] = b.ID.String()
	}

	logger.Info("bulk import completed", map[string]interface{}{
		"imported": len(books),
	})

	return &model.BulkImportResult{
		Imported: len(books),
		BookIDs:  bookIDs,
	}, nil
}

func parseImportRow(row []string) (*model.Book, error) {
	// GetRows trims trailing empty cells, pad back to full width.
	cells := make([]string, importColumns)
	copy(cells, row)
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}

	title := cells[0]
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	authorID, err := uuid.Parse(cells[1])
	if err != nil {
		return nil, fmt.Errorf("invalid author_id %q", cells[1])
	}

	year, err := strconv.Atoi(cells[2])
	if err != nil || year < 1500 || year > 2025 {
		return nil, fmt.Errorf("invalid year_published %q", cells[2])
	}

	genre := cells[3]
	if !model.IsValidGenre(genre) {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidGenre, genre)
	}

	price := decimal.Zero
	if cells[5] != "" {
		price, err = decimal.NewFromString(cells[5])
		if err != nil || price.IsNegative() {
			return nil, fmt.Errorf("invalid price %q", cells[5])
		}
	}

	quantity := 0
	if cells[6] != "" {
		quantity, err = strconv.Atoi(cells[6])
		if err != nil || quantity < 0 {
			return nil, fmt.Errorf("invalid quantity_in_stock %q", cells[6])
		}
	}

	var description *string
	if cells[7] != "" {
		description = &cells[7]
	}

	now := time.Now()
	book := &model.Book{
		ID:              uuid.New(),
		Title:           title,
		YearPublished:   year,
		Genre:           genre,
		PhotoURL:        cells[4],
		Price:           price,
		Description:     description,
		QuantityInStock: quantity,
		AuthorID:        authorID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	book.RecomputeAvailability()

	return book, nil
}
