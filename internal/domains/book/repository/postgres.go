package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"library-backend/internal/domains/book/model"
	"library-backend/pkg/cache"
	"library-backend/pkg/database"
	"library-backend/pkg/logger"
)

const (
	bookCacheKeyPrefix = "books:"
	bookCacheTTL       = 5 * time.Minute
)

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) RepositoryInterface {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

const bookColumns = `b.id, b.title, b.year_published, b.genre, b.photo_url, b.images,
	b.price, b.description, b.quantity_in_stock, b.is_available, b.author_id,
	b.created_at, b.updated_at`

func scanBook(row pgx.Row, withAuthor bool) (*model.Book, error) {
	var b model.Book
	dest := []interface{}{
		&b.ID, &b.Title, &b.YearPublished, &b.Genre, &b.PhotoURL, &b.Images,
		&b.Price, &b.Description, &b.QuantityInStock, &b.IsAvailable, &b.AuthorID,
		&b.CreatedAt, &b.UpdatedAt,
	}
	if withAuthor {
		dest = append(dest, &b.AuthorFirstName, &b.AuthorLastName)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *postgresRepository) Create(ctx context.Context, book *model.Book) error {
	if err := r.CreateTx(ctx, nil, book); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *postgresRepository) CreateTx(ctx context.Context, tx pgx.Tx, book *model.Book) error {
	query := `
		INSERT INTO books (
			id, title, year_published, genre, photo_url, images,
			price, description, quantity_in_stock, is_available, author_id,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	args := []interface{}{
		book.ID, book.Title, book.YearPublished, book.Genre, book.PhotoURL, pq.Array([]string(book.Images)),
		book.Price, book.Description, book.QuantityInStock, book.IsAvailable, book.AuthorID,
		book.CreatedAt, book.UpdatedAt,
	}

	var err error
	if tx != nil {
		_, err = tx.Exec(ctx, query, args...)
	} else {
		_, err = r.pool.Exec(ctx, query, args...)
	}
	if err != nil {
		return fmt.Errorf("failed to insert book: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	cacheKey := bookCacheKeyPrefix + "id:" + id.String()

	var cached model.Book
	if found, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	query := fmt.Sprintf(`
		SELECT %s, a.first_name AS author_first_name, a.last_name AS author_last_name
		FROM books b
		JOIN authors a ON b.author_id = a.id
		WHERE b.id = $1
	`, bookColumns)

	book, err := scanBook(r.pool.QueryRow(ctx, query, id), true)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	if err := r.cache.Set(ctx, cacheKey, book, bookCacheTTL); err != nil {
		logger.Warn("book cache set failed", map[string]interface{}{"error": err.Error()})
	}

	return book, nil
}

func (r *postgresRepository) List(ctx context.Context, filter *model.BookFilter) ([]model.Book, int64, error) {
	whereClause, args := buildWhereClause(filter)
	argIndex := len(args) + 1

	var totalCount int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM books b WHERE %s`, whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("count query failed: %w", err)
	}

	// SortBy/Order are whitelisted by the service.
	query := fmt.Sprintf(`
		SELECT %s, a.first_name AS author_first_name, a.last_name AS author_last_name
		FROM books b
		JOIN authors a ON b.author_id = a.id
		WHERE %s
		ORDER BY b.%s %s
		LIMIT $%d OFFSET $%d
	`, bookColumns, whereClause, filter.SortBy, filter.Order, argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list books query failed: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0, filter.Limit)
	for rows.Next() {
		b, err := scanBook(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	return books, totalCount, nil
}

func buildWhereClause(filter *model.BookFilter) (string, []interface{}) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	if filter.Genre != "" {
		conditions = append(conditions, fmt.Sprintf("b.genre = $%d", argIndex))
		args = append(args, filter.Genre)
		argIndex++
	}

	if filter.IsAvailable != nil {
		conditions = append(conditions, fmt.Sprintf("b.is_available = $%d", argIndex))
		args = append(args, *filter.IsAvailable)
		argIndex++
	}

	return strings.Join(conditions, " AND "), args
}

// Update locks the row, hands the freshly read entity to apply and writes
// the result back in the same transaction. The read goes straight to
// Postgres: a cached copy could carry stock a committed loan has since
// changed, and writing it back would silently undo the loan's decrement.
func (r *postgresRepository) Update(ctx context.Context, id uuid.UUID, apply func(*model.Book) error) (*model.Book, error) {
	_, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Book, error) {
		query := fmt.Sprintf(`SELECT %s FROM books b WHERE b.id = $1 FOR UPDATE`, bookColumns)

		book, err := scanBook(tx.QueryRow(ctx, query, id), false)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to lock book row: %w", err)
		}

		if err := apply(book); err != nil {
			return nil, err
		}

		_, err = tx.Exec(ctx, `
			UPDATE books
			SET title = $1, year_published = $2, genre = $3, photo_url = $4, images = $5,
			    price = $6, description = $7, quantity_in_stock = $8, is_available = $9,
			    author_id = $10, updated_at = $11
			WHERE id = $12
		`,
			book.Title, book.YearPublished, book.Genre, book.PhotoURL, pq.Array([]string(book.Images)),
			book.Price, book.Description, book.QuantityInStock, book.IsAvailable,
			book.AuthorID, book.UpdatedAt, book.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to update book: %w", err)
		}

		return book, nil
	})
	if err != nil {
		return nil, err
	}

	r.invalidate(ctx)

	// Re-read through GetByID so the caller gets the joined author fields
	// and the cache is repopulated with the committed row.
	return r.GetByID(ctx, id)
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	r.invalidate(ctx)
	return nil
}

func (r *postgresRepository) DeleteBatch(ctx context.Context, ids []uuid.UUID) error {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		for _, id := range ids {
			result, err := tx.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
			if err != nil {
				return fmt.Errorf("failed to delete book %s: %w", id, err)
			}
			if result.RowsAffected() == 0 {
				return fmt.Errorf("%w: %s", model.ErrBookNotFound, id)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.invalidate(ctx)
	return nil
}

func (r *postgresRepository) UpdatePhotoURL(ctx context.Context, id uuid.UUID, url string) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE books SET photo_url = $1, updated_at = $2 WHERE id = $3`,
		url, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update photo url: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	r.invalidate(ctx)
	return nil
}

func (r *postgresRepository) AuthorExists(ctx context.Context, authorID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM authors WHERE id = $1)`, authorID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check author: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) invalidate(ctx context.Context) {
	if err := r.cache.DeletePattern(ctx, bookCacheKeyPrefix+"*"); err != nil {
		logger.Warn("book cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}
