package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/author/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, author *model.Author) error {
	query := `
		INSERT INTO authors (id, first_name, last_name, biography, nationality, photo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		author.ID, author.FirstName, author.LastName,
		author.Biography, author.Nationality, author.Photo,
		author.CreatedAt, author.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert author: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	query := `
		SELECT id, first_name, last_name, biography, nationality, photo, created_at, updated_at
		FROM authors
		WHERE id = $1
	`

	var a model.Author
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.FirstName, &a.LastName,
		&a.Biography, &a.Nationality, &a.Photo,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrAuthorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get author: %w", err)
	}

	return &a, nil
}

func (r *postgresRepository) GetAll(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	whereClause := strings.Join(conditions, " AND ")

	var totalCount int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM authors WHERE %s`, whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("count query failed: %w", err)
	}

	// SortBy/Order are whitelisted by the service, never raw client input.
	query := fmt.Sprintf(`
		SELECT id, first_name, last_name, biography, nationality, photo, created_at, updated_at
		FROM authors
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, whereClause, filter.SortBy, filter.Order, argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list authors query failed: %w", err)
	}

	authors, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Author])
	if err != nil {
		return nil, 0, fmt.Errorf("collect rows failed: %w", err)
	}

	return authors, totalCount, nil
}

func (r *postgresRepository) Update(ctx context.Context, author *model.Author) error {
	query := `
		UPDATE authors
		SET first_name = $1, last_name = $2, biography = $3, nationality = $4, photo = $5, updated_at = $6
		WHERE id = $7
	`

	result, err := r.pool.Exec(ctx, query,
		author.FirstName, author.LastName,
		author.Biography, author.Nationality, author.Photo,
		author.UpdatedAt, author.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update author: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrAuthorNotFound
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete author: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrAuthorNotFound
	}

	return nil
}

func (r *postgresRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM authors WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check author: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) GetBookCount(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books WHERE author_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return count, nil
}

// GetBooksByAuthor derives is_available from stock in the query itself so
// the projection can never disagree with the stored column.
func (r *postgresRepository) GetBooksByAuthor(ctx context.Context, id uuid.UUID) ([]model.AuthorBook, error) {
	query := `
		SELECT b.id, b.title, b.year_published, b.genre, b.photo_url, b.price,
		       b.quantity_in_stock, b.quantity_in_stock > 0 AS is_available
		FROM books b
		WHERE b.author_id = $1
		ORDER BY b.title ASC
	`

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("books by author query failed: %w", err)
	}

	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.AuthorBook])
	if err != nil {
		return nil, fmt.Errorf("collect rows failed: %w", err)
	}

	return books, nil
}
