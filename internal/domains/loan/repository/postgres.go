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

	"library-backend/internal/domains/loan/model"
	"library-backend/pkg/cache"
	"library-backend/pkg/database"
	"library-backend/pkg/logger"
)

const loanDetailColumns = `
	l.id, l.client_id, l.librarian_id, l.book_id, l.quantity,
	l.borrow_date, l.due_date, l.return_date, l.returned,
	l.created_at, l.updated_at,
	c.name AS client_name,
	u.first_name || ' ' || u.last_name AS librarian_name,
	b.title AS book_title,
	a.first_name AS author_first_name,
	a.last_name AS author_last_name
`

const loanDetailJoins = `
	FROM loans l
	JOIN clients c ON c.id = l.client_id
	JOIN users u ON u.id = l.librarian_id
	JOIN books b ON b.id = l.book_id
	JOIN authors a ON a.id = b.author_id
`

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) RepositoryInterface {
	return &postgresRepository{pool: pool, cache: cache}
}

// Create inserts the loan and takes the stock in one transaction. The
// conditional UPDATE only matches while enough copies remain, so two
// concurrent loans for the last copy cannot both succeed.
func (r *postgresRepository) Create(ctx context.Context, loan *model.Loan) error {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var stock int
		err := tx.QueryRow(ctx,
			`SELECT quantity_in_stock FROM books WHERE id = $1 FOR UPDATE`,
			loan.BookID,
		).Scan(&stock)
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrBookNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock book row: %w", err)
		}

		if stock < loan.Quantity {
			return model.ErrInsufficientStock
		}

		result, err := tx.Exec(ctx, `
			UPDATE books
			SET quantity_in_stock = quantity_in_stock - $1,
			    is_available = quantity_in_stock - $1 > 0,
			    updated_at = NOW()
			WHERE id = $2 AND quantity_in_stock >= $1
		`, loan.Quantity, loan.BookID)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}
		if result.RowsAffected() == 0 {
			return model.ErrInsufficientStock
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO loans (id, client_id, librarian_id, book_id, quantity,
			                   borrow_date, due_date, return_date, returned,
			                   created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`,
			loan.ID, loan.ClientID, loan.LibrarianID, loan.BookID, loan.Quantity,
			loan.BorrowDate, loan.DueDate, loan.ReturnDate, loan.Returned,
			loan.CreatedAt, loan.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert loan: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	r.invalidateBookCache(ctx)
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.LoanDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE l.id = $1`, loanDetailColumns, loanDetailJoins)

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("get loan query failed: %w", err)
	}

	detail, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.LoanDetail])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrLoanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("collect row failed: %w", err)
	}

	return &detail, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.LoanFilter) ([]model.LoanDetail, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	if filter.ClientID != uuid.Nil {
		conditions = append(conditions, fmt.Sprintf("l.client_id = $%d", argIndex))
		args = append(args, filter.ClientID)
		argIndex++
	}
	if filter.BookID != uuid.Nil {
		conditions = append(conditions, fmt.Sprintf("l.book_id = $%d", argIndex))
		args = append(args, filter.BookID)
		argIndex++
	}
	if filter.Returned != nil {
		conditions = append(conditions, fmt.Sprintf("l.returned = $%d", argIndex))
		args = append(args, *filter.Returned)
		argIndex++
	}
	if filter.Overdue {
		conditions = append(conditions, "l.returned = FALSE AND l.due_date < NOW()")
	}

	whereClause := strings.Join(conditions, " AND ")

	var totalCount int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM loans l WHERE %s`, whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("count query failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s %s
		WHERE %s
		ORDER BY l.borrow_date DESC
		LIMIT $%d OFFSET $%d
	`, loanDetailColumns, loanDetailJoins, whereClause, argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list loans query failed: %w", err)
	}

	loans, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.LoanDetail])
	if err != nil {
		return nil, 0, fmt.Errorf("collect rows failed: %w", err)
	}

	return loans, totalCount, nil
}

// MarkReturned flips the loan and gives the copies back in one
// transaction. The FOR UPDATE on the loan row makes a double return a
// clean ErrAlreadyReturned instead of a double stock increment.
func (r *postgresRepository) MarkReturned(ctx context.Context, id uuid.UUID, returnDate time.Time) (*model.Loan, error) {
	loan, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Loan, error) {
		var l model.Loan
		err := tx.QueryRow(ctx, `
			SELECT id, client_id, librarian_id, book_id, quantity,
			       borrow_date, due_date, return_date, returned, created_at, updated_at
			FROM loans WHERE id = $1 FOR UPDATE
		`, id).Scan(
			&l.ID, &l.ClientID, &l.LibrarianID, &l.BookID, &l.Quantity,
			&l.BorrowDate, &l.DueDate, &l.ReturnDate, &l.Returned, &l.CreatedAt, &l.UpdatedAt,
		)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrLoanNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to lock loan row: %w", err)
		}

		if l.Returned {
			return nil, model.ErrAlreadyReturned
		}

		_, err = tx.Exec(ctx, `
			UPDATE loans SET returned = TRUE, return_date = $1, updated_at = NOW()
			WHERE id = $2
		`, returnDate, id)
		if err != nil {
			return nil, fmt.Errorf("failed to mark loan returned: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE books
			SET quantity_in_stock = quantity_in_stock + $1,
			    is_available = TRUE,
			    updated_at = NOW()
			WHERE id = $2
		`, l.Quantity, l.BookID)
		if err != nil {
			return nil, fmt.Errorf("failed to restore stock: %w", err)
		}

		l.Returned = true
		l.ReturnDate = &returnDate
		return &l, nil
	})
	if err != nil {
		return nil, err
	}

	r.invalidateBookCache(ctx)
	return loan, nil
}

// Delete removes the loan record. An open loan hands its copies back
// first; a returned loan already did, so its stock is left alone.
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var bookID uuid.UUID
		var quantity int
		var returned bool
		err := tx.QueryRow(ctx,
			`SELECT book_id, quantity, returned FROM loans WHERE id = $1 FOR UPDATE`,
			id,
		).Scan(&bookID, &quantity, &returned)
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrLoanNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock loan row: %w", err)
		}

		if !returned {
			_, err = tx.Exec(ctx, `
				UPDATE books
				SET quantity_in_stock = quantity_in_stock + $1,
				    is_available = TRUE,
				    updated_at = NOW()
				WHERE id = $2
			`, quantity, bookID)
			if err != nil {
				return fmt.Errorf("failed to restore stock: %w", err)
			}
		}

		_, err = tx.Exec(ctx, `DELETE FROM loans WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete loan: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	r.invalidateBookCache(ctx)
	return nil
}

func (r *postgresRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]model.LoanDetail, error) {
	query := fmt.Sprintf(`
		SELECT %s %s
		WHERE l.returned = FALSE AND l.due_date < $1
		ORDER BY l.due_date ASC
	`, loanDetailColumns, loanDetailJoins)

	rows, err := r.pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("overdue loans query failed: %w", err)
	}

	loans, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.LoanDetail])
	if err != nil {
		return nil, fmt.Errorf("collect rows failed: %w", err)
	}

	return loans, nil
}

// Loan operations mutate book stock behind the book repository's back, so
// its cached entries have to go.
func (r *postgresRepository) invalidateBookCache(ctx context.Context) {
	if r.cache == nil {
		return
	}
	if err := r.cache.DeletePattern(ctx, "books:*"); err != nil {
		logger.Warn("failed to invalidate book cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
