package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-service/internal/domains/book/model"
	"catalog-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

const bookColumns = `id, isbn, title, author, price, publisher,
		created_date, last_modified_date, created_by, last_modified_by, version`

// postgresRepository - Raw SQL with pgxpool
type postgresRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPostgresRepository - Constructor
func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{
		pool: pool,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *postgresRepository) FindAll(ctx context.Context) ([]model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books ORDER BY created_date, isbn`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return books, nil
}

func (r *postgresRepository) FindByISBN(ctx context.Context, isbn string) (*model.Book, bool, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE isbn = $1`

	book, err := scanBook(r.pool.QueryRow(ctx, query, isbn))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return book, true, nil
}

func (r *postgresRepository) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM books WHERE isbn = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, isbn).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check ISBN: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) Save(ctx context.Context, book model.Book, principal model.Principal) (*model.Book, error) {
	if book.IsNew() {
		return r.insert(ctx, book, principal)
	}
	return r.update(ctx, book, principal)
}

func (r *postgresRepository) insert(ctx context.Context, book model.Book, principal model.Principal) (*model.Book, error) {
	now := r.now()
	book.ID = uuid.New()
	book.CreatedDate = now
	book.LastModifiedDate = now
	book.CreatedBy = principal.Ref()
	book.LastModifiedBy = principal.Ref()
	book.Version = model.InitialVersion

	query := `
		INSERT INTO books (` + bookColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.pool.Exec(ctx, query,
		book.ID, book.ISBN, book.Title, book.Author, book.Price, book.Publisher,
		book.CreatedDate, book.LastModifiedDate, book.CreatedBy, book.LastModifiedBy, book.Version,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, &model.AlreadyExistsError{ISBN: book.ISBN}
		}
		return nil, fmt.Errorf("failed to insert book: %w", err)
	}

	logger.Debug("[Repository] Book inserted", map[string]interface{}{
		"isbn": book.ISBN,
		"id":   book.ID.String(),
	})
	return &book, nil
}

func (r *postgresRepository) update(ctx context.Context, book model.Book, principal model.Principal) (*model.Book, error) {
	// The row only changes if nobody bumped the version since book was read.
	query := `
		UPDATE books
		SET title = $1, author = $2, price = $3, publisher = $4,
		    last_modified_date = $5,
		    last_modified_by = COALESCE($6, last_modified_by),
		    version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING ` + bookColumns

	updated, err := scanBook(r.pool.QueryRow(ctx, query,
		book.Title, book.Author, book.Price, book.Publisher,
		r.now(), principal.Ref(),
		book.ID, book.Version,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &model.ConcurrencyConflictError{ISBN: book.ISBN}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	return updated, nil
}

func (r *postgresRepository) DeleteByISBN(ctx context.Context, isbn string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM books WHERE isbn = $1`, isbn); err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	return nil
}

func scanBook(row pgx.Row) (*model.Book, error) {
	var book model.Book
	err := row.Scan(
		&book.ID, &book.ISBN, &book.Title, &book.Author, &book.Price, &book.Publisher,
		&book.CreatedDate, &book.LastModifiedDate, &book.CreatedBy, &book.LastModifiedBy, &book.Version,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan book: %w", err)
	}
	return &book, nil
}
