package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"catalog-service/internal/domains/book/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteConfig holds configuration for the SQLite book repository.
type SQLiteConfig struct {
	// Path is the database file; ":memory:" keeps everything in process.
	Path string
}

// SQLiteRepository implements RepositoryInterface on an embedded SQLite database.
type SQLiteRepository struct {
	db        *sql.DB
	writeLock *sync.Mutex // go-sqlite does not support concurrent writes
	now       func() time.Time
}

var _ RepositoryInterface = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens the database at cfg.Path and creates the books table if needed.
func NewSQLiteRepository(cfg SQLiteConfig) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Every connection to ":memory:" would see its own empty database.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if err := initializeSQLiteSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize db: %w", err)
	}

	return &SQLiteRepository{
		db:        db,
		writeLock: new(sync.Mutex),
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

func initializeSQLiteSchema(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS books (
			id                 TEXT    PRIMARY KEY,
			isbn               TEXT    UNIQUE NOT NULL,
			title              TEXT    NOT NULL,
			author             TEXT    NOT NULL,
			price              TEXT    NOT NULL,
			publisher          TEXT,
			created_date       INTEGER NOT NULL,
			last_modified_date INTEGER NOT NULL,
			created_by         TEXT,
			last_modified_by   TEXT,
			version            INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

const sqliteBookColumns = `id, isbn, title, author, price, publisher,
	created_date, last_modified_date, created_by, last_modified_by, version`

func (r *SQLiteRepository) FindAll(ctx context.Context) ([]model.Book, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sqliteBookColumns+` FROM books ORDER BY created_date, isbn`)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0)
	for rows.Next() {
		book, err := scanSQLiteBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}

func (r *SQLiteRepository) FindByISBN(ctx context.Context, isbn string) (*model.Book, bool, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sqliteBookColumns+` FROM books WHERE isbn = ?`, isbn)

	book, err := scanSQLiteBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return book, true, nil
}

func (r *SQLiteRepository) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM books WHERE isbn = ?)`, isbn).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query exists: %w", err)
	}
	return exists, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, book model.Book, principal model.Principal) (*model.Book, error) {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	if book.IsNew() {
		return r.insert(ctx, book, principal)
	}
	return r.update(ctx, book, principal)
}

func (r *SQLiteRepository) insert(ctx context.Context, book model.Book, principal model.Principal) (*model.Book, error) {
	now := r.now()
	book.ID = uuid.New()
	book.CreatedDate = now
	book.LastModifiedDate = now
	book.CreatedBy = principal.Ref()
	book.LastModifiedBy = principal.Ref()
	book.Version = model.InitialVersion

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO books (`+sqliteBookColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID.String(), book.ISBN, book.Title, book.Author, priceText(book.Price), book.Publisher,
		book.CreatedDate.UnixNano(), book.LastModifiedDate.UnixNano(),
		book.CreatedBy, book.LastModifiedBy, book.Version,
	)
	if err != nil {
		var liteErr *sqlite.Error
		if errors.As(err, &liteErr) && liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return nil, &model.AlreadyExistsError{ISBN: book.ISBN}
		}
		return nil, fmt.Errorf("insert book: %w", err)
	}

	book.CreatedDate = time.Unix(0, book.CreatedDate.UnixNano()).UTC()
	book.LastModifiedDate = book.CreatedDate
	return &book, nil
}

func (r *SQLiteRepository) update(ctx context.Context, book model.Book, principal model.Principal) (*model.Book, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE books
		SET title = ?, author = ?, price = ?, publisher = ?,
		    last_modified_date = ?,
		    last_modified_by = COALESCE(?, last_modified_by),
		    version = version + 1
		WHERE id = ? AND version = ?`,
		book.Title, book.Author, priceText(book.Price), book.Publisher,
		r.now().UnixNano(), principal.Ref(),
		book.ID.String(), book.Version,
	)
	if err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, &model.ConcurrencyConflictError{ISBN: book.ISBN}
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT `+sqliteBookColumns+` FROM books WHERE id = ?`, book.ID.String())
	return scanSQLiteBook(row)
}

func (r *SQLiteRepository) DeleteByISBN(ctx context.Context, isbn string) error {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE isbn = ?`, isbn); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (r *SQLiteRepository) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteBook(row rowScanner) (*model.Book, error) {
	var (
		book                 model.Book
		price                sql.NullString
		created, lastChanged int64
	)
	err := row.Scan(
		&book.ID, &book.ISBN, &book.Title, &book.Author, &price, &book.Publisher,
		&created, &lastChanged, &book.CreatedBy, &book.LastModifiedBy, &book.Version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan book: %w", err)
	}

	if price.Valid {
		p, err := decimal.NewFromString(price.String)
		if err != nil {
			return nil, fmt.Errorf("parse price %q: %w", price.String, err)
		}
		book.Price = &p
	}
	book.CreatedDate = time.Unix(0, created).UTC()
	book.LastModifiedDate = time.Unix(0, lastChanged).UTC()
	return &book, nil
}

func priceText(p *decimal.Decimal) any {
	if p == nil {
		return nil
	}
	return p.String()
}
