package repository

import (
	"context"

	"catalog-service/internal/domains/book/model"
)

// RepositoryInterface is the persistence boundary of the catalog.
//
// Implementations own uniqueness of ISBN and optimistic locking on Version:
// Save inserts when book.ID is nil and updates otherwise, stamping audit
// fields from principal. An update whose version no longer matches the stored
// one fails with *model.ConcurrencyConflictError; an insert that collides on
// ISBN fails with *model.AlreadyExistsError.
type RepositoryInterface interface {
	FindAll(ctx context.Context) ([]model.Book, error)
	// FindByISBN returns the book and true, or nil and false when absent.
	FindByISBN(ctx context.Context, isbn string) (*model.Book, bool, error)
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)
	Save(ctx context.Context, book model.Book, principal model.Principal) (*model.Book, error)
	// DeleteByISBN is a no-op when the ISBN is unknown.
	DeleteByISBN(ctx context.Context, isbn string) error
}
