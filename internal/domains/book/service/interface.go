package service

import (
	"context"

	"catalog-service/internal/domains/book/model"
)

// ServiceInterface - catalog operations exposed to the HTTP layer.
// principal is recorded as audit metadata; authorization happens before the call.
type ServiceInterface interface {
	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, isbn string) (*model.Book, error)
	CreateBook(ctx context.Context, candidate model.Book, principal model.Principal) (*model.Book, error)
	DeleteBook(ctx context.Context, isbn string) error
	EditBook(ctx context.Context, isbn string, candidate model.Book, principal model.Principal) (*model.Book, error)
}
