package service

import (
	"context"
	"fmt"

	"catalog-service/internal/domains/book/model"
	"catalog-service/internal/domains/book/repository"
	"catalog-service/pkg/logger"
)

// BookService - Implements ServiceInterface.
// It keeps no state of its own; the repository arbitrates concurrent writes.
type BookService struct {
	repo repository.RepositoryInterface
}

// NewService - Constructor with DI
func NewService(repo repository.RepositoryInterface) ServiceInterface {
	return &BookService{repo: repo}
}

func (s *BookService) ListBooks(ctx context.Context) ([]model.Book, error) {
	books, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (s *BookService) GetBook(ctx context.Context, isbn string) (*model.Book, error) {
	book, found, err := s.repo.FindByISBN(ctx, isbn)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	if !found {
		return nil, &model.NotFoundError{ISBN: isbn}
	}
	return book, nil
}

// CreateBook stores candidate as a new book. The existence check runs before
// the write so the conflict names the ISBN; the store's unique constraint
// still settles races between the check and the insert.
func (s *BookService) CreateBook(ctx context.Context, candidate model.Book, principal model.Principal) (*model.Book, error) {
	if err := candidate.Validate(); err != nil {
		return nil, err
	}
	return s.create(ctx, candidate, principal)
}

func (s *BookService) create(ctx context.Context, candidate model.Book, principal model.Principal) (*model.Book, error) {
	exists, err := s.repo.ExistsByISBN(ctx, candidate.ISBN)
	if err != nil {
		return nil, fmt.Errorf("check isbn: %w", err)
	}
	if exists {
		return nil, &model.AlreadyExistsError{ISBN: candidate.ISBN}
	}

	// Only business fields reach the store; identity, audit and version are its job.
	fresh := model.NewBook(candidate.ISBN, candidate.Title, candidate.Author, candidate.Price, candidate.Publisher)

	saved, err := s.repo.Save(ctx, fresh, principal)
	if err != nil {
		return nil, err
	}

	logger.Info("[Service] Book created", map[string]interface{}{
		"isbn":      saved.ISBN,
		"id":        saved.ID.String(),
		"principal": principal.String(),
	})
	return saved, nil
}

// DeleteBook is idempotent: an unknown ISBN is not an error.
func (s *BookService) DeleteBook(ctx context.Context, isbn string) error {
	if err := s.repo.DeleteByISBN(ctx, isbn); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	logger.Info("[Service] Book deleted", map[string]interface{}{
		"isbn": isbn,
	})
	return nil
}

// EditBook updates the book stored under isbn with the business fields of
// candidate, or creates candidate when isbn is unknown.
func (s *BookService) EditBook(ctx context.Context, isbn string, candidate model.Book, principal model.Principal) (*model.Book, error) {
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	existing, found, err := s.repo.FindByISBN(ctx, isbn)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	if !found {
		return s.create(ctx, candidate, principal)
	}

	saved, err := s.repo.Save(ctx, model.MergeForUpdate(*existing, candidate), principal)
	if err != nil {
		return nil, err
	}

	logger.Info("[Service] Book updated", map[string]interface{}{
		"isbn":      saved.ISBN,
		"version":   saved.Version,
		"principal": principal.String(),
		"changed":   !existing.SameBusinessFields(*saved),
	})
	return saved, nil
}
