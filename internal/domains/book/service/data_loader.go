package service

import (
	"context"
	"fmt"

	"catalog-service/internal/domains/book/model"
	"catalog-service/internal/domains/book/repository"
	"catalog-service/pkg/logger"

	"github.com/shopspring/decimal"
)

// DemoData replaces the catalog content with a small fixed set of books.
// Only enabled for local runs and tests.
type DemoData struct {
	repo repository.RepositoryInterface
}

func NewDemoData(repo repository.RepositoryInterface) *DemoData {
	return &DemoData{repo: repo}
}

// DemoBooks returns the books written by Load.
func DemoBooks() []model.Book {
	polarsophia := "Polarsophia"
	return []model.Book{
		model.NewBook("1234567891", "Northern Lights", "Lyra Silverstar", decimalPtr("9.90"), &polarsophia),
		model.NewBook("1234567892", "Polar Journey", "Iorek Polarson", decimalPtr("12.90"), &polarsophia),
	}
}

// Load deletes every stored book and inserts DemoBooks.
func (d *DemoData) Load(ctx context.Context) error {
	existing, err := d.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("list books: %w", err)
	}
	for _, book := range existing {
		if err := d.repo.DeleteByISBN(ctx, book.ISBN); err != nil {
			return fmt.Errorf("delete %s: %w", book.ISBN, err)
		}
	}

	for _, book := range DemoBooks() {
		if _, err := d.repo.Save(ctx, book, model.NoPrincipal); err != nil {
			return fmt.Errorf("save %s: %w", book.ISBN, err)
		}
	}

	logger.Info("[DemoData] Test data loaded", map[string]interface{}{
		"deleted":  len(existing),
		"inserted": len(DemoBooks()),
	})
	return nil
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
