package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InitialVersion is the version a book gets on its first persistence.
const InitialVersion = 1

// Book represents one catalog record plus its audit and version metadata.
type Book struct {
	// Identity
	ID   uuid.UUID `json:"id" db:"id"`
	ISBN string    `json:"isbn" db:"isbn"`

	// Business fields
	Title     string           `json:"title" db:"title"`
	Author    string           `json:"author" db:"author"`
	Price     *decimal.Decimal `json:"price" db:"price"`
	Publisher *string          `json:"publisher,omitempty" db:"publisher"`

	// Audit, populated by the repository
	CreatedDate      time.Time `json:"created_date" db:"created_date"`
	LastModifiedDate time.Time `json:"last_modified_date" db:"last_modified_date"`
	CreatedBy        *string   `json:"created_by,omitempty" db:"created_by"`
	LastModifiedBy   *string   `json:"last_modified_by,omitempty" db:"last_modified_by"`

	// Optimistic locking
	Version int `json:"version" db:"version"`
}

// NewBook builds a candidate book that has not been persisted yet.
func NewBook(isbn, title, author string, price *decimal.Decimal, publisher *string) Book {
	return Book{
		ISBN:      isbn,
		Title:     title,
		Author:    author,
		Price:     price,
		Publisher: publisher,
	}
}

// IsNew reports whether the book has never been stored.
func (b Book) IsNew() bool {
	return b.ID == uuid.Nil
}

// MergeForUpdate returns the record to write when candidate edits existing.
// Identity, audit and version come from existing, business fields from candidate.
func MergeForUpdate(existing, candidate Book) Book {
	return Book{
		ID:               existing.ID,
		ISBN:             existing.ISBN,
		Title:            candidate.Title,
		Author:           candidate.Author,
		Price:            candidate.Price,
		Publisher:        candidate.Publisher,
		CreatedDate:      existing.CreatedDate,
		LastModifiedDate: existing.LastModifiedDate,
		CreatedBy:        existing.CreatedBy,
		LastModifiedBy:   existing.LastModifiedBy,
		Version:          existing.Version,
	}
}

// SameBusinessFields compares the caller-controlled fields of two books.
func (b Book) SameBusinessFields(other Book) bool {
	if b.ISBN != other.ISBN || b.Title != other.Title || b.Author != other.Author {
		return false
	}
	if (b.Price == nil) != (other.Price == nil) {
		return false
	}
	if b.Price != nil && !b.Price.Equal(*other.Price) {
		return false
	}
	return stringPtrEqual(b.Publisher, other.Publisher)
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Principal is the identity of whoever performs a mutation.
// The zero value means no authenticated principal.
type Principal string

// NoPrincipal is used for unauthenticated calls.
const NoPrincipal Principal = ""

// IsAbsent reports whether no principal was supplied.
func (p Principal) IsAbsent() bool {
	return p == NoPrincipal
}

// Ref returns the principal as an audit column value, nil when absent.
func (p Principal) Ref() *string {
	if p.IsAbsent() {
		return nil
	}
	s := string(p)
	return &s
}

func (p Principal) String() string {
	if p.IsAbsent() {
		return "anonymous"
	}
	return string(p)
}
