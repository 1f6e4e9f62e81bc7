package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookRequest is the body accepted by POST /books and PUT /books/:isbn.
// Audit and version fields sent by clients are ignored.
type BookRequest struct {
	ISBN      string           `json:"isbn"`
	Title     string           `json:"title"`
	Author    string           `json:"author"`
	Price     *decimal.Decimal `json:"price"`
	Publisher *string          `json:"publisher"`
}

// ToCandidate converts the request into a not-yet-persisted Book.
func (r BookRequest) ToCandidate() Book {
	return NewBook(r.ISBN, r.Title, r.Author, r.Price, r.Publisher)
}

// BookResponse is the JSON representation of a stored book.
type BookResponse struct {
	ID               uuid.UUID        `json:"id"`
	ISBN             string           `json:"isbn"`
	Title            string           `json:"title"`
	Author           string           `json:"author"`
	Price            *decimal.Decimal `json:"price"`
	Publisher        *string          `json:"publisher,omitempty"`
	CreatedDate      time.Time        `json:"created_date"`
	LastModifiedDate time.Time        `json:"last_modified_date"`
	CreatedBy        *string          `json:"created_by,omitempty"`
	LastModifiedBy   *string          `json:"last_modified_by,omitempty"`
	Version          int              `json:"version"`
}
