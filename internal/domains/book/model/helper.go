package model

import "fmt"

const cacheKeyPrefix = "books:isbn"

// GenerateBookCacheKey returns the cache key of a single book.
func GenerateBookCacheKey(isbn string) string {
	return fmt.Sprintf("%s:%s", cacheKeyPrefix, isbn)
}

// ToResponse converts Book to BookResponse
func (b *Book) ToResponse() *BookResponse {
	return &BookResponse{
		ID:               b.ID,
		ISBN:             b.ISBN,
		Title:            b.Title,
		Author:           b.Author,
		Price:            b.Price,
		Publisher:        b.Publisher,
		CreatedDate:      b.CreatedDate,
		LastModifiedDate: b.LastModifiedDate,
		CreatedBy:        b.CreatedBy,
		LastModifiedBy:   b.LastModifiedBy,
		Version:          b.Version,
	}
}

// ToResponseList converts a slice of books, never returning nil.
func ToResponseList(books []Book) []BookResponse {
	result := make([]BookResponse, 0, len(books))
	for i := range books {
		result = append(result, *books[i].ToResponse())
	}
	return result
}
