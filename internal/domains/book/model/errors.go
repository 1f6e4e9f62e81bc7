package model

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"catalog-service/internal/shared/response"
	"catalog-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrBookAlreadyExists = errors.New("book already exists")
	ErrVersionConflict   = errors.New("version conflict: book was modified by another user")
	ErrValidationFailed  = errors.New("book validation failed")
)

// NotFoundError is returned when no book matches the requested ISBN.
type NotFoundError struct {
	ISBN string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("The book with ISBN %s was not found.", e.ISBN)
}

func (e *NotFoundError) Unwrap() error { return ErrBookNotFound }

// AlreadyExistsError is returned when the ISBN is already in use.
type AlreadyExistsError struct {
	ISBN string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("A book with ISBN %s already exists.", e.ISBN)
}

func (e *AlreadyExistsError) Unwrap() error { return ErrBookAlreadyExists }

// ConcurrencyConflictError is returned by a repository when a write carries a stale version.
type ConcurrencyConflictError struct {
	ISBN string
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("The book with ISBN %s was modified concurrently.", e.ISBN)
}

func (e *ConcurrencyConflictError) Unwrap() error { return ErrVersionConflict }

// ValidationError carries every finding of a failed validation pass.
type ValidationError struct {
	Findings []Finding
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages(), " ")
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

// Messages returns the finding messages in the order they were produced.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, len(e.Findings))
	for i, f := range e.Findings {
		msgs[i] = f.Message
	}
	return msgs
}

var bookErrorMap = []struct {
	Target error
	Status int
	Code   string
}{
	{ErrValidationFailed, http.StatusBadRequest, "BOOK_INVALID"},
	{ErrBookNotFound, http.StatusNotFound, "BOOK_NOT_FOUND"},
	{ErrBookAlreadyExists, http.StatusConflict, "BOOK_ALREADY_EXISTS"},
	{ErrVersionConflict, http.StatusConflict, "BOOK_VERSION_CONFLICT"},
}

// HandleBookError writes the HTTP response for err and reports whether it did so.
func HandleBookError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	for _, m := range bookErrorMap {
		if !errors.Is(err, m.Target) {
			continue
		}
		var verr *ValidationError
		if errors.As(err, &verr) {
			response.ErrorWithDetails(c, m.Status, m.Code, verr.Error(), verr.Findings)
			return true
		}
		response.ErrorResponse(c, m.Status, m.Code, err.Error())
		return true
	}

	logger.ErrorWithFields("[Handler] Unexpected book error", err, map[string]interface{}{
		"path": c.Request.URL.Path,
	})
	response.InternalServerError(c, "Internal server error")
	return true
}
