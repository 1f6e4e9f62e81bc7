package model

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// Validation messages are part of the API contract and must not change.
const (
	MsgISBNRequired   = "The book ISBN must be defined."
	MsgISBNFormat     = "The ISBN format must be valid."
	MsgTitleRequired  = "The book title must be defined."
	MsgAuthorRequired = "The book author must be defined."
	MsgPriceRequired  = "The book price must be defined."
	MsgPricePositive  = "The book price must be greater than zero."
)

const (
	FieldISBN   = "isbn"
	FieldTitle  = "title"
	FieldAuthor = "author"
	FieldPrice  = "price"

	errCodeISBNFormat    = "validation_isbn_format"
	errCodePricePositive = "validation_price_positive"
)

// ISBN-10 shape only: nine digits followed by a digit or X. The checksum is not verified.
var isbnPattern = regexp.MustCompile(`^[0-9]{9}[0-9Xx]$`)

// Finding is a single rule violation on a candidate book.
type Finding struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	isbnFormatRule = validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if !isbnPattern.MatchString(s) {
			return validation.NewError(errCodeISBNFormat, MsgISBNFormat)
		}
		return nil
	})

	positivePriceRule = validation.By(func(value interface{}) error {
		price, _ := value.(*decimal.Decimal)
		if price != nil && !price.IsPositive() {
			return validation.NewError(errCodePricePositive, MsgPricePositive)
		}
		return nil
	})
)

// fieldCheck binds one rule to one field. Several checks may target the same
// field; each one contributes its own finding.
type fieldCheck struct {
	field string
	value interface{}
	rule  validation.Rule
}

// ValidateBook runs every rule against b and returns all findings.
// An empty result means b is acceptable for persistence.
func ValidateBook(b Book) []Finding {
	checks := []fieldCheck{
		{FieldISBN, strings.TrimSpace(b.ISBN), validation.Required.Error(MsgISBNRequired)},
		{FieldISBN, b.ISBN, isbnFormatRule},
		{FieldTitle, strings.TrimSpace(b.Title), validation.Required.Error(MsgTitleRequired)},
		{FieldAuthor, strings.TrimSpace(b.Author), validation.Required.Error(MsgAuthorRequired)},
		{FieldPrice, b.Price, validation.NotNil.Error(MsgPriceRequired)},
		{FieldPrice, b.Price, positivePriceRule},
	}

	var findings []Finding
	for _, check := range checks {
		if err := validation.Validate(check.value, check.rule); err != nil {
			findings = append(findings, Finding{Field: check.field, Message: err.Error()})
		}
	}
	return findings
}

// Validate returns a *ValidationError when b breaks any rule.
func (b Book) Validate() error {
	if findings := ValidateBook(b); len(findings) > 0 {
		return &ValidationError{Findings: findings}
	}
	return nil
}
