package model

import (
	"errors"
	"net/http"
)

var (
	ErrBookNotFound        = errors.New("book not found")
	ErrAuthorNotFound      = errors.New("author not found")
	ErrInvalidGenre        = errors.New("genre is not in the allowed set")
	ErrNegativeStock       = errors.New("quantity in stock must not be negative")
	ErrAvailabilityDerived = errors.New("is_available is derived from stock and cannot be set directly")
	ErrEmptyImport         = errors.New("import file contains no data rows")
	ErrInvalidImportRow    = errors.New("import row is invalid")
)

func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrBookNotFound):
		return "BOOK_NOT_FOUND"
	case errors.Is(err, ErrAuthorNotFound):
		return "AUTHOR_NOT_FOUND"
	case errors.Is(err, ErrInvalidGenre):
		return "INVALID_GENRE"
	case errors.Is(err, ErrNegativeStock):
		return "NEGATIVE_STOCK"
	case errors.Is(err, ErrAvailabilityDerived):
		return "AVAILABILITY_DERIVED"
	case errors.Is(err, ErrEmptyImport):
		return "EMPTY_IMPORT"
	case errors.Is(err, ErrInvalidImportRow):
		return "INVALID_IMPORT_ROW"
	default:
		return "INTERNAL_ERROR"
	}
}

func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrBookNotFound), errors.Is(err, ErrAuthorNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidGenre),
		errors.Is(err, ErrNegativeStock),
		errors.Is(err, ErrAvailabilityDerived),
		errors.Is(err, ErrEmptyImport),
		errors.Is(err, ErrInvalidImportRow):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
