package model

import (
	"errors"
	"net/http"
)

var (
	ErrAuthorNotFound = errors.New("author not found")
	ErrAuthorHasBooks = errors.New("cannot delete author with linked books")
	ErrInvalidName    = errors.New("author name is invalid")
)

// ToErrorCode converts an error to the API error code.
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrAuthorNotFound):
		return "AUTHOR_NOT_FOUND"
	case errors.Is(err, ErrAuthorHasBooks):
		return "AUTHOR_HAS_BOOKS"
	case errors.Is(err, ErrInvalidName):
		return "INVALID_NAME"
	default:
		return "INTERNAL_ERROR"
	}
}

// ToHTTPStatus converts an error to the HTTP status code.
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrAuthorNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAuthorHasBooks):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidName):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
