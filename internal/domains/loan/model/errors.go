package model

import (
	"errors"
	"net/http"
)

var (
	ErrLoanNotFound      = errors.New("loan not found")
	ErrClientNotFound    = errors.New("client not found")
	ErrBookNotFound      = errors.New("book not found")
	ErrLibrarianNotFound = errors.New("librarian not found")
	ErrClientInactive    = errors.New("client is inactive and cannot borrow")
	ErrNotLibrarian      = errors.New("acting user is not a librarian")
	ErrInsufficientStock = errors.New("not enough copies in stock")
	ErrAlreadyReturned   = errors.New("loan has already been returned")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
)

func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrLoanNotFound):
		return "LOAN_NOT_FOUND"
	case errors.Is(err, ErrClientNotFound):
		return "CLIENT_NOT_FOUND"
	case errors.Is(err, ErrBookNotFound):
		return "BOOK_NOT_FOUND"
	case errors.Is(err, ErrLibrarianNotFound):
		return "LIBRARIAN_NOT_FOUND"
	case errors.Is(err, ErrClientInactive):
		return "CLIENT_INACTIVE"
	case errors.Is(err, ErrNotLibrarian):
		return "NOT_LIBRARIAN"
	case errors.Is(err, ErrInsufficientStock):
		return "INSUFFICIENT_STOCK"
	case errors.Is(err, ErrAlreadyReturned):
		return "ALREADY_RETURNED"
	case errors.Is(err, ErrInvalidQuantity):
		return "INVALID_QUANTITY"
	default:
		return "INTERNAL_ERROR"
	}
}

func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrLoanNotFound),
		errors.Is(err, ErrClientNotFound),
		errors.Is(err, ErrBookNotFound),
		errors.Is(err, ErrLibrarianNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrAlreadyReturned),
		errors.Is(err, ErrClientInactive),
		errors.Is(err, ErrNotLibrarian),
		errors.Is(err, ErrInvalidQuantity):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
