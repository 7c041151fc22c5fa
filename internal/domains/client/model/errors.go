package model

import (
	"errors"
	"net/http"
)

var (
	ErrClientNotFound     = errors.New("client not found")
	ErrEmailAlreadyExists = errors.New("a client with this email already exists")
	ErrInvalidStatus      = errors.New("status must be active or inactive")
)

func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrClientNotFound):
		return "CLIENT_NOT_FOUND"
	case errors.Is(err, ErrEmailAlreadyExists):
		return "EMAIL_ALREADY_EXISTS"
	case errors.Is(err, ErrInvalidStatus):
		return "INVALID_STATUS"
	default:
		return "INTERNAL_ERROR"
	}
}

func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrClientNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmailAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidStatus):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
