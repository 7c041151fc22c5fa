package model

import (
	"errors"
	"net/http"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRole        = errors.New("role is not in the allowed set")
	ErrRoleMismatch       = errors.New("user does not have the expected role")
)

func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return "USER_NOT_FOUND"
	case errors.Is(err, ErrEmailAlreadyExists):
		return "EMAIL_ALREADY_EXISTS"
	case errors.Is(err, ErrInvalidCredentials):
		return "INVALID_CREDENTIALS"
	case errors.Is(err, ErrInvalidRole):
		return "INVALID_ROLE"
	case errors.Is(err, ErrRoleMismatch):
		return "ROLE_MISMATCH"
	default:
		return "INTERNAL_ERROR"
	}
}

func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmailAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidRole), errors.Is(err, ErrRoleMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
