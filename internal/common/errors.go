package common

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound           = errors.New("requested resource not found")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrBadRequest         = errors.New("bad request")
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = errors.New("this email is already registered")
	ErrWeakPassword       = errors.New("password does not meet the minimum requirements")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInternalServer     = errors.New("internal server error")
)

// HTTPStatusFromError maps domain errors to HTTP status codes.
// Duplicate email and invalid credentials deliberately map to 400, matching
// the API contract consumed by the client.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrDuplicateEmail) || errors.Is(err, ErrWeakPassword) ||
		errors.Is(err, ErrInvalidCredentials) {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// Errorf creates a new error with formatting, useful for wrapping.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
