package model

import "errors"

var (
	// Business Rule Errors
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")

	// Database Errors
	ErrDatabaseQuery = errors.New("database query error")
)

// ToErrorCode converts error to API error code
func ToErrorCode(err error) string {
	switch err {
	case ErrEmailAlreadyExists:
		return "EMAIL_ALREADY_EXISTS"
	case ErrInvalidCredentials:
		return "INVALID_CREDENTIALS"
	case ErrUserNotFound:
		return "USER_NOT_FOUND"
	default:
		return "INTERNAL_ERROR"
	}
}

// ToHTTPStatus converts error to HTTP status code
func ToHTTPStatus(err error) int {
	switch err {
	case ErrEmailAlreadyExists:
		return 409
	case ErrInvalidCredentials:
		return 401
	case ErrUserNotFound:
		return 404
	default:
		return 500
	}
}
