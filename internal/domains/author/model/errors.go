package model

import "errors"

var (
	// Validation Errors
	ErrInvalidName   = errors.New("author name is invalid")
	ErrInvalidBookID = errors.New("book id is not a valid UUID")

	// Business Rule Errors
	ErrAuthorNotFound = errors.New("author not found")

	// Database Errors
	ErrDatabaseQuery = errors.New("database query error")
)

// ToErrorCode converts error to API error code
func ToErrorCode(err error) string {
	switch err {
	case ErrAuthorNotFound:
		return "AUTHOR_NOT_FOUND"
	case ErrInvalidName:
		return "INVALID_NAME"
	case ErrInvalidBookID:
		return "INVALID_BOOK_ID"
	default:
		return "INTERNAL_ERROR"
	}
}

// ToHTTPStatus converts error to HTTP status code
func ToHTTPStatus(err error) int {
	switch err {
	case ErrAuthorNotFound:
		return 404
	case ErrInvalidName, ErrInvalidBookID:
		return 400
	default:
		return 500
	}
}
