package model

import "errors"

var (
	// Validation Errors
	ErrInvalidTitle    = errors.New("book title is invalid")
	ErrInvalidAuthorID = errors.New("author id is not a valid UUID")

	// Business Rule Errors
	ErrBookNotFound = errors.New("book not found")
	ErrNoFileKey    = errors.New("book has no file to download")

	// Database Errors
	ErrDatabaseQuery = errors.New("database query error")
)

// ToErrorCode converts error to API error code
func ToErrorCode(err error) string {
	switch err {
	case ErrBookNotFound:
		return "BOOK_NOT_FOUND"
	case ErrNoFileKey:
		return "BOOK_HAS_NO_FILE"
	case ErrInvalidTitle:
		return "INVALID_TITLE"
	case ErrInvalidAuthorID:
		return "INVALID_AUTHOR_ID"
	default:
		return "INTERNAL_ERROR"
	}
}

// ToHTTPStatus converts error to HTTP status code
func ToHTTPStatus(err error) int {
	switch err {
	case ErrBookNotFound:
		return 404
	case ErrNoFileKey:
		return 409
	case ErrInvalidTitle, ErrInvalidAuthorID:
		return 400
	default:
		return 500
	}
}
