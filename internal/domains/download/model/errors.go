package model

import "errors"

var (
	ErrTransferNotFound = errors.New("transfer not found")
	ErrNotDownloaded    = errors.New("book file is not downloaded yet")
)

// ToErrorCode converts error to API error code
func ToErrorCode(err error) string {
	switch err {
	case ErrTransferNotFound:
		return "TRANSFER_NOT_FOUND"
	case ErrNotDownloaded:
		return "NOT_DOWNLOADED"
	default:
		return "INTERNAL_ERROR"
	}
}

// ToHTTPStatus converts error to HTTP status code
func ToHTTPStatus(err error) int {
	switch err {
	case ErrTransferNotFound:
		return 404
	case ErrNotDownloaded:
		return 409
	default:
		return 500
	}
}
