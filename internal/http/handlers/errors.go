// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// These constants form the stable, machine-readable taxonomy clients branch
// on; they supplement the human-readable message in ErrorResponse. Codes are
// lowercase snake_case. Generic codes mirror common HTTP status semantics,
// domain-specific codes cover business failures a status alone cannot convey.
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeValidation       = "validation_failed"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Domain-specific:
	ErrCodeInsufficientStock = "insufficient_stock"
	ErrCodeUploadFailed      = "upload_failed"
)
