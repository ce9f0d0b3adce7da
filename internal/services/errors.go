// Package services defines the business logic for the catalog, the order
// creation workflow, and image attachments. This file centralizes the
// service-level error values and typed errors so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages and HTTP status codes is performed at the
// handler layer.
package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrOrderNotFound indicates that the referenced service order does not exist.
	ErrOrderNotFound = errors.New("service order not found")

	// ErrPartNotFound indicates that a spare part looked up by SKU does not exist.
	ErrPartNotFound = errors.New("spare part not found")

	// ErrCategoryExists is returned when a category with the same name
	// already exists.
	ErrCategoryExists = errors.New("category already exists")

	// ErrSKUExists is returned when a spare part with the same SKU already
	// exists.
	ErrSKUExists = errors.New("spare part with this SKU already exists")

	// ErrNoUpdateFields is returned when a partial update request carries
	// no updatable fields.
	ErrNoUpdateFields = errors.New("no fields to update provided")

	// ErrEmptyOrder is returned when an order creation request has no line items.
	ErrEmptyOrder = errors.New("order must contain at least one item")

	// ErrInvalidQuantity is returned when a line quantity is not positive.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrInvalidRequestID is returned when the idempotency key is not a
	// positive integer.
	ErrInvalidRequestID = errors.New("request_id must be positive")

	// ErrInvalidContentType is returned when an uploaded image's declared
	// content type is outside the allow-set.
	ErrInvalidContentType = errors.New("invalid file type")
)

// PartsNotFoundError reports every spare part id in an order request that
// does not exist in the catalog. The whole request fails; no partial order
// is created.
type PartsNotFoundError struct {
	IDs []uint
}

func (e *PartsNotFoundError) Error() string {
	ids := append([]uint(nil), e.IDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return "spare parts not found: [" + strings.Join(parts, ", ") + "]"
}

// InsufficientStockError reports the first order line whose requested
// quantity exceeds the part's available stock.
type InsufficientStockError struct {
	Name      string
	SKU       string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q (SKU: %s). Available: %d, Requested: %d",
		e.Name, e.SKU, e.Available, e.Requested)
}

// UploadError wraps a failure from the object storage backend. The order row
// it concerns already exists; only the image step failed, so the caller can
// retry just the upload.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string { return "failed to upload image: " + e.Err.Error() }
func (e *UploadError) Unwrap() error { return e.Err }

// isNotFound reports whether err is the repo/GORM missing-record sentinel.
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// isDuplicate detects unique-constraint violations across drivers. Postgres
// (with TranslateError) yields gorm.ErrDuplicatedKey; glebarez/sqlite often
// returns plain-text errors for UNIQUE violations.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key value violates unique constraint")
}
