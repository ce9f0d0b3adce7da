// Package services – ImageService
//
// This file implements ImageService, which attaches progress photos to
// service orders. Uploads are restricted to a fixed content-type allow-set,
// stored in an external object store under a generated per-order key, and
// recorded in the image ledger only after the upload succeeded, so a storage
// failure never leaves a half-written database row.
package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-maintenance-backend/internal/domain"
	"github.com/tbourn/go-maintenance-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ObjectStore is the contract the image workflow needs from object storage:
// upload a blob and mint a time-limited retrieval URL for it.
type ObjectStore interface {
	// Put uploads body under key with the given content type.
	Put(ctx context.Context, key, contentType string, body io.Reader) error

	// PresignGet returns a time-limited URL for reading key.
	PresignGet(ctx context.Context, key string) (string, error)
}

// allowedImageTypes is the fixed allow-set for uploads.
var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// AllowedImageTypes returns the accepted content types, for error messages.
func AllowedImageTypes() []string {
	return []string{"image/jpeg", "image/png", "image/webp"}
}

// ImageService handles order image upload and listing.
type ImageService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Store is the object storage backend.
	Store ObjectStore
}

// NewImageService constructs an ImageService bound to the given store.
func NewImageService(db *gorm.DB, store ObjectStore) *ImageService {
	return &ImageService{DB: db, Store: store}
}

// Upload stores an image for orderID and records it.
//
// Errors: ErrOrderNotFound when the order is missing, ErrInvalidContentType
// for a type outside the allow-set, and *UploadError when the storage
// backend fails (in which case nothing is persisted).
func (s *ImageService) Upload(ctx context.Context, orderID uint, fileName, contentType string, body io.Reader) (*domain.ServiceOrderImage, error) {
	tr := otel.Tracer("services/ImageService")
	ctx, span := tr.Start(ctx, "Upload",
		trace.WithAttributes(
			attribute.Int64("order.id", int64(orderID)),
			attribute.String("image.content_type", contentType),
		),
	)
	defer span.End()

	exists, err := repo.OrderExists(ctx, s.DB, orderID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrOrderNotFound
	}

	if _, ok := allowedImageTypes[contentType]; !ok {
		return nil, ErrInvalidContentType
	}

	key := objectKey(orderID, fileName)
	if err := s.Store.Put(ctx, key, contentType, body); err != nil {
		return nil, &UploadError{Err: err}
	}
	url, err := s.Store.PresignGet(ctx, key)
	if err != nil {
		return nil, &UploadError{Err: err}
	}

	img := &domain.ServiceOrderImage{
		OrderID:  orderID,
		FileName: displayName(fileName, key),
		ImageURL: url,
	}
	if err := repo.CreateImage(ctx, s.DB, img); err != nil {
		return nil, err
	}
	return img, nil
}

// List returns all images recorded for orderID, or ErrOrderNotFound.
func (s *ImageService) List(ctx context.Context, orderID uint) ([]domain.ServiceOrderImage, error) {
	exists, err := repo.OrderExists(ctx, s.DB, orderID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrOrderNotFound
	}
	return repo.ListImagesByOrder(ctx, s.DB, orderID)
}

// objectKey builds a collision-free per-order storage key, preserving the
// uploaded file's extension (default jpg).
func objectKey(orderID uint, fileName string) string {
	ext := strings.TrimPrefix(path.Ext(fileName), ".")
	if ext == "" {
		ext = "jpg"
	}
	return fmt.Sprintf("orders/%d/%s.%s", orderID, uuid.NewString(), ext)
}

// displayName keeps the caller's file name when present, else the object key.
func displayName(fileName, key string) string {
	if strings.TrimSpace(fileName) != "" {
		return fileName
	}
	return key
}
