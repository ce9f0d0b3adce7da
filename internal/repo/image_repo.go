// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for service order
// images.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-maintenance-backend/internal/domain"
)

// CreateImage inserts an image row. Only called after the object store upload
// succeeded, so a storage failure never leaves a dangling row behind.
func CreateImage(ctx context.Context, db *gorm.DB, img *domain.ServiceOrderImage) error {
	return db.WithContext(ctx).Create(img).Error
}

// ListImagesByOrder returns the flat list of images for an order, oldest first.
func ListImagesByOrder(ctx context.Context, db *gorm.DB, orderID uint) ([]domain.ServiceOrderImage, error) {
	var out []domain.ServiceOrderImage
	err := db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}
