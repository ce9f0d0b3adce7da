// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for service orders
// and their line items, including the idempotency lookup that detects retried
// create requests.
//
// Idempotency is a derived property of the order ledger: the window check
// runs against service_orders.created_at rather than a separate request-id
// table, and the unique index on request_id backstops concurrent retries.
package repo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tbourn/go-maintenance-backend/internal/domain"
)

// FindOrderInWindow returns the order created with requestID at or after the
// given threshold time, or ErrNotFound. Used for the fast-path replay check:
// an order older than the window is treated as a different logical request.
func FindOrderInWindow(ctx context.Context, db *gorm.DB, requestID int64, since time.Time) (*domain.ServiceOrder, error) {
	var o domain.ServiceOrder
	err := db.WithContext(ctx).
		Preload("Items").
		Preload("Items.SparePart").
		Preload("Items.SparePart.Category").
		Where("request_id = ? AND created_at >= ?", requestID, since).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// FindOrderByRequestID returns the order for requestID regardless of age,
// or ErrNotFound. Used to resolve the winner after a duplicate-key race.
func FindOrderByRequestID(ctx context.Context, db *gorm.DB, requestID int64) (*domain.ServiceOrder, error) {
	var o domain.ServiceOrder
	err := db.WithContext(ctx).
		Preload("Items").
		Preload("Items.SparePart").
		Preload("Items.SparePart.Category").
		Where("request_id = ?", requestID).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOrder fetches an order by id with items, parts, and categories eagerly
// populated in explicit queries (no lazy loading), or ErrNotFound.
func GetOrder(ctx context.Context, db *gorm.DB, id uint) (*domain.ServiceOrder, error) {
	var o domain.ServiceOrder
	err := db.WithContext(ctx).
		Preload("Items").
		Preload("Items.SparePart").
		Preload("Items.SparePart.Category").
		First(&o, id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// OrderExists reports whether an order row with the given id exists.
func OrderExists(ctx context.Context, db *gorm.DB, id uint) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.ServiceOrder{}).
		Where("id = ?", id).
		Count(&n).Error
	return n > 0, err
}

// CreateOrder inserts a new order row. The caller supplies status and total;
// the workflow creates orders as pending with a zero total and settles the
// total before commit.
func CreateOrder(ctx context.Context, db *gorm.DB, o *domain.ServiceOrder) error {
	return db.WithContext(ctx).Create(o).Error
}

// CreateOrderItem inserts one line item row.
func CreateOrderItem(ctx context.Context, db *gorm.DB, it *domain.ServiceOrderItem) error {
	return db.WithContext(ctx).Create(it).Error
}

// SetOrderTotal persists the computed order total.
func SetOrderTotal(ctx context.Context, db *gorm.DB, orderID uint, total decimal.Decimal) error {
	return db.WithContext(ctx).
		Model(&domain.ServiceOrder{}).
		Where("id = ?", orderID).
		Update("total", total).Error
}
