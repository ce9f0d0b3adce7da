// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the catalog:
// categories and spare parts.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a record is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - Unique violations and other DB errors are propagated raw; the service
//     layer maps them to sentinels.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-maintenance-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for consistency across the service
// layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateCategory inserts a new category row.
func CreateCategory(ctx context.Context, db *gorm.DB, c *domain.Category) error {
	return db.WithContext(ctx).Create(c).Error
}

// FindCategoryByName fetches a category by exact name, or ErrNotFound.
func FindCategoryByName(ctx context.Context, db *gorm.DB, name string) (*domain.Category, error) {
	var c domain.Category
	err := db.WithContext(ctx).Where("name = ?", name).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateSparePart inserts a new spare part row.
func CreateSparePart(ctx context.Context, db *gorm.DB, p *domain.SparePart) error {
	return db.WithContext(ctx).Create(p).Error
}

// FindPartBySKU fetches a spare part by SKU with its category populated,
// or ErrNotFound.
func FindPartBySKU(ctx context.Context, db *gorm.DB, sku string) (*domain.SparePart, error) {
	var p domain.SparePart
	err := db.WithContext(ctx).
		Preload("Category").
		Where("sku = ?", sku).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindPartsByIDs resolves a batch of spare part ids in a single query and
// returns them keyed by id. Absent ids are simply missing from the map;
// the caller decides whether that is an error.
func FindPartsByIDs(ctx context.Context, db *gorm.DB, ids []uint) (map[uint]domain.SparePart, error) {
	var parts []domain.SparePart
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&parts).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]domain.SparePart, len(parts))
	for _, p := range parts {
		out[p.ID] = p
	}
	return out, nil
}

// UpdatePartFields applies a partial update to the spare part identified by
// sku. Returns ErrNotFound when no row matched.
func UpdatePartFields(ctx context.Context, db *gorm.DB, sku string, fields map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.SparePart{}).
		Where("sku = ?", sku).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountParts returns the total number of spare parts for pagination.
func CountParts(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.SparePart{}).Count(&total).Error
	return total, err
}

// ListPartsPage returns a paginated slice of spare parts with categories
// populated, ordered by id ascending.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListPartsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.SparePart, error) {
	var out []domain.SparePart
	err := db.WithContext(ctx).
		Preload("Category").
		Order("id asc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// DecrementStock atomically reserves qty units of a part:
//
//	UPDATE spare_parts SET stock = stock - qty WHERE id = ? AND stock >= qty
//
// It reports whether the reservation happened. A false return means the part
// no longer had enough stock (or vanished) at decrement time; running inside
// the order transaction this aborts the whole order. The guard closes the
// check-then-act race between the pre-flight stock pass and the write.
func DecrementStock(ctx context.Context, db *gorm.DB, partID uint, qty int) (bool, error) {
	res := db.WithContext(ctx).
		Model(&domain.SparePart{}).
		Where("id = ? AND stock >= ?", partID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// PartStock returns the current stock level of one spare part.
func PartStock(ctx context.Context, db *gorm.DB, partID uint) (int, error) {
	var p domain.SparePart
	err := db.WithContext(ctx).Select("stock").Take(&p, "id = ?", partID).Error
	if err != nil {
		return 0, err
	}
	return p.Stock, nil
}
