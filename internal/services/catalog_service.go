// Package services – CatalogService
//
// This file implements CatalogService, which manages categories and spare
// parts. It enforces SKU format and uniqueness, category name uniqueness,
// and the partial-update rules for spare parts (only price and stock may
// change after creation).
package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tbourn/go-maintenance-backend/internal/domain"
	"github.com/tbourn/go-maintenance-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CatalogService provides category and spare-part operations.
type CatalogService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db}
}

// CreateCategory inserts a new category. Names are trimmed and must be
// unique; returns ErrCategoryExists on a duplicate.
func (s *CatalogService) CreateCategory(ctx context.Context, name string, description *string) (*domain.Category, error) {
	name = strings.TrimSpace(name)

	c := &domain.Category{Name: name, Description: description}
	if err := repo.CreateCategory(ctx, s.DB, c); err != nil {
		if isDuplicate(err) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	return c, nil
}

// CreateSparePart registers a new catalog entry after validating the SKU
// format. Returns ErrSKUExists when the SKU is already taken; the unique
// index is the arbiter, so concurrent registrations cannot both win.
func (s *CatalogService) CreateSparePart(ctx context.Context, p *domain.SparePart) (*domain.SparePart, error) {
	tr := otel.Tracer("services/CatalogService")
	ctx, span := tr.Start(ctx, "CreateSparePart",
		trace.WithAttributes(attribute.String("part.sku", p.SKU)),
	)
	defer span.End()

	if err := domain.ValidateSKU(p.SKU); err != nil {
		return nil, err
	}
	if err := repo.CreateSparePart(ctx, s.DB, p); err != nil {
		if isDuplicate(err) {
			return nil, ErrSKUExists
		}
		return nil, err
	}
	return repo.FindPartBySKU(ctx, s.DB, p.SKU)
}

// UpdateSparePart applies a partial update to the part identified by sku.
// Only price and stock are updatable; nil means "leave unchanged". With both
// nil it returns ErrNoUpdateFields, and ErrPartNotFound when sku is unknown.
func (s *CatalogService) UpdateSparePart(ctx context.Context, sku string, price *decimal.Decimal, stock *int) (*domain.SparePart, error) {
	fields := make(map[string]any, 2)
	if price != nil {
		fields["price"] = *price
	}
	if stock != nil {
		fields["stock"] = *stock
	}
	if len(fields) == 0 {
		return nil, ErrNoUpdateFields
	}

	if err := repo.UpdatePartFields(ctx, s.DB, sku, fields); err != nil {
		if isNotFound(err) {
			return nil, ErrPartNotFound
		}
		return nil, err
	}
	return repo.FindPartBySKU(ctx, s.DB, sku)
}

// ListParts returns a page of spare parts with their categories and the
// total count. It applies defaults for invalid page/pageSize.
func (s *CatalogService) ListParts(ctx context.Context, page, pageSize int) ([]domain.SparePart, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountParts(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.SparePart{}, 0, nil
	}

	items, err := repo.ListPartsPage(ctx, s.DB, offset, pageSize)
	return items, total, err
}
