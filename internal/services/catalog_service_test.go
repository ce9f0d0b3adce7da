package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tbourn/go-maintenance-backend/internal/domain"
)

func TestCreateCategory_TrimsAndStores(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)

	desc := "Bolts, nuts and washers"
	cat, err := svc.CreateCategory(context.Background(), "  Fasteners  ", &desc)
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if cat.Name != "Fasteners" {
		t.Fatalf("name = %q; want trimmed", cat.Name)
	}
	if cat.Description == nil || *cat.Description != desc {
		t.Fatalf("description not stored: %+v", cat.Description)
	}
}

func TestCreateCategory_Duplicate(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	if _, err := svc.CreateCategory(ctx, "Fasteners", nil); err != nil {
		t.Fatalf("first CreateCategory: %v", err)
	}
	if _, err := svc.CreateCategory(ctx, "Fasteners", nil); !errors.Is(err, ErrCategoryExists) {
		t.Fatalf("expected ErrCategoryExists, got %v", err)
	}
}

func TestCreateSparePart_RejectsBadSKU(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	_, err := svc.CreateSparePart(ctx, &domain.SparePart{
		Name: "bolt", SKU: "BOLT-STEEL-M10", Price: decimal.RequireFromString("1.00"),
	})
	if err == nil || !strings.Contains(err.Error(), "invalid SKU format") {
		t.Fatalf("expected format error, got %v", err)
	}

	_, err = svc.CreateSparePart(ctx, &domain.SparePart{
		Name: "bolt", SKU: "BOLT--M10-50", Price: decimal.RequireFromString("1.00"),
	})
	if !errors.Is(err, domain.ErrEmptySKUComponent) {
		t.Fatalf("expected ErrEmptySKUComponent, got %v", err)
	}

	var n int64
	db.Model(&domain.SparePart{}).Count(&n)
	if n != 0 {
		t.Fatalf("parts = %d; want 0 persisted", n)
	}
}

func TestCreateSparePart_DuplicateSKU(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	p := &domain.SparePart{Name: "bolt", SKU: "BOLT-STEEL-M10-50", Price: decimal.RequireFromString("2.49"), Stock: 5}
	if _, err := svc.CreateSparePart(ctx, p); err != nil {
		t.Fatalf("first CreateSparePart: %v", err)
	}

	dup := &domain.SparePart{Name: "bolt again", SKU: "BOLT-STEEL-M10-50", Price: decimal.RequireFromString("9.99")}
	if _, err := svc.CreateSparePart(ctx, dup); !errors.Is(err, ErrSKUExists) {
		t.Fatalf("expected ErrSKUExists, got %v", err)
	}
}

func TestCreateSparePart_ReturnsWithCategory(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, "Fasteners", nil)
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	created, err := svc.CreateSparePart(ctx, &domain.SparePart{
		Name:       "bolt",
		SKU:        "BOLT-STEEL-M10-50",
		Price:      decimal.RequireFromString("2.49"),
		Stock:      5,
		CategoryID: &cat.ID,
	})
	if err != nil {
		t.Fatalf("CreateSparePart: %v", err)
	}
	if created.Category == nil || created.Category.Name != "Fasteners" {
		t.Fatalf("expected category populated, got %+v", created.Category)
	}
}

func TestUpdateSparePart_Rules(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()
	seedPart(t, db, "BOLT-STEEL-M10-50", "2.49", 10)

	if _, err := svc.UpdateSparePart(ctx, "BOLT-STEEL-M10-50", nil, nil); !errors.Is(err, ErrNoUpdateFields) {
		t.Fatalf("expected ErrNoUpdateFields, got %v", err)
	}

	stock := 3
	if _, err := svc.UpdateSparePart(ctx, "NO-SUCH-SKU-1", nil, &stock); !errors.Is(err, ErrPartNotFound) {
		t.Fatalf("expected ErrPartNotFound, got %v", err)
	}

	price := decimal.RequireFromString("2.99")
	got, err := svc.UpdateSparePart(ctx, "BOLT-STEEL-M10-50", &price, &stock)
	if err != nil {
		t.Fatalf("UpdateSparePart: %v", err)
	}
	if !got.Price.Equal(price) || got.Stock != 3 {
		t.Fatalf("got price=%s stock=%d; want 2.99, 3", got.Price, got.Stock)
	}
}

func TestListParts_Pagination(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		seedPart(t, db, fmt.Sprintf("BOLT-STEEL-M10-%d", i), "1.00", 1)
	}

	page1, total, err := svc.ListParts(ctx, 1, 2)
	if err != nil {
		t.Fatalf("ListParts: %v", err)
	}
	if total != 3 || len(page1) != 2 {
		t.Fatalf("page1: total=%d len=%d; want 3, 2", total, len(page1))
	}

	page2, _, err := svc.ListParts(ctx, 2, 2)
	if err != nil {
		t.Fatalf("ListParts page 2: %v", err)
	}
	if len(page2) != 1 {
		t.Fatalf("page2 len=%d; want 1", len(page2))
	}

	// Defaults kick in for nonsense values.
	all, _, err := svc.ListParts(ctx, 0, -5)
	if err != nil {
		t.Fatalf("ListParts defaults: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("default page len=%d; want 3", len(all))
	}
}

func TestListParts_Empty(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)

	items, total, err := svc.ListParts(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("ListParts: %v", err)
	}
	if total != 0 || items == nil || len(items) != 0 {
		t.Fatalf("got total=%d items=%v; want empty non-nil slice", total, items)
	}
}
