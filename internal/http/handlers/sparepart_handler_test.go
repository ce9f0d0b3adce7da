package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/tbourn/go-maintenance-backend/internal/domain"
	"github.com/tbourn/go-maintenance-backend/internal/services"
)

func newCatalogRouter(catalog CatalogService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(stubOrderSvc{}, catalog, stubImageSvc{})
	r := gin.New()
	r.POST("/categories", h.CreateCategory)
	r.POST("/items", h.CreateSparePart)
	r.GET("/items", h.ListSpareParts)
	r.PATCH("/items/:sku", h.UpdateSparePart)
	return r
}

func TestCreateCategory_Conflict(t *testing.T) {
	svc := stubCatalogSvc{createCategory: func(context.Context, string, *string) (*domain.Category, error) {
		return nil, services.ErrCategoryExists
	}}
	r := newCatalogRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/categories", bytes.NewBufferString(`{"name":"Fasteners"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d; want 409", w.Code)
	}
}

func TestCreateCategory_MissingName(t *testing.T) {
	svc := stubCatalogSvc{createCategory: func(context.Context, string, *string) (*domain.Category, error) {
		t.Fatalf("service should not be called")
		return nil, nil
	}}
	r := newCatalogRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/categories", bytes.NewBufferString(`{"description":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d; want 422", w.Code)
	}
}

func TestCreateSparePart_InvalidSKUFormat(t *testing.T) {
	svc := stubCatalogSvc{createPart: func(context.Context, *domain.SparePart) (*domain.SparePart, error) {
		t.Fatalf("service should not be called for bad SKU")
		return nil, nil
	}}
	r := newCatalogRouter(svc)

	body := `{"name":"bolt","sku":"BOLT-STEEL-M10","price":"2.49","stock":5}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/items", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400 (body %s)", w.Code, w.Body.String())
	}
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("json: %v", err)
	}
	if er.Code != ErrCodeValidation {
		t.Fatalf("code = %q; want %q", er.Code, ErrCodeValidation)
	}
}

func TestCreateSparePart_DuplicateSKU(t *testing.T) {
	svc := stubCatalogSvc{createPart: func(context.Context, *domain.SparePart) (*domain.SparePart, error) {
		return nil, services.ErrSKUExists
	}}
	r := newCatalogRouter(svc)

	body := `{"name":"bolt","sku":"BOLT-STEEL-M10-50","price":"2.49","stock":5}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/items", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d; want 409", w.Code)
	}
}

func TestCreateSparePart_Success(t *testing.T) {
	svc := stubCatalogSvc{createPart: func(_ context.Context, p *domain.SparePart) (*domain.SparePart, error) {
		if p.SKU != "BOLT-STEEL-M10-50" || p.Stock != 120 {
			t.Fatalf("unexpected part: %+v", p)
		}
		if !p.Price.Equal(decimal.RequireFromString("2.49")) {
			t.Fatalf("price = %s; want 2.49", p.Price)
		}
		p.ID = 7
		return p, nil
	}}
	r := newCatalogRouter(svc)

	body := `{"name":"Hex bolt M10x50","sku":"BOLT-STEEL-M10-50","price":"2.49","stock":120}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/items", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d; want 201 (body %s)", w.Code, w.Body.String())
	}
}

func TestListSpareParts_Pagination(t *testing.T) {
	svc := stubCatalogSvc{listParts: func(_ context.Context, page, pageSize int) ([]domain.SparePart, int64, error) {
		if page != 2 || pageSize != 10 {
			t.Fatalf("page=%d pageSize=%d; want 2, 10", page, pageSize)
		}
		return []domain.SparePart{{ID: 11}}, 11, nil
	}}
	r := newCatalogRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/items?page=2&page_size=10", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}
	var resp ListSparePartsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.Pagination.Total != 11 || resp.Pagination.TotalPages != 2 || resp.Pagination.HasNext {
		t.Fatalf("unexpected pagination: %+v", resp.Pagination)
	}
}

func TestListSpareParts_ClampsParams(t *testing.T) {
	svc := stubCatalogSvc{listParts: func(_ context.Context, page, pageSize int) ([]domain.SparePart, int64, error) {
		if page != 1 || pageSize != 100 {
			t.Fatalf("page=%d pageSize=%d; want clamped 1, 100", page, pageSize)
		}
		return nil, 0, nil
	}}
	r := newCatalogRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/items?page=-3&page_size=9999", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}
}

func TestUpdateSparePart_Mappings(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"no_fields", services.ErrNoUpdateFields, http.StatusBadRequest, ErrCodeBadRequest},
		{"not_found", services.ErrPartNotFound, http.StatusNotFound, ErrCodeNotFound},
		{"internal", context.DeadlineExceeded, http.StatusInternalServerError, ErrCodeInternal},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			svc := stubCatalogSvc{updatePart: func(_ context.Context, sku string, _ *decimal.Decimal, _ *int) (*domain.SparePart, error) {
				if sku != "BOLT-STEEL-M10-50" {
					t.Fatalf("sku = %q", sku)
				}
				return nil, tc.err
			}}
			r := newCatalogRouter(svc)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPatch, "/items/BOLT-STEEL-M10-50", bytes.NewBufferString(`{"stock":3}`))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", w.Code, tc.wantStatus)
			}
			var er ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if er.Code != tc.wantCode {
				t.Fatalf("code = %q; want %q", er.Code, tc.wantCode)
			}
		})
	}
}

func TestUpdateSparePart_Success(t *testing.T) {
	svc := stubCatalogSvc{updatePart: func(_ context.Context, sku string, price *decimal.Decimal, stock *int) (*domain.SparePart, error) {
		if price == nil || stock == nil {
			t.Fatalf("expected both fields, got price=%v stock=%v", price, stock)
		}
		return &domain.SparePart{SKU: sku, Price: *price, Stock: *stock}, nil
	}}
	r := newCatalogRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/items/BOLT-STEEL-M10-50", bytes.NewBufferString(`{"price":"2.99","stock":80}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200 (body %s)", w.Code, w.Body.String())
	}
	var got domain.SparePart
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("json: %v", err)
	}
	if got.Stock != 80 {
		t.Fatalf("stock = %d; want 80", got.Stock)
	}
}
