package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/tbourn/go-maintenance-backend/internal/domain"
	"github.com/tbourn/go-maintenance-backend/internal/services"
)

// ---- stubs to satisfy handlers.New() dependencies ----

type stubOrderSvc struct {
	create func(ctx context.Context, requestID int64, lines []services.OrderLine) (*domain.ServiceOrder, error)
	get    func(ctx context.Context, id uint) (*domain.ServiceOrder, error)
}

func (s stubOrderSvc) Create(ctx context.Context, requestID int64, lines []services.OrderLine) (*domain.ServiceOrder, error) {
	if s.create != nil {
		return s.create(ctx, requestID, lines)
	}
	return nil, nil
}

func (s stubOrderSvc) Get(ctx context.Context, id uint) (*domain.ServiceOrder, error) {
	if s.get != nil {
		return s.get(ctx, id)
	}
	return nil, nil
}

type stubCatalogSvc struct {
	createCategory func(ctx context.Context, name string, description *string) (*domain.Category, error)
	createPart     func(ctx context.Context, p *domain.SparePart) (*domain.SparePart, error)
	updatePart     func(ctx context.Context, sku string, price *decimal.Decimal, stock *int) (*domain.SparePart, error)
	listParts      func(ctx context.Context, page, pageSize int) ([]domain.SparePart, int64, error)
}

func (s stubCatalogSvc) CreateCategory(ctx context.Context, name string, description *string) (*domain.Category, error) {
	if s.createCategory != nil {
		return s.createCategory(ctx, name, description)
	}
	return nil, nil
}

func (s stubCatalogSvc) CreateSparePart(ctx context.Context, p *domain.SparePart) (*domain.SparePart, error) {
	if s.createPart != nil {
		return s.createPart(ctx, p)
	}
	return nil, nil
}

func (s stubCatalogSvc) UpdateSparePart(ctx context.Context, sku string, price *decimal.Decimal, stock *int) (*domain.SparePart, error) {
	if s.updatePart != nil {
		return s.updatePart(ctx, sku, price, stock)
	}
	return nil, nil
}

func (s stubCatalogSvc) ListParts(ctx context.Context, page, pageSize int) ([]domain.SparePart, int64, error) {
	if s.listParts != nil {
		return s.listParts(ctx, page, pageSize)
	}
	return nil, 0, nil
}

type stubImageSvc struct {
	upload func(ctx context.Context, orderID uint, fileName, contentType string, body io.Reader) (*domain.ServiceOrderImage, error)
	list   func(ctx context.Context, orderID uint) ([]domain.ServiceOrderImage, error)
}

func (s stubImageSvc) Upload(ctx context.Context, orderID uint, fileName, contentType string, body io.Reader) (*domain.ServiceOrderImage, error) {
	if s.upload != nil {
		return s.upload(ctx, orderID, fileName, contentType, body)
	}
	return nil, nil
}

func (s stubImageSvc) List(ctx context.Context, orderID uint) ([]domain.ServiceOrderImage, error) {
	if s.list != nil {
		return s.list(ctx, orderID)
	}
	return nil, nil
}

func newOrderRouter(order OrderService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(order, stubCatalogSvc{}, stubImageSvc{})
	r := gin.New()
	r.POST("/orders", h.CreateOrder)
	r.GET("/orders/:id", h.GetOrder)
	return r
}

// ---- tests ----

func TestCreateOrder_Success(t *testing.T) {
	svc := stubOrderSvc{create: func(_ context.Context, requestID int64, lines []services.OrderLine) (*domain.ServiceOrder, error) {
		if requestID != 1042 {
			t.Fatalf("request id = %d; want 1042", requestID)
		}
		if len(lines) != 1 || lines[0].SparePartID != 7 || lines[0].Quantity != 3 {
			t.Fatalf("unexpected lines: %+v", lines)
		}
		return &domain.ServiceOrder{
			ID:        1,
			RequestID: requestID,
			Status:    domain.StatusPending,
			Total:     decimal.RequireFromString("7.47"),
		}, nil
	}}
	r := newOrderRouter(svc)

	body := `{"request_id":1042,"items":[{"spare_part_id":7,"quantity":3}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d; want 201 (body %s)", w.Code, w.Body.String())
	}
	var got domain.ServiceOrder
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("json: %v", err)
	}
	if got.RequestID != 1042 || got.Status != domain.StatusPending {
		t.Fatalf("unexpected response: %+v", got)
	}
}

func TestCreateOrder_MalformedPayload(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not_json", `{"request_id":`},
		{"missing_request_id", `{"items":[{"spare_part_id":7,"quantity":1}]}`},
		{"negative_request_id", `{"request_id":-1,"items":[{"spare_part_id":7,"quantity":1}]}`},
		{"empty_items", `{"request_id":1,"items":[]}`},
		{"zero_quantity", `{"request_id":1,"items":[{"spare_part_id":7,"quantity":0}]}`},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			svc := stubOrderSvc{create: func(context.Context, int64, []services.OrderLine) (*domain.ServiceOrder, error) {
				t.Fatalf("service should not be called on binding error")
				return nil, nil
			}}
			r := newOrderRouter(svc)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d; want 422", w.Code)
			}
			var er ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
				t.Fatalf("json: %v", err)
			}
			if er.Code != ErrCodeValidation {
				t.Fatalf("code = %q; want %q", er.Code, ErrCodeValidation)
			}
		})
	}
}

func TestCreateOrder_ErrorMappings(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unknown_parts", &services.PartsNotFoundError{IDs: []uint{404}}, http.StatusNotFound, ErrCodeNotFound},
		{"insufficient_stock", &services.InsufficientStockError{Name: "bolt", SKU: "BOLT-STEEL-M10-50", Available: 1, Requested: 2}, http.StatusBadRequest, ErrCodeInsufficientStock},
		{"internal", context.DeadlineExceeded, http.StatusInternalServerError, ErrCodeInternal},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			svc := stubOrderSvc{create: func(context.Context, int64, []services.OrderLine) (*domain.ServiceOrder, error) {
				return nil, tc.err
			}}
			r := newOrderRouter(svc)

			body := `{"request_id":1,"items":[{"spare_part_id":7,"quantity":2}]}`
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", w.Code, tc.wantStatus)
			}
			var er ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
				t.Fatalf("json: %v", err)
			}
			if er.Code != tc.wantCode {
				t.Fatalf("code = %q; want %q", er.Code, tc.wantCode)
			}
		})
	}
}

func TestGetOrder_BadID(t *testing.T) {
	r := newOrderRouter(stubOrderSvc{})

	for _, id := range []string{"abc", "0", "-4"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/orders/"+id, nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("id %q: status = %d; want 400", id, w.Code)
		}
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	svc := stubOrderSvc{get: func(context.Context, uint) (*domain.ServiceOrder, error) {
		return nil, services.ErrOrderNotFound
	}}
	r := newOrderRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders/42", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want 404", w.Code)
	}
}

func TestGetOrder_Success(t *testing.T) {
	svc := stubOrderSvc{get: func(_ context.Context, id uint) (*domain.ServiceOrder, error) {
		return &domain.ServiceOrder{ID: id, RequestID: 9, Status: domain.StatusPending}, nil
	}}
	r := newOrderRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders/42", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}
	var got domain.ServiceOrder
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("json: %v", err)
	}
	if got.ID != 42 {
		t.Fatalf("id = %d; want 42", got.ID)
	}
}
