// Service order HTTP handlers.
//
// This file exposes the order endpoints:
//   - POST /orders        (idempotent create)
//   - GET  /orders/{id}   (fetch with line items)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses. The idempotency and
// stock semantics live entirely in the service layer.
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/tbourn/go-maintenance-backend/internal/domain"
	"github.com/tbourn/go-maintenance-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// OrderService defines the order lifecycle operations consumed by HTTP
// handlers. Implementations must be safe for concurrent use and honor the
// provided context for cancellation and timeouts.
type OrderService interface {
	// Create builds an order for requestID, replaying a prior result when the
	// same requestID was seen within the idempotency window.
	Create(ctx context.Context, requestID int64, lines []services.OrderLine) (*domain.ServiceOrder, error)
	// Get returns an order with its line items.
	Get(ctx context.Context, id uint) (*domain.ServiceOrder, error)
}

// CatalogService defines category and spare part management operations.
type CatalogService interface {
	// CreateCategory registers a new part category.
	CreateCategory(ctx context.Context, name string, description *string) (*domain.Category, error)
	// CreateSparePart registers a new catalog entry after SKU validation.
	CreateSparePart(ctx context.Context, p *domain.SparePart) (*domain.SparePart, error)
	// UpdateSparePart patches price and/or stock of the part with this SKU.
	UpdateSparePart(ctx context.Context, sku string, price *decimal.Decimal, stock *int) (*domain.SparePart, error)
	// ListParts returns a page of parts and the total count.
	ListParts(ctx context.Context, page, pageSize int) ([]domain.SparePart, int64, error)
}

// ImageService defines order image upload and retrieval operations.
type ImageService interface {
	// Upload stores an image in object storage and records it for the order.
	Upload(ctx context.Context, orderID uint, fileName, contentType string, body io.Reader) (*domain.ServiceOrderImage, error)
	// List returns the images recorded for an order.
	List(ctx context.Context, orderID uint) ([]domain.ServiceOrderImage, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for orders, the catalog, and images.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	orderSvc   OrderService
	catalogSvc CatalogService
	imageSvc   ImageService
}

// New constructs a Handlers instance bound to the given services.
func New(orderSvc OrderService, catalogSvc CatalogService, imageSvc ImageService) *Handlers {
	return &Handlers{orderSvc: orderSvc, catalogSvc: catalogSvc, imageSvc: imageSvc}
}

// pathID parses the :id path parameter as an unsigned integer.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

//
// DTOs
//

// OrderItemRequest is one requested line of a new order.
type OrderItemRequest struct {
	// SparePartID references the catalog entry to order.
	SparePartID uint `json:"spare_part_id" binding:"required" example:"7"`
	// Quantity is the number of units requested (must be positive).
	Quantity int `json:"quantity" binding:"required,gt=0" example:"3"`
}

// CreateOrderRequest is the JSON payload for creating a service order.
type CreateOrderRequest struct {
	// RequestID is the caller-supplied idempotency key (positive integer).
	RequestID int64 `json:"request_id" binding:"required,gt=0" example:"1042"`
	// Items lists the requested parts; at least one line is required.
	Items []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

//
// Handlers
//

// CreateOrder godoc
// @ID          createOrder
// @Summary     Create a service order
// @Description Creates an order, decrementing stock atomically. Resubmitting the
// @Description same request_id within the idempotency window returns the original
// @Description order instead of creating a new one.
// @Tags        Orders
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateOrderRequest  true  "Order payload"
//
// @Success     201  {object}  domain.ServiceOrder
// @Failure     400  {object}  handlers.ErrorResponse  "Insufficient stock"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown spare part"
// @Failure     422  {object}  handlers.ErrorResponse  "Malformed payload"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /orders [post]
func (h *Handlers) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation,
			"request_id (positive integer) and a non-empty items list are required")
		return
	}

	lines := make([]services.OrderLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, services.OrderLine{SparePartID: it.SparePartID, Quantity: it.Quantity})
	}

	order, err := h.orderSvc.Create(c.Request.Context(), req.RequestID, lines)
	if err != nil {
		var missing *services.PartsNotFoundError
		var short *services.InsufficientStockError
		switch {
		case errors.As(err, &missing):
			fail(c, http.StatusNotFound, ErrCodeNotFound, missing.Error())
		case errors.As(err, &short):
			fail(c, http.StatusBadRequest, ErrCodeInsufficientStock, short.Error())
		case errors.Is(err, services.ErrInvalidRequestID),
			errors.Is(err, services.ErrEmptyOrder),
			errors.Is(err, services.ErrInvalidQuantity):
			fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not create order")
		}
		return
	}

	ok(c, http.StatusCreated, order)
}

// GetOrder godoc
// @ID          getOrder
// @Summary     Fetch a service order
// @Description Returns an order with its line items and part details.
// @Tags        Orders
// @Produce     json
//
// @Param       id  path  int  true  "Order ID"  minimum(1)
//
// @Success     200  {object}  domain.ServiceOrder
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Order not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /orders/{id} [get]
func (h *Handlers) GetOrder(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "order id must be a positive integer")
		return
	}

	order, err := h.orderSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "service order not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not load order")
		return
	}

	ok(c, http.StatusOK, order)
}
