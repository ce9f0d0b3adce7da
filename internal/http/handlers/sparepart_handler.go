// Spare part HTTP handlers.
//
// This file exposes the catalog endpoints for parts:
//   - POST  /items         (create)
//   - GET   /items         (list, paginated)
//   - PATCH /items/{sku}   (partial update: price and/or stock)
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/tbourn/go-maintenance-backend/internal/domain"
	"github.com/tbourn/go-maintenance-backend/internal/services"
	"github.com/tbourn/go-maintenance-backend/internal/utils"
)

//
// DTOs
//

// CreateSparePartRequest is the JSON payload for registering a spare part.
type CreateSparePartRequest struct {
	// Name is the human-readable part name.
	Name string `json:"name" binding:"required,min=1,max=150" example:"Hex bolt M10x50"`
	// SKU must match [CLASS]-[MATERIAL]-[SIZE]-[LENGTH].
	SKU string `json:"sku" binding:"required" example:"BOLT-STEEL-M10-50"`
	// Price is the unit price; non-negative, two decimal places.
	Price decimal.Decimal `json:"price" example:"2.49"`
	// Stock is the initial available quantity.
	Stock int `json:"stock" binding:"gte=0" example:"120"`
	// CategoryID optionally assigns the part to a category.
	CategoryID *uint `json:"category_id" example:"3"`
}

// UpdateSparePartRequest is the JSON payload for patching a part. Absent
// fields are left unchanged; at least one must be present.
type UpdateSparePartRequest struct {
	Price *decimal.Decimal `json:"price" example:"2.99"`
	Stock *int             `json:"stock" binding:"omitempty,gte=0" example:"80"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListSparePartsResponse wraps a page of parts and pagination information.
type ListSparePartsResponse struct {
	Items      []domain.SparePart `json:"items"`
	Pagination Pagination         `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

//
// Handlers
//

// CreateSparePart godoc
// @ID          createSparePart
// @Summary     Register a spare part
// @Description Adds a catalog entry. The SKU must match [CLASS]-[MATERIAL]-[SIZE]-[LENGTH] and be unique.
// @Tags        Catalog
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateSparePartRequest  true  "Spare part payload"
//
// @Success     201  {object}  domain.SparePart
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid SKU format"
// @Failure     409  {object}  handlers.ErrorResponse  "SKU already taken"
// @Failure     422  {object}  handlers.ErrorResponse  "Malformed payload"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /items [post]
func (h *Handlers) CreateSparePart(c *gin.Context) {
	var req CreateSparePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "name, sku, price and stock are required")
		return
	}
	if req.Price.IsNegative() {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "price must not be negative")
		return
	}
	if err := domain.ValidateSKU(req.SKU); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return
	}

	part := &domain.SparePart{
		Name:       strings.TrimSpace(req.Name),
		SKU:        req.SKU,
		Price:      req.Price,
		Stock:      req.Stock,
		CategoryID: req.CategoryID,
	}
	created, err := h.catalogSvc.CreateSparePart(c.Request.Context(), part)
	if err != nil {
		if errors.Is(err, services.ErrSKUExists) {
			fail(c, http.StatusConflict, ErrCodeConflict, "spare part with this SKU already exists")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not create spare part")
		return
	}

	ok(c, http.StatusCreated, created)
}

// ListSpareParts godoc
// @ID          listSpareParts
// @Summary     List spare parts (paginated)
// @Description Returns a page of catalog entries with their categories.
// @Tags        Catalog
// @Produce     json
//
// @Param       page       query  int  false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false  "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListSparePartsResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /items [get]
func (h *Handlers) ListSpareParts(c *gin.Context) {
	page, pageSize := clampPagination(c)

	items, total, err := h.catalogSvc.ListParts(c.Request.Context(), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not list spare parts")
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListSparePartsResponse{
		Items: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// UpdateSparePart godoc
// @ID          updateSparePart
// @Summary     Update a spare part
// @Description Patches price and/or stock of the part identified by SKU. Other fields are immutable.
// @Tags        Catalog
// @Accept      json
// @Produce     json
//
// @Param       sku   path  string  true  "Spare part SKU"  example(BOLT-STEEL-M10-50)
// @Param       body  body  handlers.UpdateSparePartRequest  true  "Fields to update"
//
// @Success     200  {object}  domain.SparePart
// @Failure     400  {object}  handlers.ErrorResponse  "No updatable fields supplied"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown SKU"
// @Failure     422  {object}  handlers.ErrorResponse  "Malformed payload"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /items/{sku} [patch]
func (h *Handlers) UpdateSparePart(c *gin.Context) {
	sku := c.Param("sku")

	var req UpdateSparePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "invalid JSON body")
		return
	}
	if req.Price != nil && req.Price.IsNegative() {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "price must not be negative")
		return
	}

	part, err := h.catalogSvc.UpdateSparePart(c.Request.Context(), sku, req.Price, req.Stock)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoUpdateFields):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrPartNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "spare part not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not update spare part")
		}
		return
	}

	ok(c, http.StatusOK, part)
}
