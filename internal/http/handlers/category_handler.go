// Category HTTP handlers.
//
// This file exposes the category endpoint:
//   - POST /categories  (create)
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-maintenance-backend/internal/services"
)

// CreateCategoryRequest is the JSON payload for creating a category.
type CreateCategoryRequest struct {
	// Name is the unique category name (1-100 chars).
	Name string `json:"name" binding:"required,min=1,max=100" example:"Fasteners"`
	// Description optionally describes the category.
	Description *string `json:"description" binding:"omitempty,max=255" example:"Bolts, nuts and washers"`
}

// CreateCategory godoc
// @ID          createCategory
// @Summary     Create a part category
// @Description Registers a new category for classifying spare parts. Names are unique.
// @Tags        Catalog
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateCategoryRequest  true  "Category payload"
//
// @Success     201  {object}  domain.Category
// @Failure     409  {object}  handlers.ErrorResponse  "Name already taken"
// @Failure     422  {object}  handlers.ErrorResponse  "Malformed payload"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /categories [post]
func (h *Handlers) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "name is required (1-100 chars)")
		return
	}

	cat, err := h.catalogSvc.CreateCategory(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		if errors.Is(err, services.ErrCategoryExists) {
			fail(c, http.StatusConflict, ErrCodeConflict, "category already exists")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not create category")
		return
	}

	ok(c, http.StatusCreated, cat)
}
