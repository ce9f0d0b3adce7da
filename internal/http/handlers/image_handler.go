// Order image HTTP handlers.
//
// This file exposes the image endpoints:
//   - POST /orders/{id}/image   (multipart upload)
//   - GET  /orders/{id}/images  (list)
//
// Uploads are forwarded to object storage by the image service; the returned
// URL is a time-limited presigned link.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-maintenance-backend/internal/services"
)

// UploadImage godoc
// @ID          uploadOrderImage
// @Summary     Attach an image to a service order
// @Description Accepts a multipart form with a "file" field, stores it in object
// @Description storage, and records a presigned URL for the order.
// @Tags        Orders
// @Accept      multipart/form-data
// @Produce     json
//
// @Param       id    path      int   true  "Order ID"  minimum(1)
// @Param       file  formData  file  true  "Image file (jpeg, png or webp)"
//
// @Success     201  {object}  domain.ServiceOrderImage
// @Failure     400  {object}  handlers.ErrorResponse  "Missing file or disallowed type"
// @Failure     404  {object}  handlers.ErrorResponse  "Order not found"
// @Failure     502  {object}  handlers.ErrorResponse  "Object storage failure"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /orders/{id}/image [post]
func (h *Handlers) UploadImage(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "order id must be a positive integer")
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, `multipart field "file" is required`)
		return
	}

	f, err := fh.Open()
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not read uploaded file")
		return
	}
	defer f.Close()

	img, err := h.imageSvc.Upload(c.Request.Context(), id, fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		var upload *services.UploadError
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "service order not found")
		case errors.Is(err, services.ErrInvalidContentType):
			fail(c, http.StatusBadRequest, ErrCodeValidation,
				"invalid file type; allowed: "+strings.Join(services.AllowedImageTypes(), ", "))
		case errors.As(err, &upload):
			fail(c, http.StatusBadGateway, ErrCodeUploadFailed, "failed to upload image")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not save image")
		}
		return
	}

	ok(c, http.StatusCreated, img)
}

// ListImages godoc
// @ID          listOrderImages
// @Summary     List images of a service order
// @Description Returns the recorded images for an order, oldest first.
// @Tags        Orders
// @Produce     json
//
// @Param       id  path  int  true  "Order ID"  minimum(1)
//
// @Success     200  {array}   domain.ServiceOrderImage
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Order not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /orders/{id}/images [get]
func (h *Handlers) ListImages(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "order id must be a positive integer")
		return
	}

	imgs, err := h.imageSvc.List(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "service order not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not list images")
		return
	}

	ok(c, http.StatusOK, imgs)
}
