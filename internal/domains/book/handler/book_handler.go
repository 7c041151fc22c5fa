package handler

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/service"
	"library-backend/internal/shared/response"
)

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{
		service: service,
	}
}

// List - GET /api/v1/books
// Query params: genre, is_available, sort (field,dir), limit, offset
func (h *Handler) List(c *gin.Context) {
	filter := model.BookFilter{
		Genre:  c.Query("genre"),
		Limit:  20,
		Offset: 0,
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			filter.Limit = l
		}
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			filter.Offset = o
		}
	}

	if availStr := c.Query("is_available"); availStr != "" {
		avail, err := strconv.ParseBool(availStr)
		if err != nil {
			response.BadRequest(c, "is_available must be true or false")
			return
		}
		filter.IsAvailable = &avail
	}

	if sort := c.Query("sort"); sort != "" {
		parts := strings.SplitN(sort, ",", 2)
		filter.SortBy = parts[0]
		if len(parts) == 2 {
			filter.Order = parts[1]
		}
	}

	books, total, err := h.service.List(c.Request.Context(), &filter)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, books, &response.Meta{
		Page:  filter.Offset/filter.Limit + 1,
		Limit: filter.Limit,
		Total: total,
	})
}

// GetByID - GET /api/v1/books/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	book, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Book retrieved successfully", book)
}

// Create - POST /api/v1/books
func (h *Handler) Create(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	book, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusCreated, "Book created successfully", book)
}

// Update - PATCH /api/v1/books/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	book, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Book updated successfully", book)
}

// Delete - DELETE /api/v1/books/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Book deleted successfully", nil)
}

// BatchDelete - POST /api/v1/books/batch-delete
// All ids are deleted in one transaction, a single missing id aborts the batch.
func (h *Handler) BatchDelete(c *gin.Context) {
	var req model.BatchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	ids := make([]uuid.UUID, len(req.IDs))
	for i, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid book id: "+raw)
			return
		}
		ids[i] = id
	}

	if err := h.service.DeleteBatch(c.Request.Context(), ids); err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Books deleted successfully", gin.H{
		"deleted": len(ids),
	})
}

// UploadCover - POST /api/v1/books/:id/cover
// Accepts multipart/form-data with a "cover" file field.
func (h *Handler) UploadCover(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	fileHeader, err := c.FormFile("cover")
	if err != nil {
		response.BadRequest(c, "cover file is required (multipart/form-data)")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.InternalServerError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.InternalServerError(c, "Failed to read uploaded file")
		return
	}

	url, err := h.service.UploadCover(c.Request.Context(), id, data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Cover uploaded successfully", gin.H{
		"photo_url": url,
	})
}
