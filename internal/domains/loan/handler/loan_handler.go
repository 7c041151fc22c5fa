package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-backend/internal/domains/loan/model"
	"library-backend/internal/domains/loan/service"
	"library-backend/internal/shared"
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

// Create - POST /api/v1/sales
// The lending librarian is the authenticated principal, never a body field.
func (h *Handler) Create(c *gin.Context) {
	principal, ok := shared.GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	loan, err := h.service.Create(c.Request.Context(), principal.UserID, &req)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusCreated, "Loan created successfully", loan)
}

// List - GET /api/v1/sales
// Query params: client_id, book_id, returned, overdue, limit, offset
func (h *Handler) List(c *gin.Context) {
	filter := model.LoanFilter{
		Limit:  20,
		Offset: 0,
	}

	if clientIDStr := c.Query("client_id"); clientIDStr != "" {
		id, err := uuid.Parse(clientIDStr)
		if err != nil {
			response.BadRequest(c, "Invalid client_id")
			return
		}
		filter.ClientID = id
	}
	if bookIDStr := c.Query("book_id"); bookIDStr != "" {
		id, err := uuid.Parse(bookIDStr)
		if err != nil {
			response.BadRequest(c, "Invalid book_id")
			return
		}
		filter.BookID = id
	}
	if returnedStr := c.Query("returned"); returnedStr != "" {
		returned, err := strconv.ParseBool(returnedStr)
		if err != nil {
			response.BadRequest(c, "returned must be true or false")
			return
		}
		filter.Returned = &returned
	}
	if overdueStr := c.Query("overdue"); overdueStr != "" {
		overdue, err := strconv.ParseBool(overdueStr)
		if err != nil {
			response.BadRequest(c, "overdue must be true or false")
			return
		}
		filter.Overdue = overdue
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

	loans, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, loans, &response.Meta{
		Page:  filter.Offset/filter.Limit + 1,
		Limit: filter.Limit,
		Total: total,
	})
}

// GetByID - GET /api/v1/sales/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid loan id")
		return
	}

	loan, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Loan retrieved successfully", loan)
}

// MarkReturned - PATCH /api/v1/sales/:id/return
func (h *Handler) MarkReturned(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid loan id")
		return
	}

	loan, err := h.service.MarkReturned(c.Request.Context(), id)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Loan returned successfully", loan)
}

// Delete - DELETE /api/v1/sales/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid loan id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Loan deleted successfully", nil)
}
