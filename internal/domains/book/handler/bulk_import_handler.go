package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/service"
	"library-backend/internal/shared/response"
)

type BulkImportHandler struct {
	service service.BulkImportServiceInterface
}

func NewBulkImportHandler(service service.BulkImportServiceInterface) *BulkImportHandler {
	return &BulkImportHandler{
		service: service,
	}
}

// ImportBooks - POST /api/v1/books/bulk-import
// Accepts multipart/form-data with an xlsx "file" field. Librarian only,
// enforced by middleware before the handler runs.
func (h *BulkImportHandler) ImportBooks(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required (multipart/form-data)")
		return
	}

	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".xlsx" {
		response.BadRequest(c, "only .xlsx files are supported")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.InternalServerError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	log.Info().
		Str("file_name", fileHeader.Filename).
		Int64("file_size", fileHeader.Size).
		Msg("received bulk import request")

	result, err := h.service.ImportFromXLSX(c.Request.Context(), file)
	if err != nil {
		log.Error().Err(err).Msg("bulk import failed")
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusCreated, "Bulk import completed successfully", result)
}
