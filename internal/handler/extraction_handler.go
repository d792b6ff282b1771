package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taxextract/internal/domain"
	"taxextract/internal/export"
	"taxextract/internal/middleware"
	"taxextract/internal/service"
)

// ExtractionHandler handles extraction and extracted-field endpoints.
type ExtractionHandler struct {
	extractionService service.ExtractionService
}

// NewExtractionHandler creates a new ExtractionHandler.
func NewExtractionHandler(extractionService service.ExtractionService) *ExtractionHandler {
	return &ExtractionHandler{extractionService: extractionService}
}

// Extract handles POST /api/v1/extractions
// @Summary Extract a stored tax document
// @Description Analyze a stored document with the model mapped to its form type and persist one row per extracted field
// @Tags extractions
// @Accept json
// @Produce json
// @Param request body ExtractRequest true "Document to extract"
// @Success 200 {object} Response{data=service.ExtractionResult} "Extraction result"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 403 {object} ErrorResponseBody "Client not permitted"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Failure 422 {object} ErrorResponseBody "No documents recognized"
// @Failure 502 {object} ErrorResponseBody "Analysis failed"
// @Security BearerAuth
// @Router /extractions [post]
func (h *ExtractionHandler) Extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if !authorizeClient(c, req.ClientID) {
		return
	}

	result, err := h.extractionService.Extract(c.Request.Context(), service.ExtractInput{
		ClientID: req.ClientID,
		BlobName: req.BlobName,
		FormType: domain.FormType(req.FormType),
		AccessID: middleware.GetAccessID(c),
		DryRun:   req.DryRun,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// List handles GET /api/v1/clients/:client_id/extractions
// @Summary List extracted fields
// @Description List extracted field rows for a client, optionally for one document
// @Tags extractions
// @Produce json
// @Param client_id path string true "Client ID"
// @Param doc_name query string false "Document name"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 500)" default(100)
// @Success 200 {object} Response{data=[]domain.Extraction,meta=PagMeta} "Extracted fields"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Client not permitted"
// @Security BearerAuth
// @Router /clients/{client_id}/extractions [get]
func (h *ExtractionHandler) List(c *gin.Context) {
	clientID := c.Param("client_id")

	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, total, err := h.extractionService.List(c.Request.Context(), clientID, c.Query("doc_name"), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, rows, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Export handles GET /api/v1/clients/:client_id/extractions/export
// @Summary Export extracted fields
// @Description Download a client's extracted fields as CSV (UTF-8 BOM) or XLSX
// @Tags extractions
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param client_id path string true "Client ID"
// @Param doc_name query string false "Document name"
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file "Export file"
// @Failure 400 {object} ErrorResponseBody "Unknown format"
// @Failure 404 {object} ErrorResponseBody "Document has no extracted fields"
// @Security BearerAuth
// @Router /clients/{client_id}/extractions/export [get]
func (h *ExtractionHandler) Export(c *gin.Context) {
	clientID := c.Param("client_id")

	format, ok := export.ParseFormat(c.Query("format"))
	if !ok {
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx")
		return
	}
	docName := c.Query("doc_name")

	var buf bytes.Buffer
	if err := h.extractionService.Export(c.Request.Context(), clientID, docName, format, &buf); err != nil {
		HandleError(c, err)
		return
	}

	filename := export.BuildFilename(clientID, docName, format, time.Now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// DeleteDocument handles DELETE /api/v1/clients/:client_id/extractions
// @Summary Delete a document's extracted fields
// @Description Remove every extracted field row of one document so it can be re-extracted
// @Tags extractions
// @Produce json
// @Param client_id path string true "Client ID"
// @Param doc_name query string true "Document name"
// @Success 200 {object} Response{data=DeletedResponse} "Rows removed"
// @Failure 400 {object} ErrorResponseBody "Missing doc_name"
// @Failure 404 {object} ErrorResponseBody "Document has no extracted fields"
// @Security BearerAuth
// @Router /clients/{client_id}/extractions [delete]
func (h *ExtractionHandler) DeleteDocument(c *gin.Context) {
	clientID := c.Param("client_id")

	n, err := h.extractionService.DeleteDocument(c.Request.Context(), clientID, c.Query("doc_name"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, DeletedResponse{Deleted: n})
}
