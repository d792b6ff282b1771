package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taxextract/internal/domain"
	"taxextract/internal/middleware"
	"taxextract/internal/service"
)

// DocumentHandler handles source document upload endpoints.
type DocumentHandler struct {
	documentService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Upload handles POST /api/v1/clients/:client_id/documents
// @Summary Upload a tax document
// @Description Store a tax document (PDF, JPG, PNG or TIFF) under the client's prefix and optionally queue its extraction
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param client_id path string true "Client ID"
// @Param file formData file true "Document to upload"
// @Param form_type formData string false "Tax form type, required when enqueue is true" example(W-2)
// @Param enqueue formData bool false "Queue an extraction job after upload"
// @Success 201 {object} Response{data=service.UploadResult} "Document stored"
// @Failure 400 {object} ErrorResponseBody "Missing file or invalid input"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 415 {object} ErrorResponseBody "Unsupported file type"
// @Failure 500 {object} ErrorResponseBody "Upload failed"
// @Security BearerAuth
// @Router /clients/{client_id}/documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	enqueue := false
	if raw := c.PostForm("enqueue"); raw != "" {
		enqueue, err = strconv.ParseBool(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "enqueue must be a boolean")
			return
		}
	}

	result, err := h.documentService.Upload(c.Request.Context(), service.UploadDocumentInput{
		ClientID:    c.Param("client_id"),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
		AccessID:    middleware.GetAccessID(c),
		FormType:    domain.FormType(c.PostForm("form_type")),
		Enqueue:     enqueue,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, result)
}

// Delete handles DELETE /api/v1/clients/:client_id/documents/:blob_name
// @Summary Delete a stored document
// @Description Remove a source document from object storage. Extracted fields are kept.
// @Tags documents
// @Produce json
// @Param client_id path string true "Client ID"
// @Param blob_name path string true "Document name"
// @Success 200 {object} Response{data=MessageResponse} "Document deleted"
// @Failure 400 {object} ErrorResponseBody "Invalid input"
// @Security BearerAuth
// @Router /clients/{client_id}/documents/{blob_name} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.documentService.Delete(c.Request.Context(), c.Param("client_id"), c.Param("blob_name")); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, MessageResponse{Message: "document deleted"})
}
