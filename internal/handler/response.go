package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxextract/internal/domain"
	"taxextract/internal/middleware"
	"taxextract/internal/service"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondAccepted sends a 202 success response.
func RespondAccepted(c *gin.Context, data interface{}) {
	c.JSON(http.StatusAccepted, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrJobNotFound):
		return http.StatusNotFound, "JOB_NOT_FOUND", "extraction job not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT", err.Error()
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusUnsupportedMediaType, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, jpg, png, tiff"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	case errors.Is(err, domain.ErrAnalyzerUnavailable):
		return http.StatusServiceUnavailable, "ANALYZER_UNAVAILABLE", "no analyzer is configured for this form type"
	case errors.Is(err, domain.ErrNoDocuments):
		return http.StatusUnprocessableEntity, "NO_DOCUMENTS", "no tax documents were recognized in the file"
	case errors.Is(err, domain.ErrAnalysisFailed):
		if service.IsPermanent(err) {
			return http.StatusUnprocessableEntity, "ANALYSIS_REJECTED", "the analysis service rejected the document"
		}
		return http.StatusBadGateway, "ANALYSIS_FAILED", "document analysis failed; try again later"
	case errors.Is(err, domain.ErrPersistFailed):
		return http.StatusInternalServerError, "PERSIST_FAILED", "extracted fields could not be saved"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// authorizeClient checks that the caller's token covers clientID.
// Returns false if not (error response already written).
func authorizeClient(c *gin.Context, clientID string) bool {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context")
		return false
	}
	if !claims.CanAccessClient(clientID) {
		RespondError(c, http.StatusForbidden, "FORBIDDEN", "token does not grant access to this client")
		return false
	}
	return true
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
