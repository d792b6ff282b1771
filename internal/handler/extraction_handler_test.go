package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taxextract/internal/analyzer"
	"taxextract/internal/domain"
	"taxextract/internal/export"
	"taxextract/internal/handler"
	"taxextract/internal/service"
	"taxextract/mocks"
)

func extractBody() handler.ExtractRequest {
	return handler.ExtractRequest{ClientID: "client-1", BlobName: "w2.pdf", FormType: "W-2"}
}

func TestExtractionHandler_Extract_Success(t *testing.T) {
	svc := new(mocks.MockExtractionService)
	h := handler.NewExtractionHandler(svc)

	want := service.ExtractInput{ClientID: "client-1", BlobName: "w2.pdf", FormType: domain.FormTypeW2, AccessID: testAccessID}
	svc.On("Extract", mock.Anything, want).Return(&service.ExtractionResult{
		ClientID: "client-1", DocName: "w2.pdf", FormType: domain.FormTypeW2, RowsWritten: 12,
	}, nil)

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/extractions", extractBody())
	setAuthContext(c)

	h.Extract(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(12), data["rows_written"])
	svc.AssertExpectations(t)
}

func TestExtractionHandler_Extract_InvalidBody(t *testing.T) {
	svc := new(mocks.MockExtractionService)
	h := handler.NewExtractionHandler(svc)

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/extractions", map[string]string{"client_id": "client-1"})
	setAuthContext(c)

	h.Extract(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Extract")
}

func TestExtractionHandler_Extract_ClientNotPermitted(t *testing.T) {
	svc := new(mocks.MockExtractionService)
	h := handler.NewExtractionHandler(svc)

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/extractions", extractBody())
	setAuthContext(c, "client-2")

	h.Extract(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "Extract")
}

func TestExtractionHandler_Extract_NoAuthContext(t *testing.T) {
	h := handler.NewExtractionHandler(new(mocks.MockExtractionService))

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/extractions", extractBody())

	h.Extract(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExtractionHandler_Extract_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"missing document", fmt.Errorf("presigning: %w", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"no documents", domain.ErrNoDocuments, http.StatusUnprocessableEntity, "NO_DOCUMENTS"},
		{
			"service unavailable",
			fmt.Errorf("%w: %w", domain.ErrAnalysisFailed, &analyzer.APIError{StatusCode: http.StatusServiceUnavailable}),
			http.StatusBadGateway, "ANALYSIS_FAILED",
		},
		{
			"document rejected",
			fmt.Errorf("%w: %w", domain.ErrAnalysisFailed, &analyzer.APIError{StatusCode: http.StatusBadRequest}),
			http.StatusUnprocessableEntity, "ANALYSIS_REJECTED",
		},
		{"persist failed", domain.ErrPersistFailed, http.StatusInternalServerError, "PERSIST_FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.MockExtractionService)
			h := handler.NewExtractionHandler(svc)
			svc.On("Extract", mock.Anything, mock.AnythingOfType("service.ExtractInput")).Return(nil, tt.err)

			c, w := newJSONContext(t, http.MethodPost, "/api/v1/extractions", extractBody())
			setAuthContext(c)

			h.Extract(c)

			assert.Equal(t, tt.wantCode, w.Code)
			resp := decode(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantErr, resp.Error.Code)
		})
	}
}

func TestExtractionHandler_List(t *testing.T) {
	svc := new(mocks.MockExtractionService)
	h := handler.NewExtractionHandler(svc)

	rows := []domain.Extraction{{ClientID: "client-1", DocName: "w2.pdf", FieldName: "TaxYear"}}
	svc.On("List", mock.Anything, "client-1", "w2.pdf", 0, 100).Return(rows, 1, nil)

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/clients/client-1/extractions?doc_name=w2.pdf&limit=9999", nil)
	c.Params = gin.Params{{Key: "client_id", Value: "client-1"}}
	setAuthContext(c)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Total)
	assert.Equal(t, 100, resp.Meta.Limit)
	svc.AssertExpectations(t)
}

func TestExtractionHandler_Export_CSV(t *testing.T) {
	svc := new(mocks.MockExtractionService)
	h := handler.NewExtractionHandler(svc)

	svc.On("Export", mock.Anything, "client-1", "", export.FormatCSV, mock.Anything).Return("Client ID\nclient-1\n", nil)

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/clients/client-1/extractions/export", nil)
	c.Params = gin.Params{{Key: "client_id", Value: "client-1"}}
	setAuthContext(c)

	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="client-1_`)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
	assert.Equal(t, "Client ID\nclient-1\n", w.Body.String())
}

func TestExtractionHandler_Export_XLSXForDocument(t *testing.T) {
	svc := new(mocks.MockExtractionService)
	h := handler.NewExtractionHandler(svc)

	svc.On("Export", mock.Anything, "client-1", "w2.pdf", export.FormatXLSX, mock.Anything).Return("PK", nil)

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/clients/client-1/extractions/export?format=xlsx&doc_name=w2.pdf", nil)
	c.Params = gin.Params{{Key: "client_id", Value: "client-1"}}
	setAuthContext(c)

	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.FormatXLSX.ContentType(), w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "client-1_w2_")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
}

func TestExtractionHandler_Export_UnknownFormat(t *testing.T) {
	svc := new(mocks.MockExtractionService)
	h := handler.NewExtractionHandler(svc)

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/clients/client-1/extractions/export?format=pdf", nil)
	c.Params = gin.Params{{Key: "client_id", Value: "client-1"}}
	setAuthContext(c)

	h.Export(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Export")
}

func TestExtractionHandler_Export_NotFound(t *testing.T) {
	svc := new(mocks.MockExtractionService)
	h := handler.NewExtractionHandler(svc)

	svc.On("Export", mock.Anything, "client-1", "missing.pdf", export.FormatCSV, mock.Anything).Return(nil, domain.ErrNotFound)

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/clients/client-1/extractions/export?doc_name=missing.pdf", nil)
	c.Params = gin.Params{{Key: "client_id", Value: "client-1"}}
	setAuthContext(c)

	h.Export(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Header().Get("Content-Disposition"))
}

func TestExtractionHandler_DeleteDocument(t *testing.T) {
	svc := new(mocks.MockExtractionService)
	h := handler.NewExtractionHandler(svc)

	svc.On("DeleteDocument", mock.Anything, "client-1", "w2.pdf").Return(int64(14), nil)

	c, w := newJSONContext(t, http.MethodDelete, "/api/v1/clients/client-1/extractions?doc_name=w2.pdf", nil)
	c.Params = gin.Params{{Key: "client_id", Value: "client-1"}}
	setAuthContext(c)

	h.DeleteDocument(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]interface{})
	assert.Equal(t, float64(14), data["deleted"])
}

func TestExtractionHandler_DeleteDocument_MissingName(t *testing.T) {
	svc := new(mocks.MockExtractionService)
	h := handler.NewExtractionHandler(svc)

	svc.On("DeleteDocument", mock.Anything, "client-1", "").
		Return(int64(0), fmt.Errorf("%w: client_id and doc_name are required", domain.ErrInvalidInput))

	c, w := newJSONContext(t, http.MethodDelete, "/api/v1/clients/client-1/extractions", nil)
	c.Params = gin.Params{{Key: "client_id", Value: "client-1"}}
	setAuthContext(c)

	h.DeleteDocument(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w).Error.Message, "doc_name")
}
