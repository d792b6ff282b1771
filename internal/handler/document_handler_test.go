package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"taxextract/internal/domain"
	"taxextract/internal/handler"
	"taxextract/internal/service"
	"taxextract/mocks"
)

func multipartContext(t *testing.T, fields map[string]string, withFile bool) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if withFile {
		part, err := writer.CreateFormFile("file", "w2.pdf")
		assert.NoError(t, err)
		_, _ = part.Write([]byte("%PDF-1.4 test content"))
	}
	for k, v := range fields {
		_ = writer.WriteField(k, v)
	}
	_ = writer.Close()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/clients/client-1/documents", body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())
	c.Params = gin.Params{{Key: "client_id", Value: "client-1"}}
	setAuthContext(c)
	return c, w
}

func TestDocumentHandler_Upload_Success(t *testing.T) {
	svc := new(mocks.MockDocumentService)
	h := handler.NewDocumentHandler(svc)

	svc.On("Upload", mock.Anything, mock.MatchedBy(func(in service.UploadDocumentInput) bool {
		return in.ClientID == "client-1" && in.FileName == "w2.pdf" && in.AccessID == testAccessID &&
			in.FormType == domain.FormTypeW2 && in.Enqueue && in.Body != nil
	})).Return(&service.UploadResult{
		Document: &domain.StoredDocument{ClientID: "client-1", BlobName: "w2.pdf", FileType: domain.FileTypePDF},
		Job:      &domain.ExtractionJob{ClientID: "client-1", Status: domain.JobStatusQueued},
	}, nil)

	c, w := multipartContext(t, map[string]string{"form_type": "W-2", "enqueue": "true"}, true)

	h.Upload(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.NotNil(t, data["job"])
	svc.AssertExpectations(t)
}

func TestDocumentHandler_Upload_NoFile(t *testing.T) {
	svc := new(mocks.MockDocumentService)
	h := handler.NewDocumentHandler(svc)

	c, w := multipartContext(t, map[string]string{"form_type": "W-2"}, false)

	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_FILE", decode(t, w).Error.Code)
	svc.AssertNotCalled(t, "Upload")
}

func TestDocumentHandler_Upload_BadEnqueueFlag(t *testing.T) {
	svc := new(mocks.MockDocumentService)
	h := handler.NewDocumentHandler(svc)

	c, w := multipartContext(t, map[string]string{"enqueue": "maybe"}, true)

	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Upload")
}

func TestDocumentHandler_Upload_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"too large", domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"unsupported", domain.ErrUnsupportedFileType, http.StatusUnsupportedMediaType},
		{"storage", domain.ErrUploadFailed, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.MockDocumentService)
			h := handler.NewDocumentHandler(svc)
			svc.On("Upload", mock.Anything, mock.Anything).Return(nil, tt.err)

			c, w := multipartContext(t, nil, true)

			h.Upload(c)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestDocumentHandler_Delete(t *testing.T) {
	svc := new(mocks.MockDocumentService)
	h := handler.NewDocumentHandler(svc)
	svc.On("Delete", mock.Anything, "client-1", "w2.pdf").Return(nil)

	c, w := newJSONContext(t, http.MethodDelete, "/api/v1/clients/client-1/documents/w2.pdf", nil)
	c.Params = gin.Params{{Key: "client_id", Value: "client-1"}, {Key: "blob_name", Value: "w2.pdf"}}
	setAuthContext(c)

	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
