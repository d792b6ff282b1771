package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"taxextract/internal/handler"
	"taxextract/internal/middleware"
	"taxextract/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testAccessID = "preparer-7"

func setAuthContext(c *gin.Context, clientIDs ...string) {
	c.Set(middleware.ContextKeyAccessID, testAccessID)
	c.Set(middleware.ContextKeyClaims, &service.Claims{AccessID: testAccessID, ClientIDs: clientIDs})
}

func newJSONContext(t *testing.T, method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(method, target, &buf)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
