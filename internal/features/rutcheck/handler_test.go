package rutcheck

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JS-Ranker/tester/pkg/logger"
	"github.com/JS-Ranker/tester/pkg/response"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/api"), NewHandler(logger.Discard()))
	return r
}

func call(t *testing.T, r *gin.Engine, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	data, _ := env.Data.(map[string]interface{})
	return w.Code, data
}

func TestValidate(t *testing.T) {
	r := newRouter()

	tests := []struct {
		input      string
		valid      bool
		normalized string
		formatted  string
	}{
		{"12.345.678-5", true, "123456785", "12.345.678-5"},
		{"123456785", true, "123456785", "12.345.678-5"},
		{"24965101-k", true, "24965101k", "24.965.101-k"},
		{"10000004-0", true, "100000040", "10.000.004-0"},
		{"12.345.678-9", false, "123456789", ""},
		{"12345", false, "12345", ""},
		{"abcdefgh", false, "abcdefgh", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			code, data := call(t, r, http.MethodPost, "/api/rut/validate", `{"rut":"`+tt.input+`"}`)
			require.Equal(t, http.StatusOK, code)
			assert.Equal(t, tt.valid, data["valid"])
			assert.Equal(t, tt.normalized, data["normalized"])
			if tt.valid {
				assert.Equal(t, tt.formatted, data["formatted"])
			} else {
				assert.NotContains(t, data, "formatted")
			}
		})
	}

	code, _ := call(t, r, http.MethodPost, "/api/rut/validate", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestFormat(t *testing.T) {
	r := newRouter()

	code, data := call(t, r, http.MethodPost, "/api/rut/format", `{"rut":"024965101k"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "24.965.101-K", data["rut"])
	assert.Equal(t, "24965101K", data["normalized"])
	assert.Equal(t, "24965101", data["body"])
	assert.Equal(t, "K", data["verifier"])

	code, _ = call(t, r, http.MethodPost, "/api/rut/format", `{"rut":"12.345.678-9"}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCheckDigit(t *testing.T) {
	r := newRouter()

	code, data := call(t, r, http.MethodGet, "/api/rut/check-digit?body=12.345.678", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "5", data["checkDigit"])
	assert.Equal(t, "12.345.678-5", data["rut"])

	code, data = call(t, r, http.MethodGet, "/api/rut/check-digit?body=10000013", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "K", data["checkDigit"])

	code, _ = call(t, r, http.MethodGet, "/api/rut/check-digit?body=12a", "")
	assert.Equal(t, http.StatusBadRequest, code)
}
