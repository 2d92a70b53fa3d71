package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JS-Ranker/tester/internal/features/owner"
	"github.com/JS-Ranker/tester/internal/middleware"
	"github.com/JS-Ranker/tester/internal/utils/jwt"
	"github.com/JS-Ranker/tester/pkg/cache"
	"github.com/JS-Ranker/tester/pkg/config"
	"github.com/JS-Ranker/tester/pkg/logger"
	"github.com/JS-Ranker/tester/pkg/response"
	"github.com/JS-Ranker/tester/pkg/validation"
)

func newRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.RegisterBindings())

	owners := owner.NewMemoryStore()
	issuer := jwt.NewIssuer("access", "refresh", time.Minute, time.Hour)
	security := config.SecurityConfig{MinPasswordLength: 6, LoginMaxAttempts: 5, LoginLockout: 15 * time.Minute}
	service := NewService(owners, cache.NewMemoryCache(), issuer, nil, security, logger.Discard())

	r := gin.New()
	auth := middleware.Authenticate(issuer, owner.PrincipalLoader(owners), logger.Discard())
	RegisterRoutes(r.Group("/api"), NewHandler(service, logger.Discard()), auth)
	return r, service
}

func send(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) (response.Envelope, map[string]interface{}) {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	data, _ := env.Data.(map[string]interface{})
	return env, data
}

const registerBody = `{"fullName":"Ana Pérez","rut":"12345678-5","email":"ana@example.com","password":"secret1","confirmPassword":"secret1"}`

func TestHandler_Register(t *testing.T) {
	r, _ := newRouter(t)

	w := send(r, http.MethodPost, "/api/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")

	env, data := envelope(t, w)
	assert.True(t, env.Success)
	assert.NotEmpty(t, data["accessToken"])
	ownerData, _ := data["owner"].(map[string]interface{})
	assert.Equal(t, "12.345.678-5", ownerData["rut"])
	assert.NotContains(t, ownerData, "password")

	w = send(r, http.MethodPost, "/api/owners", "", registerBody)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_RegisterAcceptsPaddedRUT(t *testing.T) {
	r, _ := newRouter(t)

	w := send(r, http.MethodPost, "/api/auth/register", "",
		`{"fullName":"Ana Pérez","rut":" 12.345.678-5 ","password":"secret1","confirmPassword":"secret1"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = send(r, http.MethodPost, "/api/auth/login", "", `{"rut":" 12.345.678-5 ","password":"secret1"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = send(r, http.MethodPost, "/api/auth/register", "",
		`{"fullName":"Ana Pérez","rut":"1234567890123-K","password":"secret1","confirmPassword":"secret1"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	env, _ := envelope(t, w)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Fields, "rut")
}

func TestHandler_RegisterValidation(t *testing.T) {
	r, _ := newRouter(t)

	w := send(r, http.MethodPost, "/api/auth/register", "",
		`{"fullName":"Ana","rut":"12345678-9","password":"secret1","confirmPassword":"secret1"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	env, _ := envelope(t, w)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Fields, "rut")

	w = send(r, http.MethodPost, "/api/auth/register", "",
		`{"fullName":"Ana","rut":"12345678-5","password":"secret1","confirmPassword":"secret2"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	env, _ = envelope(t, w)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Fields, "confirmPassword")
}

func TestHandler_LoginAndLockout(t *testing.T) {
	r, _ := newRouter(t)
	require.Equal(t, http.StatusCreated, send(r, http.MethodPost, "/api/auth/register", "", registerBody).Code)

	w := send(r, http.MethodPost, "/api/owners/login", "", `{"rut":"12.345.678-5","password":"secret1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = send(r, http.MethodPost, "/api/auth/login", "", `{"rut":"1","password":"secret1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for i := 0; i < 5; i++ {
		w = send(r, http.MethodPost, "/api/auth/login", "", `{"rut":"123456785","password":"nope"}`)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w = send(r, http.MethodPost, "/api/auth/login", "", `{"rut":"123456785","password":"secret1"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestHandler_RefreshAndLogout(t *testing.T) {
	r, _ := newRouter(t)
	w := send(r, http.MethodPost, "/api/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, w.Code)
	_, data := envelope(t, w)
	refresh, _ := data["refreshToken"].(string)

	w = send(r, http.MethodPost, "/api/auth/refresh-token", "", `{"refreshToken":"`+refresh+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	_, data = envelope(t, w)
	access, _ := data["accessToken"].(string)
	rotated, _ := data["refreshToken"].(string)

	w = send(r, http.MethodPost, "/api/auth/refresh-token", "", `{"refreshToken":"`+refresh+`"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	assert.Equal(t, http.StatusUnauthorized, send(r, http.MethodPost, "/api/auth/logout", "", "").Code)

	w = send(r, http.MethodPost, "/api/auth/logout", access, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = send(r, http.MethodPost, "/api/auth/refresh-token", "", `{"refreshToken":"`+rotated+`"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
