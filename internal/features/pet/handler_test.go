package pet

import (
	"context"
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
	"github.com/JS-Ranker/tester/pkg/logger"
	"github.com/JS-Ranker/tester/pkg/response"
	"github.com/JS-Ranker/tester/pkg/validation"
)

type testEnv struct {
	router *gin.Engine
	store  *MemoryStore
	owners *owner.MemoryStore
	issuer *jwt.Issuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.RegisterBindings())

	owners := owner.NewMemoryStore()
	store := NewMemoryStore()
	issuer := jwt.NewIssuer("access", "refresh", time.Minute, time.Hour)
	auth := middleware.Authenticate(issuer, owner.PrincipalLoader(owners), logger.Discard())

	r := gin.New()
	RegisterRoutes(r.Group("/api"), NewHandler(store, logger.Discard()), auth)
	return &testEnv{router: r, store: store, owners: owners, issuer: issuer}
}

func (e *testEnv) login(t *testing.T, rutValue string) (owner.Owner, string) {
	t.Helper()
	o, err := owner.Create(context.Background(), e.owners, owner.CreateInput{
		RUT:      rutValue,
		FullName: "Ana Pérez",
		Password: "secret1",
	}, 6)
	require.NoError(t, err)

	pair, err := e.issuer.Pair(o.ID)
	require.NoError(t, err)
	return o, pair.AccessToken
}

func (e *testEnv) do(method, path, token, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) (response.Envelope, map[string]interface{}) {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	data, _ := env.Data.(map[string]interface{})
	return env, data
}

func TestHandler_CRUD(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.login(t, "12.345.678-5")

	w := env.do(http.MethodPost, "/api/pets", token,
		`{"name":"Firulais","species":"dog","breed":"Labrador","sex":"male","birthDate":"2020-02-29","weightKg":12.5}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	_, data := decode(t, w)
	id, _ := data["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "dog", data["species"])
	assert.Equal(t, "12.5", data["weightKg"])

	w = env.do(http.MethodGet, "/api/pets/"+id, token, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPut, "/api/pets/"+id, token, `{"name":"Firu","breed":null,"weightKg":"13"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	_, data = decode(t, w)
	assert.Equal(t, "Firu", data["name"])
	assert.NotContains(t, data, "breed")

	w = env.do(http.MethodGet, "/api/pets?species=dog&filterKeyword=fir", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	body, _ := decode(t, w)
	pets, _ := body.Data.([]interface{})
	assert.Len(t, pets, 1)
	assert.NotNil(t, body.Pagination)

	w = env.do(http.MethodDelete, "/api/pets/"+id, token, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/pets/"+id, token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_OtherOwnersPetIsHidden(t *testing.T) {
	env := newTestEnv(t)
	_, ana := env.login(t, "12.345.678-5")
	_, pedro := env.login(t, "11.111.111-1")

	w := env.do(http.MethodPost, "/api/pets", ana, `{"name":"Michi","species":"cat"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	_, data := decode(t, w)
	id, _ := data["id"].(string)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/pets/"+id, pedro, "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPut, "/api/pets/"+id, pedro, `{"name":"Mío"}`).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodDelete, "/api/pets/"+id, pedro, "").Code)

	w = env.do(http.MethodGet, "/api/pets", pedro, "")
	require.Equal(t, http.StatusOK, w.Code)
	body, _ := decode(t, w)
	pets, _ := body.Data.([]interface{})
	assert.Empty(t, pets)
}

func TestHandler_Validation(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.login(t, "12.345.678-5")

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing name", `{"species":"dog"}`, "name"},
		{"bad species", `{"name":"Rex","species":"dragon"}`, "species"},
		{"bad weight", `{"name":"Rex","species":"dog","weightKg":0}`, "weightKg"},
		{"bad date", `{"name":"Rex","species":"dog","birthDate":"01-02-2020"}`, "birthDate"},
		{"future date", `{"name":"Rex","species":"dog","birthDate":"2999-01-01"}`, "birthDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/pets", token, tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			body, _ := decode(t, w)
			require.NotNil(t, body.Error)
			assert.Contains(t, body.Error.Fields, tt.field)
		})
	}

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/pets/not-a-uuid", token, "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/pets?species=dragon", token, "").Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/pets", "", "").Code)
}
