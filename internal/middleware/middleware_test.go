package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sistema-pagamento-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newGuardedRouter(tokens TokenValidator, roles ...string) *gin.Engine {
	r := gin.New()
	handlers := []gin.HandlerFunc{JWT(tokens)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRoles(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"subject": Claims(c).Subject})
	})
	r.PUT("/pagamento/:pagamentoId/atualizarPagamento", handlers...)
	return r
}

func perform(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/pagamento/1/atualizarPagamento", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestJWT(t *testing.T) {
	tokens := service.NewTokenService("segredo")
	router := newGuardedRouter(tokens)

	rec := perform(router, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = perform(router, "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, rec))

	rec = perform(router, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := tokens.Issue("secretaria", RoleValidator, time.Hour)
	require.NoError(t, err)
	rec = perform(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "secretaria")
}

func TestRequireRoles(t *testing.T) {
	tokens := service.NewTokenService("segredo")
	router := newGuardedRouter(tokens, RoleAdmin, RoleValidator)

	validator, err := tokens.Issue("secretaria", "validator", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, perform(router, "Bearer "+validator).Code)

	student, err := tokens.Issue("aluno", "STUDENT", time.Hour)
	require.NoError(t, err)
	rec := perform(router, "Bearer "+student)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(t, rec))
}

func TestRequireRolesWithoutClaims(t *testing.T) {
	r := gin.New()
	r.GET("/x", RequireRoles(RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMetricsObservesMatchedRoute(t *testing.T) {
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics, "/metrics"))
	r.GET("/pagamentos/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/pagamentos/42", "/pagamentos/43", "/metrics"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Less(t, rec.Code, 300)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope/1", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	count, err := testutil.GatherAndCount(metrics.Registry(), "http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
