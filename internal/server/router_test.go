package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arunsaradgi/fullstacktodo/handlers"
	"github.com/arunsaradgi/fullstacktodo/internal/config"
	"github.com/arunsaradgi/fullstacktodo/internal/todo"
	"github.com/arunsaradgi/fullstacktodo/internal/todo/service"
	"github.com/arunsaradgi/fullstacktodo/pkg/logger"
	"github.com/arunsaradgi/fullstacktodo/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "5000", Environment: "test"},
		CORS: config.CORSConfig{
			AllowedOrigins: config.AllowedOrigins,
			AllowedMethods: config.AllowedMethods,
		},
		Client: config.ClientConfig{APIURL: config.DefaultAPIURL},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	svc := service.NewMemoryService()
	reg := prometheus.NewRegistry()
	metrics.RegisterCollectors(reg)
	r, err := NewRouter(Deps{
		Config:   cfg,
		Todos:    svc,
		Ready:    map[string]handlers.Pinger{"store": svc},
		Gatherer: reg,
	})
	require.NoError(t, err)
	return r
}

func serve(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_Scenario(t *testing.T) {
	r := newTestRouter(t, testConfig())

	w := serve(r, http.MethodPost, "/api/todos", `{"title":"Buy milk"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var created todo.Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "Buy milk", created.Title)
	require.Equal(t, "", created.Description)
	require.False(t, created.Completed)
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = serve(r, http.MethodPatch, "/api/todos/"+created.ID, `{"completed":true}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var updated todo.Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.True(t, updated.Completed)
	require.Equal(t, created.Title, updated.Title)
	require.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	w = serve(r, http.MethodDelete, "/api/todos/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodGet, "/api/todos", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotContains(t, w.Body.String(), created.ID)
}

func TestRouter_MethodRestriction(t *testing.T) {
	r := newTestRouter(t, testConfig())

	w := serve(r, http.MethodPut, "/api/todos/507f1f77bcf86cd799439011", `{"title":"x"}`, nil)
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	w = serve(r, http.MethodDelete, "/api/todos", "", nil)
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	w = serve(r, http.MethodGet, "/api/nothing-here", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_CORS(t *testing.T) {
	r := newTestRouter(t, testConfig())

	w := serve(r, http.MethodGet, "/api/todos", "", map[string]string{"Origin": "http://localhost:5173"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(r, http.MethodOptions, "/api/todos", "", map[string]string{
		"Origin":                        "http://localhost:5173",
		"Access-Control-Request-Method": "POST",
	})
	require.Less(t, w.Code, 300)
	require.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")

	w = serve(r, http.MethodPost, "/api/todos", `{"title":"x"}`, map[string]string{"Origin": "https://evil.example"})
	require.Equal(t, http.StatusForbidden, w.Code)
	w = serve(r, http.MethodGet, "/api/todos", "", nil)
	require.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestRouter_PanicIsGeneric500(t *testing.T) {
	var logs bytes.Buffer
	restore := logger.SetOutput(&logs)
	defer restore()

	r := newTestRouter(t, testConfig())
	r.GET("/api/explode", func(c *gin.Context) { panic("secret internal state") })

	w := serve(r, http.MethodGet, "/api/explode", "", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"message":"Something went wrong!"}`, w.Body.String())
	require.Contains(t, logs.String(), "secret internal state")
}

func TestRouter_OversizedBody(t *testing.T) {
	r := newTestRouter(t, testConfig())
	big := `{"title":"x","description":"` + strings.Repeat("a", 2<<20) + `"}`

	w := serve(r, http.MethodPost, "/api/todos", big, nil)
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRouter_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.01, Burst: 1}
	r := newTestRouter(t, cfg)

	require.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/todos", "", nil).Code)
	require.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodGet, "/api/todos", "", nil).Code)
	// only the API is limited
	require.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health", "", nil).Code)
}

func TestRouter_Ambient(t *testing.T) {
	r := newTestRouter(t, testConfig())

	require.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health", "", nil).Code)
	require.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ready", "", nil).Code)
	require.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/swagger/doc.json", "", nil).Code)

	w := serve(r, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Todo App")

	serve(r, http.MethodGet, "/api/todos", "", nil)
	w = serve(r, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "fullstacktodo_http_requests_total")
}
