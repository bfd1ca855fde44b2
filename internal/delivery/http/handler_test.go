package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"category/extractor/internal/config"
	"category/extractor/internal/domain"
	"category/extractor/internal/queue"
	"category/extractor/internal/service"
	"category/extractor/internal/state"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubExtractor struct {
	last domain.ExtractionRequest
}

func (s *stubExtractor) Extract(_ context.Context, req domain.ExtractionRequest) []domain.ExtractedProduct {
	s.last = req
	if req.Path.Main == "Zzzqx" {
		return nil
	}
	return []domain.ExtractedProduct{
		{Name: "Lemon", Source: domain.SourceStructuredCategory, SourceRef: "Category:Citrus", Confidence: 0.9},
		{Name: "Kumquat", Source: domain.SourceKeywordSearchLink, SourceRef: "Citrus", Confidence: 0.7},
	}
}

func testConfig() *config.Config {
	return &config.Config{Server: config.ServerConfig{Environment: "test"}}
}

func setupTestRouter(svc *service.Service) *gin.Engine {
	return SetupRouter(testConfig(), NewHandler(svc))
}

func perform(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router := setupTestRouter(service.NewService(&stubExtractor{}, nil, nil, 0))

	w := perform(router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"category-extractor","jobs":false}`, w.Body.String())
}

func TestExtract(t *testing.T) {
	expected := `{
		"category_path": ["Fruit", "Citrus", null],
		"count": 2,
		"products": [
			{"name": "Lemon", "source": "structured_category", "source_ref": "Category:Citrus", "confidence": 0.9},
			{"name": "Kumquat", "source": "keyword_search_link", "source_ref": "Citrus", "confidence": 0.7}
		]
	}`

	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{name: "POST body", method: http.MethodPost, target: "/extract", body: `{"main":"Fruit","sub":"Citrus"}`},
		{name: "GET query", method: http.MethodGet, target: "/extract?main=Fruit&sub=Citrus"},
		{name: "versioned POST", method: http.MethodPost, target: "/api/v1/extract", body: `{"main":"Fruit","sub":"Citrus"}`},
		{name: "versioned GET", method: http.MethodGet, target: "/api/v1/extract?main=Fruit&sub=Citrus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter(service.NewService(&stubExtractor{}, nil, nil, 0))

			w := perform(router, tt.method, tt.target, tt.body)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, expected, w.Body.String())
		})
	}
}

func TestExtract_PassesRetailerURL(t *testing.T) {
	ext := &stubExtractor{}
	router := setupTestRouter(service.NewService(ext, nil, nil, 0))

	w := perform(router, http.MethodGet, "/extract?main=Widgets&retailer_url=https%3A%2F%2Fshop.example%2Fw", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://shop.example/w", ext.last.RetailerURL)
	assert.Equal(t, "Widgets", ext.last.Path.Main)
}

func TestExtract_EmptyResult(t *testing.T) {
	router := setupTestRouter(service.NewService(&stubExtractor{}, nil, nil, 0))

	w := perform(router, http.MethodPost, "/extract", `{"main":"Zzzqx"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"category_path":["Zzzqx",null,null],"count":0,"products":[]}`, w.Body.String())
}

func TestExtract_BadRequest(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{name: "POST without main", method: http.MethodPost, target: "/extract", body: `{"sub":"Citrus"}`},
		{name: "GET without main", method: http.MethodGet, target: "/extract?sub=Citrus"},
		{name: "blank main", method: http.MethodPost, target: "/extract", body: `{"main":"   "}`},
		{name: "malformed JSON", method: http.MethodPost, target: "/extract", body: `{"main":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter(service.NewService(&stubExtractor{}, nil, nil, 0))

			w := perform(router, tt.method, tt.target, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var response map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.NotEmpty(t, response["error"])
		})
	}
}

func TestJobs_Disabled(t *testing.T) {
	router := setupTestRouter(service.NewService(&stubExtractor{}, nil, nil, 0))

	w := perform(router, http.MethodPost, "/api/v1/jobs", `{"main":"Fruit"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = perform(router, http.MethodGet, "/api/v1/jobs/abc", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestJobs_SubmitAndGet(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	q, err := queue.NewRedisQueue(context.Background(), client, config.RedisConfig{ConsumerGroup: "extractors"})
	require.NoError(t, err)
	svc := service.NewService(&stubExtractor{}, q, state.NewRedisJobStore(client, time.Hour), 60)
	router := setupTestRouter(svc)

	w := perform(router, http.MethodPost, "/api/v1/jobs", `{"main":"Fruit","sub":"Citrus"}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	var job domain.Job
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	assert.Equal(t, domain.JobStatusQueued, job.Status)
	require.NotEmpty(t, job.ID)

	w = perform(router, http.MethodGet, "/api/v1/jobs/"+job.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"queued"`)

	w = perform(router, http.MethodGet, "/api/v1/jobs/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = perform(router, http.MethodPost, "/api/v1/jobs", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupTestRouter(service.NewService(&stubExtractor{}, nil, nil, 0))

	w := perform(router, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
