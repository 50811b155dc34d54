package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BrenoBalsini/ultimate-praia-sub000/logging"
)

func TestMetricsMiddlewareRecordsRouteTemplate(t *testing.T) {
	mc := NewMetricsCollector()
	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler { return metricsMiddleware(mc, next) })
	r.HandleFunc("/api/v1/gvc/{gvc_id}", func(w http.ResponseWriter, r *http.Request) {
		assert.NotSame(t, zap.S(), logging.FromContext(r.Context()))
		w.WriteHeader(http.StatusNotFound)
	})

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/gvc/abc", nil))
		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	}

	s := mc.Summary()
	require.Len(t, s.Routes, 1)
	assert.Equal(t, "/api/v1/gvc/{gvc_id}", s.Routes[0].Path)
	assert.Equal(t, int64(2), s.Routes[0].Count)
	assert.Equal(t, int64(2), s.TotalErrors)
	assert.Equal(t, 1.0, s.ErrorRate)
}

func TestMetricsMiddlewareKeepsRequestID(t *testing.T) {
	mc := NewMetricsCollector()
	h := metricsMiddleware(mc, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "req-42", rr.Header().Get("X-Request-ID"))
}

func TestMetricsCollectorMinMax(t *testing.T) {
	mc := NewMetricsCollector()
	now := time.Now()
	mc.Record("GET", "/a", 200, 30*time.Millisecond, now)
	mc.Record("GET", "/a", 200, 10*time.Millisecond, now)
	mc.Record("POST", "/a", 201, 5*time.Millisecond, now)

	s := mc.Summary()
	require.Len(t, s.Routes, 2)
	assert.Equal(t, "GET", s.Routes[0].Method)
	assert.Equal(t, 10*time.Millisecond, s.Routes[0].MinTime)
	assert.Equal(t, 30*time.Millisecond, s.Routes[0].MaxTime)
	assert.Equal(t, 20*time.Millisecond, s.Routes[0].AvgTime)
	assert.Zero(t, s.ErrorRate)
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	h := CORSMiddleware("https://praia.app")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight must not reach the handler")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/api/v1/gvcs", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://praia.app", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}

func TestTimeoutMiddleware(t *testing.T) {
	h := TimeoutMiddleware(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/slow", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, timeoutBody, rr.Body.String())
}

func TestWithQueryTimeout(t *testing.T) {
	ctx, cancel := WithQueryTimeout(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(QueryTimeout), deadline, time.Second)
}
