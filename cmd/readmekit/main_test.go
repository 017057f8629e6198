package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"readmekit/internal/background"
	"readmekit/internal/config"
	"readmekit/internal/counter"
	"readmekit/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestRouterEndToEnd(t *testing.T) {
	cfg := &config.Config{
		Admin:   config.AdminConfig{Password: "secret"},
		RepoURL: "https://github.com/example/readmekit",
	}
	log := logger.Discard()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	store := counter.Traced(counter.NewStore(context.Background(), cfg, nil, log), tp)
	require.Equal(t, "memory", store.Backend())

	loader := background.NewLoader("../../public/back.gif", "", nil, log)
	router := newRouter(cfg, log, store, loader, tp)
	server := httptest.NewServer(router)
	defer server.Close()

	fetch := func(path string) *http.Response {
		resp, err := http.Get(server.URL + path)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	for i := 0; i < 3; i++ {
		resp := fetch("/api/visitor-count?key=web2and3")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	}
	v, ok, err := store.Get(context.Background(), "web2and3")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(9813), v)

	resp := fetch("/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/admin/counters/web2and3", nil)
	req.SetBasicAuth("admin", "secret")
	adminResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer adminResp.Body.Close()
	assert.Equal(t, http.StatusOK, adminResp.StatusCode)

	var names []string
	for _, s := range recorder.Ended() {
		names = append(names, s.Name())
	}
	joined := strings.Join(names, ",")
	assert.Contains(t, joined, "GET /api/visitor-count")
	assert.Contains(t, joined, "counter.increment")
}

func TestRouterWithoutAdminPassword(t *testing.T) {
	cfg := &config.Config{}
	log := logger.Discard()
	router := newRouter(cfg, log, counter.NewMemoryStore(), nil, sdktrace.NewTracerProvider())

	req := httptest.NewRequest(http.MethodGet, "/admin/counters", nil)
	req.SetBasicAuth("admin", "")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
