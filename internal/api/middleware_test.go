package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"readmekit/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	var seen string
	router.GET("/", func(c *gin.Context) {
		seen = RequestIDFrom(c)
		c.Status(http.StatusOK)
	})

	resp := get(router, "/")
	generated := resp.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 26, "expected a ULID")
	assert.Equal(t, generated, seen)

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-id_1.2")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "upstream-id_1.2", rec.Header().Get(RequestIDHeader))

	req.Header.Set(RequestIDHeader, "bad id\nwith newline")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 26)
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	router := gin.New()
	router.Use(RequestID(), Recovery(logger.NewWithWriter(&buf, false, "json")))
	router.GET("/panic", func(c *gin.Context) { panic("boom") })
	router.GET("/abort", func(c *gin.Context) { panic(http.ErrAbortHandler) })

	resp := get(router, "/panic")
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, buf.String(), "Panic recovered")

	buf.Reset()
	get(router, "/abort")
	assert.Contains(t, buf.String(), "Client connection aborted")
}

func TestTracing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	router := gin.New()
	router.Use(RequestID(), Tracing(tp))
	router.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/fail", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	get(router, "/items/42")
	get(router, "/fail")

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "GET /items/:id", spans[0].Name())
	assert.Equal(t, "GET /fail", spans[1].Name())
	assert.Equal(t, "Error", spans[1].Status().Code.String())
}

func TestAccessLog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	router := gin.New()
	router.Use(RequestID(), AccessLog(logger.NewWithWriter(&buf, false, "json")))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	resp := get(router, "/")
	line := buf.String()
	assert.True(t, strings.Contains(line, `"status":204`), line)
	assert.Contains(t, line, resp.Header().Get(RequestIDHeader))
}
