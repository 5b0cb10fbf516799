package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestTracingMiddlewareRecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(tracingMiddleware())
	engine.GET("/posts/:id", func(c *gin.Context) {
		// The handler must see the span's context on the request
		if !trace.SpanFromContext(c.Request.Context()).SpanContext().IsValid() {
			t.Error("handler context carries no span")
		}
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest("GET", "/posts/7", nil))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(spans))
	}
	span := spans[0]
	if span.Name() != "GET /posts/:id" {
		t.Errorf("span name = %q, want route template, not raw path", span.Name())
	}
	if span.SpanKind() != trace.SpanKindServer {
		t.Errorf("span kind = %v, want server", span.SpanKind())
	}

	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if got := attrs["http.route"].AsString(); got != "/posts/:id" {
		t.Errorf("http.route = %q, want /posts/:id", got)
	}
	if got := attrs["http.status_code"].AsInt64(); got != http.StatusOK {
		t.Errorf("http.status_code = %d, want 200", got)
	}
}

func TestTracingMiddlewareMarksServerErrors(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(tracingMiddleware())
	engine.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest("GET", "/boom", nil))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(spans))
	}
	if spans[0].Status().Code.String() != "Error" {
		t.Errorf("span status = %v, want error on 5xx", spans[0].Status().Code)
	}
}
