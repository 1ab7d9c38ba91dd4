package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestDisabledProviderStillPropagates(t *testing.T) {
	p, err := InitTracer(context.Background(), Config{ServiceName: "tsperf"})
	require.NoError(t, err)
	defer p.Shutdown(context.Background())

	var spanCtx trace.SpanContext
	r := mux.NewRouter()
	r.Use(HTTPMiddleware(p))
	r.HandleFunc("/matrix/{name}", func(w http.ResponseWriter, r *http.Request) {
		spanCtx = trace.SpanContextFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/matrix/full", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	require.True(t, spanCtx.IsValid())
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spanCtx.TraceID().String())
	assert.Contains(t, rec.Header().Get("traceparent"), "4bf92f3577b34da6a3ce929d0e0e4736")
}

func recordingProvider() (*Provider, *tracetest.SpanRecorder) {
	sr := tracetest.NewSpanRecorder()
	return newProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)), false), sr
}

func TestStartChildOfServerSpan(t *testing.T) {
	p, sr := recordingProvider()

	r := mux.NewRouter()
	r.Use(HTTPMiddleware(p))
	r.HandleFunc("/matrix/{name}", func(w http.ResponseWriter, r *http.Request) {
		_, span := Start(r.Context(), "matrix.generate", PresetKey.String(mux.Vars(r)["name"]))
		RecordFailure(span, errors.New("generator exploded"))
		span.End()
		w.WriteHeader(http.StatusInternalServerError)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/matrix/bun", nil))

	spans := sr.Ended()
	require.Len(t, spans, 2)
	child, server := spans[0], spans[1]

	assert.Equal(t, "matrix.generate", child.Name())
	assert.Equal(t, server.SpanContext().SpanID(), child.Parent().SpanID())
	assert.Contains(t, child.Attributes(), PresetKey.String("bun"))
	assert.Equal(t, codes.Error, child.Status().Code)
	require.Len(t, child.Events(), 1)
	assert.Equal(t, "exception", child.Events()[0].Name)

	assert.Equal(t, "GET /matrix/{name}", server.Name())
	assert.Equal(t, trace.SpanKindServer, server.SpanKind())
	assert.Contains(t, server.Attributes(), attribute.Int("http.status_code", http.StatusInternalServerError))
	assert.Equal(t, codes.Error, server.Status().Code)
}

func TestStartWithoutSpanIsNoop(t *testing.T) {
	_, span := Start(context.Background(), "matrix.generate")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.ParentBased(sdktrace.AlwaysSample()).Description(), sampler(0).Description())
	assert.Equal(t, sdktrace.ParentBased(sdktrace.AlwaysSample()).Description(), sampler(1).Description())
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestInitTracerWithoutEndpoint(t *testing.T) {
	p, err := InitTracer(context.Background(), Config{ServiceName: "tsperf", ServiceVersion: "dev"})
	require.NoError(t, err)
	assert.False(t, p.Exporting())
	assert.NoError(t, p.Shutdown(context.Background()))
}
