package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest installs an in-memory span exporter and returns it
// plus a cleanup function.
func setupTracingTest(t *testing.T) (*tracetest.InMemoryExporter, func()) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	tracer = otel.Tracer("flux")

	cleanup := func() {
		otel.SetTracerProvider(original)
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	}
	return exporter, cleanup
}

func TestStartTickSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()
	_, span := sm.StartTickSpan(context.Background(), "my-graph", "run-123")
	require.NotNil(t, span)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "flux.tick", spans[0].Name)

	var graphName, runID string
	for _, attr := range spans[0].Attributes {
		switch attr.Key {
		case "graph.name":
			graphName = attr.Value.AsString()
		case "run.id":
			runID = attr.Value.AsString()
		}
	}
	assert.Equal(t, "my-graph", graphName)
	assert.Equal(t, "run-123", runID)
}

func TestStartNodeSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()
	ctx, tickSpan := sm.StartTickSpan(context.Background(), "g", "r")
	_, nodeSpan := sm.StartNodeSpan(ctx, "branch1")
	nodeSpan.End()
	tickSpan.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	// Spans are exported in end order: node first, then tick.
	assert.Equal(t, "flux.node.branch1", spans[0].Name)
	assert.Equal(t, "flux.tick", spans[1].Name)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID(),
		"node span is a child of the tick span")
}

func TestEndSpanWithError(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	_, span := sm.StartNodeSpan(context.Background(), "ok")
	sm.EndSpanWithError(span, nil)

	_, span = sm.StartNodeSpan(context.Background(), "bad")
	sm.EndSpanWithError(span, errors.New("kaboom"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	assert.Equal(t, codes.Error, spans[1].Status.Code)
	assert.Equal(t, "kaboom", spans[1].Status.Description)
	require.Len(t, spans[1].Events, 1, "error recorded as span event")

	assert.NotPanics(t, func() { sm.EndSpanWithError(nil, nil) })
}
