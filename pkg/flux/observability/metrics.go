package observability

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records engine metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordNodeActivation records one node activation with its
	// duration and error status.
	RecordNodeActivation(ctx context.Context, nodeID string, duration time.Duration, err error)

	// RecordTick records one engine tick.
	RecordTick(ctx context.Context, steps int, duration time.Duration)

	// RecordWait records a suspension wait registration.
	RecordWait(ctx context.Context, nodeID string, repeating bool)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	nodeActivations metric.Int64Counter
	nodeLatency     metric.Float64Histogram
	nodeFaults      metric.Int64Counter
	ticks           metric.Int64Counter
	tickSteps       metric.Int64Histogram
	tickLatency     metric.Float64Histogram
	waits           metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily initializes the default OTel metrics.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("flux")

	nodeActivations, err := meter.Int64Counter("flux.node.activations",
		metric.WithDescription("Number of node activations"),
	)
	if err != nil {
		return nil, err
	}

	nodeLatency, err := meter.Float64Histogram("flux.node.latency_ms",
		metric.WithDescription("Node activation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	nodeFaults, err := meter.Int64Counter("flux.node.faults",
		metric.WithDescription("Number of node activation faults"),
	)
	if err != nil {
		return nil, err
	}

	ticks, err := meter.Int64Counter("flux.engine.ticks",
		metric.WithDescription("Number of engine ticks"),
	)
	if err != nil {
		return nil, err
	}

	tickSteps, err := meter.Int64Histogram("flux.engine.tick_steps",
		metric.WithDescription("Scheduling steps performed per tick"),
	)
	if err != nil {
		return nil, err
	}

	tickLatency, err := meter.Float64Histogram("flux.engine.tick_latency_ms",
		metric.WithDescription("Tick latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	waits, err := meter.Int64Counter("flux.engine.waits",
		metric.WithDescription("Number of suspension waits registered"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		nodeActivations: nodeActivations,
		nodeLatency:     nodeLatency,
		nodeFaults:      nodeFaults,
		ticks:           ticks,
		tickSteps:       tickSteps,
		tickLatency:     tickLatency,
		waits:           waits,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		return NoopMetrics{}
	}
	return m
}

// RecordNodeActivation implements MetricsRecorder.
func (m *otelMetrics) RecordNodeActivation(ctx context.Context, nodeID string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("node_id", nodeID))
	m.nodeActivations.Add(ctx, 1, attrs)
	m.nodeLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
	if err != nil {
		m.nodeFaults.Add(ctx, 1, attrs)
	}
}

// RecordTick implements MetricsRecorder.
func (m *otelMetrics) RecordTick(ctx context.Context, steps int, duration time.Duration) {
	m.ticks.Add(ctx, 1)
	m.tickSteps.Record(ctx, int64(steps))
	m.tickLatency.Record(ctx, float64(duration.Milliseconds()))
}

// RecordWait implements MetricsRecorder.
func (m *otelMetrics) RecordWait(ctx context.Context, nodeID string, repeating bool) {
	m.waits.Add(ctx, 1, metric.WithAttributes(
		attribute.String("node_id", nodeID),
		attribute.Bool("repeating", repeating),
	))
}
