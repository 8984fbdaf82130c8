package flux

import (
	"time"

	"github.com/LionsGamesStudio/flux/pkg/flux/event"
	"github.com/LionsGamesStudio/flux/pkg/flux/observability"
)

// engineConfig holds configuration for an Engine.
type engineConfig struct {
	maxStepsPerTick int
	metrics         observability.MetricsRecorder
	spans           observability.SpanManager
	tracingEnabled  bool
	bus             *event.Bus
	clock           func() time.Time
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() engineConfig {
	return engineConfig{
		maxStepsPerTick: 10000,
		metrics:         observability.NoopMetrics{},
		spans:           observability.NoopSpanManager{},
		clock:           time.Now,
	}
}

// Option configures an Engine.
type Option func(*engineConfig)

// WithMaxStepsPerTick caps how many scheduling steps one Tick performs.
// Default: 10000.
//
// Tokens left pending when the budget runs out carry over to the next
// tick. This keeps intentional infinite loops alive without letting a
// runaway graph starve the host frame; Stop cancels them for good.
func WithMaxStepsPerTick(n int) Option {
	return func(c *engineConfig) {
		if n > 0 {
			c.maxStepsPerTick = n
		}
	}
}

// WithMetrics sets the metrics recorder.
// Default: no-op. Use observability.NewMetricsRecorder() for OTel.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *engineConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithTracing enables OTel span creation for ticks and node
// activations, using the given span manager.
func WithTracing(sm observability.SpanManager) Option {
	return func(c *engineConfig) {
		if sm != nil {
			c.spans = sm
			c.tracingEnabled = true
		}
	}
}

// WithEventBus publishes token lifecycle events to the given bus.
// External observers (side-effecting adapters, loggers, editors)
// subscribe there rather than hooking the engine directly.
func WithEventBus(b *event.Bus) Option {
	return func(c *engineConfig) {
		c.bus = b
	}
}

// WithClock overrides the time source used for suspension waits.
// Tests inject a fake clock to drive timers deterministically.
func WithClock(now func() time.Time) Option {
	return func(c *engineConfig) {
		if now != nil {
			c.clock = now
		}
	}
}
