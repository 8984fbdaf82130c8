package flux

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Context provides execution context to the engine and to node
// behaviors. It extends context.Context with run metadata and
// services.
//
// Context is immutable after creation. The engine derives per-node
// contexts with an enriched logger.
type Context interface {
	context.Context

	// Logger returns the configured logger, enriched with run and node
	// context. Never returns nil; defaults to slog.Default().
	Logger() *slog.Logger

	// RunID returns the unique identifier for this execution run.
	// Auto-generated if not configured.
	RunID() string

	// NodeID returns the node currently executing, or "" outside a
	// node activation.
	NodeID() string

	// Rand returns the random source used by weighted branches.
	// Seed it via WithRand for deterministic runs.
	Rand() *rand.Rand
}

// executionContext is the internal implementation of Context.
type executionContext struct {
	context.Context

	logger *slog.Logger
	runID  string
	nodeID string
	rng    *rand.Rand
}

// Logger returns the configured logger.
func (c *executionContext) Logger() *slog.Logger {
	return c.logger
}

// RunID returns the run identifier.
func (c *executionContext) RunID() string {
	return c.runID
}

// NodeID returns the current node identifier.
func (c *executionContext) NodeID() string {
	return c.nodeID
}

// Rand returns the run's random source.
func (c *executionContext) Rand() *rand.Rand {
	return c.rng
}

// ContextOption configures a Context.
type ContextOption func(*executionContext)

// WithLogger sets the logger for the context.
// The engine enriches it with run_id and node_id during execution.
func WithLogger(logger *slog.Logger) ContextOption {
	return func(c *executionContext) {
		c.logger = logger
	}
}

// WithRunID sets the run identifier. A UUID is generated if unset.
func WithRunID(id string) ContextOption {
	return func(c *executionContext) {
		c.runID = id
	}
}

// WithRand sets the random source used by weighted branch nodes.
// Tests seed this for deterministic selection frequencies.
func WithRand(rng *rand.Rand) ContextOption {
	return func(c *executionContext) {
		c.rng = rng
	}
}

// NewContext creates an execution context from a standard context.
//
// Example:
//
//	ctx := flux.NewContext(context.Background(),
//	    flux.WithLogger(myLogger),
//	    flux.WithRunID("run-123"))
func NewContext(ctx context.Context, opts ...ContextOption) Context {
	ec := &executionContext{
		Context: ctx,
		logger:  slog.Default(),
		runID:   uuid.New().String(),
	}

	for _, opt := range opts {
		opt(ec)
	}

	if ec.rng == nil {
		ec.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return ec
}

// withNodeID returns a derived context for one node activation.
func (c *executionContext) withNodeID(nodeID string) *executionContext {
	return &executionContext{
		Context: c.Context,
		logger:  c.logger.With("run_id", c.runID, "node_id", nodeID),
		runID:   c.runID,
		nodeID:  nodeID,
		rng:     c.rng,
	}
}
