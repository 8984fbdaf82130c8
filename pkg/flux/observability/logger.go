// Package observability provides structured logging, metrics, and
// tracing for the flux engine.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import "log/slog"

// LogTickStart logs the start of an engine tick.
func LogTickStart(logger *slog.Logger, runID string, pending, waiting int) {
	if logger == nil {
		return
	}
	logger.Debug("tick starting",
		slog.String("run_id", runID),
		slog.Int("pending_tokens", pending),
		slog.Int("outstanding_waits", waiting),
	)
}

// LogTickComplete logs tick completion.
func LogTickComplete(logger *slog.Logger, runID string, steps int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("tick completed",
		slog.String("run_id", runID),
		slog.Int("steps", steps),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogNodeStart logs a node activation start.
func LogNodeStart(logger *slog.Logger, nodeID string) {
	if logger == nil {
		return
	}
	logger.Debug("node activating",
		slog.String("node_id", nodeID),
	)
}

// LogNodeComplete logs a successful node activation.
func LogNodeComplete(logger *slog.Logger, nodeID string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("node completed",
		slog.String("node_id", nodeID),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogNodeFault logs a node activation fault. The token chain is
// terminated; other tokens continue.
func LogNodeFault(logger *slog.Logger, nodeID string, err error) {
	if logger == nil {
		return
	}
	logger.Error("node faulted",
		slog.String("node_id", nodeID),
		slog.String("error", err.Error()),
	)
}

// LogTokenDropped logs a token discarded because its target node no
// longer exists. Tolerated as a no-op.
func LogTokenDropped(logger *slog.Logger, tokenID, nodeID string) {
	if logger == nil {
		return
	}
	logger.Debug("token dropped, target node gone",
		slog.String("token_id", tokenID),
		slog.String("node_id", nodeID),
	)
}

// LogDataCycle logs a cycle found during recursive data resolution.
// Only that resolution failed; the port fell back to its default.
func LogDataCycle(logger *slog.Logger, nodeID, port string) {
	if logger == nil {
		return
	}
	logger.Warn("data cycle detected",
		slog.String("node_id", nodeID),
		slog.String("port", port),
	)
}

// LogDataError logs a pure data node that failed to evaluate during
// resolution. The consumer fell back to the port default.
func LogDataError(logger *slog.Logger, nodeID string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("data node evaluation failed",
		slog.String("node_id", nodeID),
		slog.String("error", err.Error()),
	)
}

// LogBadContinuation logs a continuation request naming a port that is
// not an execution output. The request is skipped.
func LogBadContinuation(logger *slog.Logger, nodeID, port string) {
	if logger == nil {
		return
	}
	logger.Warn("continuation on non-execution port",
		slog.String("node_id", nodeID),
		slog.String("port", port),
	)
}

// LogWaitScheduled logs a suspension wait registration.
func LogWaitScheduled(logger *slog.Logger, nodeID string, delayMs float64, repeating bool) {
	if logger == nil {
		return
	}
	logger.Debug("wait scheduled",
		slog.String("node_id", nodeID),
		slog.Float64("delay_ms", delayMs),
		slog.Bool("repeating", repeating),
	)
}

// LogSubgraphCall logs a token entering a sub-graph.
func LogSubgraphCall(logger *slog.Logger, callNodeID, graphName string) {
	if logger == nil {
		return
	}
	logger.Debug("entering sub-graph",
		slog.String("call_node", callNodeID),
		slog.String("graph", graphName),
	)
}

// LogSubgraphReturn logs a token returning to its call site.
func LogSubgraphReturn(logger *slog.Logger, callNodeID, graphName string) {
	if logger == nil {
		return
	}
	logger.Debug("returning from sub-graph",
		slog.String("call_node", callNodeID),
		slog.String("graph", graphName),
	)
}
