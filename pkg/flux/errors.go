// Package flux provides a visual-scripting graph execution engine:
// typed ports, nodes, connections, and a cooperative token interpreter.
package flux

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for engine entry points.
var (
	// ErrNilContext indicates Tick or Spawn was called with a nil context.
	ErrNilContext = errors.New("context cannot be nil")

	// ErrEngineStopped indicates the engine was stopped and accepts no new tokens.
	ErrEngineStopped = errors.New("engine stopped")

	// ErrEntryNotFound indicates Spawn named a node that is not in the graph.
	ErrEntryNotFound = errors.New("entry node not found")
)

// Sentinel errors for sub-graph calls.
var (
	// ErrNoTargetGraph indicates a call node has no target graph configured.
	ErrNoTargetGraph = errors.New("call node has no target graph")

	// ErrNoEntryNode indicates a call target declares no entry node.
	ErrNoEntryNode = errors.New("target graph has no entry node")
)

// DataCycleError reports a cycle discovered while recursively resolving
// a data input. Only that single resolution fails; the port falls back
// to its default value and execution continues.
type DataCycleError struct {
	// NodeID is the node whose input was being resolved.
	NodeID string
	// Port is the input port name.
	Port string
	// Chain is the in-progress evaluation stack at detection, ending
	// with the node that closed the cycle.
	Chain []string
}

// Error implements the error interface.
func (e *DataCycleError) Error() string {
	return fmt.Sprintf("data cycle resolving %s.%s: %s",
		e.NodeID, e.Port, strings.Join(e.Chain, " -> "))
}

// NodeFaultError reports a node activation failure. The offending
// token's chain terminates; all other in-flight tokens continue.
type NodeFaultError struct {
	// NodeID is the node whose activation failed.
	NodeID string
	// TokenID is the token that was running the node.
	TokenID string
	// Err is the underlying error, possibly a *PanicError.
	Err error
}

// Error implements the error interface.
func (e *NodeFaultError) Error() string {
	return fmt.Sprintf("node %s faulted (token %s): %v", e.NodeID, e.TokenID, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *NodeFaultError) Unwrap() error {
	return e.Err
}

// PanicError captures a panic recovered during a node activation.
// It includes the stack trace for debugging.
type PanicError struct {
	// NodeID is the node that panicked.
	NodeID string
	// Value is the value passed to panic().
	Value any
	// Stack is the stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("node %s panicked: %v", e.NodeID, e.Value)
}
