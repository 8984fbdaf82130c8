package flux

import (
	"strings"

	"github.com/google/uuid"
)

// TokenState is the lifecycle state of a token.
type TokenState int

const (
	// TokenPending means the token is queued and waiting to run.
	TokenPending TokenState = iota
	// TokenRunning means the token is being processed this step.
	TokenRunning
	// TokenSuspended means the token terminated at a suspension point;
	// a registered wait will produce a fresh token later.
	TokenSuspended
	// TokenCompleted means the token reached a node with no further
	// successors, or returned from a top-level graph.
	TokenCompleted
	// TokenFaulted means the token's chain was terminated by a node
	// activation fault.
	TokenFaulted
)

// String returns the state name.
func (s TokenState) String() string {
	switch s {
	case TokenPending:
		return "pending"
	case TokenRunning:
		return "running"
	case TokenSuspended:
		return "suspended"
	case TokenCompleted:
		return "completed"
	case TokenFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// frame is one pending return context on a token's call stack.
// It records where to resume when the called sub-graph exits.
type frame struct {
	// graph is the calling graph.
	graph *Graph
	// callID is the call node ID inside the calling graph.
	callID string
}

// Token is a single in-flight control-flow cursor: the node it
// currently targets, a private data store, and a call stack of pending
// sub-graph returns.
//
// Token data is local to one token only. Flow-control nodes use it to
// carry per-iteration values (a loop item and index, a sub-graph
// argument) without polluting node state, which is what makes
// concurrent sub-graph invocations and loop bodies independent.
type Token struct {
	// ID is a unique identifier, used in logs and fault reports.
	ID string

	state TokenState
	graph *Graph
	node  string
	// port is the input execution port the token arrived on, or ""
	// for tokens spawned directly at an entry node.
	port  string
	data  map[string]any
	stack []frame
}

// newTokenID generates a token identifier.
func newTokenID() string {
	return uuid.New().String()
}

// newToken creates a pending token targeting a node in a graph.
func newToken(g *Graph, nodeID string) *Token {
	return &Token{
		ID:    newTokenID(),
		state: TokenPending,
		graph: g,
		node:  nodeID,
		data:  make(map[string]any),
	}
}

// fork creates a new pending token targeting nodeID in the same graph,
// with copies of this token's data store and call stack. Copies, not
// shares: each forked token must be able to diverge and return
// independently.
func (t *Token) fork(nodeID string) *Token {
	nt := &Token{
		ID:    newTokenID(),
		state: TokenPending,
		graph: t.graph,
		node:  nodeID,
		data:  make(map[string]any, len(t.data)),
		stack: make([]frame, len(t.stack)),
	}
	for k, v := range t.data {
		nt.data[k] = v
	}
	copy(nt.stack, t.stack)
	return nt
}

// State returns the token's lifecycle state.
func (t *Token) State() TokenState {
	return t.state
}

// Node returns the ID of the node the token currently targets.
func (t *Token) Node() string {
	return t.node
}

// Graph returns the graph the token is currently executing in.
func (t *Token) Graph() *Graph {
	return t.graph
}

// Depth returns the call stack depth.
func (t *Token) Depth() int {
	return len(t.stack)
}

// Value returns a token-local value and whether it is present.
func (t *Token) Value(key string) (any, bool) {
	v, ok := t.data[key]
	return v, ok
}

// SetValue stores a token-local value under key.
func (t *Token) SetValue(key string, v any) {
	t.data[key] = v
}

// contextID is the token's owning-context fingerprint: the chain of
// call node IDs from the top-level graph down to the current
// invocation. Two tokens inside the same sub-graph via different call
// sites get different fingerprints, so their waits never collide.
func (t *Token) contextID() string {
	if len(t.stack) == 0 {
		return ""
	}
	ids := make([]string, len(t.stack))
	for i, f := range t.stack {
		ids[i] = f.callID
	}
	return strings.Join(ids, "/")
}

// outputKey is the token-data key under which a node's published
// output value travels with the token's lineage.
func outputKey(nodeID, port string) string {
	return nodeID + ":" + port
}
