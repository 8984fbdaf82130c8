package flux

import (
	"log/slog"
	"math/rand"
	"time"
)

// continuation is one successor request produced by an activation:
// an output execution port to follow, plus values to carry in the
// successor tokens' local data stores.
type continuation struct {
	port string
	data map[string]any
}

// Activation is the per-invocation view a behavior gets when a token
// arrives at its node. It carries the resolved inputs and collects the
// behavior's outputs, continuations, and suspension requests.
//
// An Activation is valid only for the duration of one Activate call.
type Activation struct {
	ctx    Context
	engine *Engine
	graph  *Graph
	node   *Node
	token  *Token
	inputs Values

	next      []continuation
	suspended bool
}

// Context returns the node-scoped execution context.
func (a *Activation) Context() Context {
	return a.ctx
}

// Logger returns the node-scoped logger.
func (a *Activation) Logger() *slog.Logger {
	return a.ctx.Logger()
}

// Rand returns the run's random source.
func (a *Activation) Rand() *rand.Rand {
	return a.ctx.Rand()
}

// Node returns the node being activated.
func (a *Activation) Node() *Node {
	return a.node
}

// Graph returns the graph the node lives in.
func (a *Activation) Graph() *Graph {
	return a.graph
}

// Token returns the arriving token.
func (a *Activation) Token() *Token {
	return a.token
}

// Trigger returns the name of the input execution port the token
// arrived on, or "" for tokens spawned directly.
func (a *Activation) Trigger() string {
	return a.token.port
}

// In returns the resolved value of an input data port. Unconnected
// ports resolve to the token-local value under the port name, or the
// port's default.
func (a *Activation) In(name string) any {
	return a.inputs[name]
}

// Inputs returns all resolved input values.
func (a *Activation) Inputs() Values {
	return a.inputs
}

// Out publishes a value on an output data port. The value is recorded
// both on the node (last-published cache) and in the token's local
// store, so successor tokens in this token's lineage see exactly this
// invocation's value even when the node is activated reentrantly.
func (a *Activation) Out(name string, v any) {
	a.node.setCache(name, v)
	a.token.data[outputKey(a.node.ID, name)] = v
}

// IsConnected reports whether the named output port has at least one
// connection. Weighted branches use this to restrict the draw to
// connected candidates.
func (a *Activation) IsConnected(port string) bool {
	return a.graph.IsConnected(a.node.ID, port, Output)
}

// Continue requests that execution follow the named output execution
// port. Every connection wired to the port produces one successor
// token. Calling Continue multiple times fans out in call order.
func (a *Activation) Continue(port string) {
	a.next = append(a.next, continuation{port: port})
}

// ContinueWith is Continue plus per-successor token-local data: each
// key is stored in the successor tokens both under the bare name and
// under this node's qualified output key, so downstream nodes can read
// it either through an unconnected input of the same name or through a
// wire from this node's data output.
func (a *Activation) ContinueWith(port string, data map[string]any) {
	cp := make(map[string]any, len(data))
	for k, v := range data {
		cp[k] = v
	}
	a.next = append(a.next, continuation{port: port, data: cp})
}

// Sleep registers a one-shot wait: after d elapses, a fresh token is
// produced downstream of the named output execution port, carrying
// this token's call stack and data. The current token terminates at
// the suspension point.
//
// A node has at most one outstanding wait per owning context; starting
// a new wait replaces any previous one for the same node and context.
func (a *Activation) Sleep(port string, d time.Duration) {
	a.engine.scheduleWait(a, port, d, 0)
	a.suspended = true
}

// Every registers a repeating wait: a fresh token is produced
// downstream of the named output port every interval until the wait is
// cancelled. Restarting replaces the outstanding wait, so only one
// stream of continuations ever runs per node and context.
func (a *Activation) Every(port string, interval time.Duration) {
	a.engine.scheduleWait(a, port, interval, interval)
	a.suspended = true
}

// CancelWait cancels this node's outstanding wait for the current
// owning context, if any. Cancelling when no wait exists is a no-op.
func (a *Activation) CancelWait() {
	a.engine.cancelWait(a.node.ID, a.token.contextID())
}
