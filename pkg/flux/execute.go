package flux

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/LionsGamesStudio/flux/pkg/flux/event"
	"github.com/LionsGamesStudio/flux/pkg/flux/observability"
	"go.opentelemetry.io/otel/trace"
)

// Engine interprets a graph: it drives tokens from node to node,
// resolves data dependencies on demand, and manages suspension and
// sub-graph calls.
//
// Scheduling is single-threaded and cooperative, driven by the host
// calling Tick once per frame. Within one tick the engine drains its
// pending-token queue FIFO (up to the step budget); suspension points
// are the only places a token's progress crosses a tick boundary.
//
// Engine is not safe for concurrent use; call Spawn, Tick, and Stop
// from the host's tick goroutine.
type Engine struct {
	graph   *Graph
	cfg     engineConfig
	pending []*Token
	waits   *waitTable
	stopped bool
}

// NewEngine creates an engine for the given graph. The graph's
// topology must not change while the engine runs; call Validate
// before first use.
//
// Panics if graph is nil.
func NewEngine(graph *Graph, opts ...Option) *Engine {
	if graph == nil {
		panic("flux: engine graph cannot be nil")
	}

	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Engine{
		graph: graph,
		cfg:   cfg,
		waits: newWaitTable(),
	}
}

// Spawn enqueues a new token at an entry node of the engine's graph.
// The token runs on the next Tick.
func (e *Engine) Spawn(nodeID string) (*Token, error) {
	return e.SpawnWith(nodeID, nil)
}

// SpawnWith is Spawn with initial token-local data, typically the
// values a GraphEntry node publishes on its declared outputs.
func (e *Engine) SpawnWith(nodeID string, seed map[string]any) (*Token, error) {
	if e.stopped {
		return nil, ErrEngineStopped
	}
	if _, ok := e.graph.Node(nodeID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, nodeID)
	}

	tok := newToken(e.graph, nodeID)
	for k, v := range seed {
		tok.data[k] = v
	}
	e.pending = append(e.pending, tok)
	return tok, nil
}

// Stop cancels execution: pending tokens are dropped, outstanding
// waits are cancelled, and further Spawn calls fail. This is the only
// cross-token cancellation primitive; it is how the host force-cancels
// an intentional infinite loop.
func (e *Engine) Stop() {
	e.stopped = true
	e.pending = nil
	e.waits.clear()
}

// PendingCount returns how many tokens are queued for the next tick.
func (e *Engine) PendingCount() int {
	return len(e.pending)
}

// WaitingCount returns how many suspension waits are outstanding.
func (e *Engine) WaitingCount() int {
	return e.waits.len()
}

// TickReport summarizes one tick. Faults and data-cycle reports are
// surfaced here rather than as a Tick error: no per-token condition
// may stop the tick loop itself.
type TickReport struct {
	// Steps is the number of scheduling steps performed.
	Steps int
	// Completed counts tokens that reached the end of their chain.
	Completed int
	// Suspended counts tokens that terminated at a suspension point.
	Suspended int
	// Resumed counts tokens produced from due waits this tick.
	Resumed int
	// Pending is the queue length left over (step budget exhausted).
	Pending int
	// Faults lists node activation faults; each terminated one token
	// chain.
	Faults []*NodeFaultError
	// Cycles lists data-cycle reports; each aborted one data
	// resolution, substituting the port default.
	Cycles []*DataCycleError
}

// Tick advances execution by one host frame: due waits are promoted
// into fresh tokens, then the pending queue is drained FIFO up to the
// step budget. The host calls this once per frame.
//
// Tick never fails because of node behavior; the only errors are a
// nil context. A stopped engine ticks as a no-op.
func (e *Engine) Tick(ctx Context) (TickReport, error) {
	var rep TickReport

	if ctx == nil {
		return rep, ErrNilContext
	}
	if e.stopped {
		return rep, nil
	}

	start := time.Now()
	observability.LogTickStart(ctx.Logger(), ctx.RunID(), len(e.pending), e.waits.len())

	var tickCtx context.Context = ctx
	var tickSpan trace.Span
	if e.cfg.tracingEnabled {
		tickCtx, tickSpan = e.cfg.spans.StartTickSpan(ctx, e.graph.Name, ctx.RunID())
		defer tickSpan.End()
	}

	rep.Resumed = e.promoteWaits(e.cfg.clock())

	for len(e.pending) > 0 && rep.Steps < e.cfg.maxStepsPerTick {
		tok := e.pending[0]
		e.pending = e.pending[1:]
		e.step(tickCtx, ctx, tok, &rep)
		rep.Steps++
	}
	rep.Pending = len(e.pending)

	duration := time.Since(start)
	e.cfg.metrics.RecordTick(ctx, rep.Steps, duration)
	observability.LogTickComplete(ctx.Logger(), ctx.RunID(), rep.Steps, float64(duration.Milliseconds()))

	return rep, nil
}

// step runs one scheduling step: resolve the token's target node,
// pull its data inputs, invoke its behavior, and follow the
// continuations it produced.
func (e *Engine) step(tracingCtx context.Context, ctx Context, tok *Token, rep *TickReport) {
	tok.state = TokenRunning

	node, ok := tok.graph.Node(tok.node)
	if !ok {
		// The node was removed after the token was enqueued (component
		// teardown). Tolerated as a no-op, not a fault.
		tok.state = TokenCompleted
		observability.LogTokenDropped(ctx.Logger(), tok.ID, tok.node)
		return
	}

	nodeCtx := ctx
	if ec, isExec := ctx.(*executionContext); isExec {
		nodeCtx = ec.withNodeID(node.ID)
	}

	var nodeSpan trace.Span
	if e.cfg.tracingEnabled {
		_, nodeSpan = e.cfg.spans.StartNodeSpan(tracingCtx, node.ID)
	}
	observability.LogNodeStart(nodeCtx.Logger(), node.ID)
	nodeStart := time.Now()

	act, err := e.process(nodeCtx, tok, node, rep)

	nodeDuration := time.Since(nodeStart)
	e.cfg.metrics.RecordNodeActivation(tracingCtx, node.ID, nodeDuration, err)
	if e.cfg.tracingEnabled {
		e.cfg.spans.EndSpanWithError(nodeSpan, err)
	}

	if err != nil {
		fault := &NodeFaultError{NodeID: node.ID, TokenID: tok.ID, Err: err}
		tok.state = TokenFaulted
		rep.Faults = append(rep.Faults, fault)
		observability.LogNodeFault(nodeCtx.Logger(), node.ID, err)
		e.publish(event.TokenFaulted, node.ID, tok.ID, err.Error())
		return
	}

	observability.LogNodeComplete(nodeCtx.Logger(), node.ID, float64(nodeDuration.Milliseconds()))

	if act == nil {
		// Pure data node reached by control flow: outputs were
		// refreshed, nothing to follow.
		tok.state = TokenCompleted
		rep.Completed++
		return
	}

	spawned := e.follow(tok, node, act)

	switch {
	case act.suspended:
		tok.state = TokenSuspended
		rep.Suspended++
		e.publish(event.TokenSuspended, node.ID, tok.ID, "")
	default:
		tok.state = TokenCompleted
		if spawned == 0 {
			rep.Completed++
			e.publish(event.TokenCompleted, node.ID, tok.ID, "")
		}
	}
}

// process resolves inputs and invokes the node's behavior, converting
// panics into errors so a fault never escapes the tick loop.
// Returns the activation for Activator nodes, nil for Evaluators.
func (e *Engine) process(ctx Context, tok *Token, node *Node, rep *TickReport) (act *Activation, err error) {
	defer func() {
		if r := recover(); r != nil {
			act = nil
			err = &PanicError{
				NodeID: node.ID,
				Value:  r,
				Stack:  string(debug.Stack()),
			}
		}
	}()

	res := &resolver{engine: e, ctx: ctx, token: tok, seen: make(map[string]bool)}
	inputs := res.inputs(node)
	for _, cycle := range res.cycles {
		rep.Cycles = append(rep.Cycles, cycle)
		observability.LogDataCycle(ctx.Logger(), cycle.NodeID, cycle.Port)
	}

	switch b := node.Behavior.(type) {
	case Activator:
		a := &Activation{
			ctx:    ctx,
			engine: e,
			graph:  tok.graph,
			node:   node,
			token:  tok,
			inputs: inputs,
		}
		if err := b.Activate(a); err != nil {
			return nil, err
		}
		return a, nil
	case Evaluator:
		out := Values{}
		if err := b.Evaluate(ctx, inputs, out); err != nil {
			return nil, err
		}
		for name, v := range out {
			node.setCache(name, v)
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("node %s has no executable behavior", node.ID)
	}
}

// follow enqueues successor tokens for each continuation the
// activation produced, in the order they were requested. Every
// execution connection wired to an activated port yields one token;
// call stacks and data stores are copied per successor.
func (e *Engine) follow(tok *Token, node *Node, act *Activation) int {
	spawned := 0
	for _, c := range act.next {
		port, ok := node.Output(c.port)
		if !ok || port.Kind != KindExecution {
			observability.LogBadContinuation(act.ctx.Logger(), node.ID, c.port)
			continue
		}
		for _, conn := range tok.graph.From(node.ID, c.port) {
			nt := tok.fork(conn.To)
			nt.port = conn.ToPort
			for k, v := range c.data {
				nt.data[k] = v
				nt.data[outputKey(node.ID, k)] = v
			}
			e.pending = append(e.pending, nt)
			e.publish(event.TokenSpawned, conn.To, nt.ID, "")
			spawned++
		}
	}
	return spawned
}

// publish emits a lifecycle event if a bus is configured.
func (e *Engine) publish(t event.Type, nodeID, tokenID, detail string) {
	if e.cfg.bus == nil {
		return
	}
	e.cfg.bus.Publish(event.New(t, e.graph.Name, nodeID, tokenID, detail))
}

// resolver performs recursive, on-demand evaluation of data inputs.
// It tracks the in-progress evaluation stack so a data cycle fails
// that one resolution with a report instead of hanging.
type resolver struct {
	engine *Engine
	ctx    Context
	token  *Token
	seen   map[string]bool
	chain  []string
	cycles []*DataCycleError
}

// inputs resolves every data input port of node, in declared order.
func (r *resolver) inputs(node *Node) Values {
	vals := Values{}
	for _, p := range node.Inputs() {
		if p.Kind != KindData {
			continue
		}
		vals[p.Name] = Coerce(r.input(node, p), p.Type)
	}
	return vals
}

// input resolves a single data input port.
func (r *resolver) input(node *Node, p Port) any {
	conns := r.token.graph.Into(node.ID, p.Name)
	if len(conns) == 0 {
		// Unconnected: token-local value under the port name (loop
		// item/index, sub-graph argument), else the port default.
		if v, ok := r.token.data[p.Name]; ok {
			return v
		}
		return p.Default
	}

	if p.Capacity == Multi && len(conns) > 1 {
		vals := make([]any, 0, len(conns))
		for _, c := range conns {
			vals = append(vals, r.output(node, p, c.From, c.FromPort))
		}
		return vals
	}
	c := conns[0]
	return r.output(node, p, c.From, c.FromPort)
}

// output resolves the value presented by an upstream output port.
// Pure data nodes are re-evaluated on every request; other nodes
// present the value travelling with the token's lineage, falling back
// to their last-published cache and then the port default.
func (r *resolver) output(sink *Node, sinkPort Port, nodeID, port string) any {
	src, ok := r.token.graph.Node(nodeID)
	if !ok {
		return sinkPort.Default
	}

	ev, pure := src.Behavior.(Evaluator)
	if !pure {
		if v, present := r.token.data[outputKey(nodeID, port)]; present {
			return v
		}
		if v, present := src.cached(port); present {
			return v
		}
		if out, declared := src.Output(port); declared {
			return out.Default
		}
		return sinkPort.Default
	}

	if r.seen[nodeID] {
		r.cycles = append(r.cycles, &DataCycleError{
			NodeID: sink.ID,
			Port:   sinkPort.Name,
			Chain:  append(append([]string{}, r.chain...), nodeID),
		})
		return sinkPort.Default
	}
	r.seen[nodeID] = true
	r.chain = append(r.chain, nodeID)
	defer func() {
		delete(r.seen, nodeID)
		r.chain = r.chain[:len(r.chain)-1]
	}()

	in := r.inputs(src)
	out := Values{}
	if err := ev.Evaluate(r.ctx, in, out); err != nil {
		observability.LogDataError(r.ctx.Logger(), src.ID, err)
		return sinkPort.Default
	}
	if v, present := out[port]; present {
		return v
	}
	if outPort, declared := src.Output(port); declared {
		return outPort.Default
	}
	return sinkPort.Default
}
