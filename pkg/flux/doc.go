/*
Package flux is a visual-scripting graph execution engine.

# Overview

flux interprets a graph of nodes as a program. Nodes carry typed,
named ports; data ports carry values, execution ports carry control
flow. Connections wire output ports to input ports. The Engine drives
execution tokens across the execution wires, pulling data-port values
on demand by recursively evaluating pure data nodes.

The engine is built around four ideas:

  - Tokens: every in-flight control-flow cursor is a Token with a
    private data store and a call stack. Flow-control nodes fork
    tokens; loops and concurrent sub-graph calls stay independent
    because nothing per-invocation lives on a node.
  - Cooperative ticks: the host calls Tick once per frame. The engine
    drains its pending queue FIFO; only suspension points (delays,
    timers) carry progress across frames.
  - Explicit suspension: a suspended token terminates at its node and
    a wait-table entry later produces a fresh token downstream. One
    outstanding wait per node and owning context; restarting replaces.
  - Fault isolation: node errors and panics terminate one token chain,
    are reported with the node identity, and never stop the tick loop.

# Basic Usage

Build a graph, validate it, then hand it to an Engine and tick:

	g := flux.NewGraph("door").
	    AddNode(flux.NewNode("toggle", &nodes.If{})).
	    AddNode(flux.NewNode("open", openBehavior)).
	    AddNode(flux.NewNode("close", closeBehavior)).
	    Connect("toggle", "true", "open", "in").
	    Connect("toggle", "false", "close", "in")

	if issues := g.Validate(); len(issues) > 0 {
	    log.Fatal(issues)
	}

	engine := flux.NewEngine(g)
	engine.Spawn("toggle")

	ctx := flux.NewContext(context.Background())
	for host.Running() {
	    engine.Tick(ctx)
	}

# Behaviors

A node's Behavior declares its ports and implements Evaluator (pure
data node, recomputed on demand) or Activator (execution node, drives
an Activation). Built-in flow-control behaviors live in the nodes
subpackage: weighted branches, sequences, for-each loops, delays, and
timers. Sub-graph call/entry/exit behaviors live here because they
manipulate token call stacks.

# Observability

Structured logging uses slog via the Context logger. Metrics and
tracing are OpenTelemetry, opt-in through WithMetrics and WithTracing.
Token lifecycle events can be published to an event.Bus.
*/
package flux
