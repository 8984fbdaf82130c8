package flux

import (
	"fmt"

	"github.com/LionsGamesStudio/flux/pkg/flux/config"
	"github.com/LionsGamesStudio/flux/pkg/flux/observability"
)

// Names of the fixed execution ports on sub-graph nodes.
const (
	// CallPort triggers a CallGraph node.
	CallPort = "call"
	// ReturnedPort fires when the called graph exits.
	ReturnedPort = "returned"
	// EntryNextPort is a GraphEntry node's execution output.
	EntryNextPort = "next"
	// ExitPort triggers a GraphExit node.
	ExitPort = "exit"
)

// CallGraph invokes another graph as a function. Its target is an
// opaque handle; the engine does not care how it was resolved.
//
// CallGraph is port-dynamic: its data inputs mirror the target entry
// node's declared outputs, and its data outputs mirror the target exit
// node's declared inputs. After retargeting, call RebuildPorts on the
// owning node; stale wires become validation errors.
//
// Calls are reentrant: two tokens may be inside the same target graph
// concurrently, each returning to its own call site with its own
// mapped outputs. All per-invocation state rides on the token.
type CallGraph struct {
	// Target is the graph to invoke.
	Target *Graph
}

// Ports implements Behavior.
func (b *CallGraph) Ports(cfg config.Config) []Port {
	ports := []Port{ExecIn(CallPort), ExecOut(ReturnedPort)}
	if b.Target == nil {
		return ports
	}

	if entry, ok := b.Target.findEntry(); ok {
		for _, p := range entry.Outputs() {
			if p.Kind != KindData {
				continue
			}
			in := DataIn(p.Name, p.Type)
			in.Default = p.Default
			ports = append(ports, in)
		}
	}
	if exit, ok := b.Target.findExit(); ok {
		for _, p := range exit.Inputs() {
			if p.Kind != KindData {
				continue
			}
			out := DataOut(p.Name, p.Type)
			out.Default = p.Default
			ports = append(ports, out)
		}
	}
	return ports
}

// Activate implements Activator: push a return frame and redirect the
// token into the target graph's entry node, carrying the call's input
// values as the entry node's output values.
func (b *CallGraph) Activate(a *Activation) error {
	if b.Target == nil {
		return ErrNoTargetGraph
	}
	entry, ok := b.Target.findEntry()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoEntryNode, b.Target.Name)
	}

	args := make(map[string]any)
	for _, p := range a.node.Inputs() {
		if p.Kind != KindData {
			continue
		}
		args[p.Name] = a.In(p.Name)
	}

	a.callInto(b.Target, entry, args)
	return nil
}

// GraphEntry marks a graph's entry point and declares the values the
// graph receives. Its declared data outputs are what a CallGraph node
// mirrors as inputs.
type GraphEntry struct {
	// Outputs are the declared data outputs (argument ports).
	// Direction and kind are normalized; callers only need to set
	// Name, Type, and Default.
	Outputs []Port
}

// Ports implements Behavior.
func (b *GraphEntry) Ports(cfg config.Config) []Port {
	ports := []Port{ExecOut(EntryNextPort)}
	for _, p := range b.Outputs {
		out := DataOut(p.Name, p.Type)
		out.Label = p.Label
		out.Default = p.Default
		ports = append(ports, out)
	}
	return ports
}

// Activate implements Activator: publish the argument values carried
// by the token (mapped by the call node, or seeded by SpawnWith) and
// continue into the graph.
func (b *GraphEntry) Activate(a *Activation) error {
	for _, p := range a.node.Outputs() {
		if p.Kind != KindData {
			continue
		}
		v, ok := a.token.data[outputKey(a.node.ID, p.Name)]
		if !ok {
			if v, ok = a.token.data[p.Name]; !ok {
				v = p.Default
			}
		}
		a.Out(p.Name, v)
	}
	a.Continue(EntryNextPort)
	return nil
}

// GraphExit marks a graph's exit point and declares the values the
// graph returns. Its declared data inputs are what a CallGraph node
// mirrors as outputs.
type GraphExit struct {
	// Inputs are the declared data inputs (result ports). Direction
	// and kind are normalized; callers only need to set Name, Type,
	// and Default.
	Inputs []Port
}

// Ports implements Behavior.
func (b *GraphExit) Ports(cfg config.Config) []Port {
	ports := []Port{ExecIn(ExitPort)}
	for _, p := range b.Inputs {
		in := DataIn(p.Name, p.Type)
		in.Label = p.Label
		in.Default = p.Default
		ports = append(ports, in)
	}
	return ports
}

// Activate implements Activator: map the declared inputs onto the
// calling node's outputs and resume the parent graph. With an empty
// call stack (top-level graph) the token simply completes.
func (b *GraphExit) Activate(a *Activation) error {
	results := make(map[string]any)
	for _, p := range a.node.Inputs() {
		if p.Kind != KindData {
			continue
		}
		results[p.Name] = a.In(p.Name)
	}
	a.returnFrom(results)
	return nil
}

// findExit returns the first node (in insertion order) whose behavior
// is a GraphExit.
func (g *Graph) findExit() (*Node, bool) {
	for _, id := range g.order {
		if _, ok := g.nodes[id].Behavior.(*GraphExit); ok {
			return g.nodes[id], true
		}
	}
	return nil, false
}

// callInto redirects execution into a sub-graph: a successor token is
// created inside target at its entry node, with this token's call
// stack plus a frame recording the call site. The argument values are
// stored in the successor's local data under the entry node's output
// keys, so the entry node publishes exactly this invocation's values.
func (a *Activation) callInto(target *Graph, entry *Node, args map[string]any) {
	nt := a.token.fork(entry.ID)
	nt.graph = target
	nt.port = ""
	nt.stack = append(nt.stack, frame{graph: a.graph, callID: a.node.ID})
	for name, v := range args {
		nt.data[name] = v
		nt.data[outputKey(entry.ID, name)] = v
	}
	a.engine.pending = append(a.engine.pending, nt)
	observability.LogSubgraphCall(a.ctx.Logger(), a.node.ID, target.Name)
}

// returnFrom pops the call stack and resumes the parent graph
// downstream of the call node's "returned" port, carrying the mapped
// result values. With no caller, the token completes where it is.
func (a *Activation) returnFrom(results map[string]any) {
	if len(a.token.stack) == 0 {
		return
	}

	fr := a.token.stack[len(a.token.stack)-1]
	callNode, ok := fr.graph.Node(fr.callID)
	if !ok {
		// Call site removed while the sub-graph ran; nothing to resume.
		observability.LogTokenDropped(a.ctx.Logger(), a.token.ID, fr.callID)
		return
	}

	for _, conn := range fr.graph.From(fr.callID, ReturnedPort) {
		nt := a.token.fork(conn.To)
		nt.graph = fr.graph
		nt.port = conn.ToPort
		nt.stack = nt.stack[:len(nt.stack)-1]
		for name, v := range results {
			nt.data[outputKey(fr.callID, name)] = v
		}
		a.engine.pending = append(a.engine.pending, nt)
	}

	// Last-published fallback for consumers outside this lineage.
	for name, v := range results {
		callNode.setCache(name, v)
	}
	observability.LogSubgraphReturn(a.ctx.Logger(), fr.callID, a.graph.Name)
}
