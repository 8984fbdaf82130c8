package flux

import "fmt"

// Issue is one validation failure, referencing the node (and port)
// it concerns.
type Issue struct {
	// Node is the offending node ID.
	Node string
	// Port is the offending port name, if the issue concerns a port.
	Port string
	// Msg describes the failure.
	Msg string
}

// String renders the issue for reports and logs.
func (i Issue) String() string {
	if i.Port != "" {
		return fmt.Sprintf("%s.%s: %s", i.Node, i.Port, i.Msg)
	}
	return fmt.Sprintf("%s: %s", i.Node, i.Msg)
}

// Validate checks the graph before execution and returns every issue
// found, in deterministic (insertion) order. It executes no node
// logic and has no side effects; run it once after authoring or after
// a port rebuild, not per tick.
//
// Checks:
//   - every required input port has an incoming connection
//   - Single-capacity inputs have at most one incoming connection
//   - every connection references nodes and ports that still exist
//     (catches stale wires after a dynamic port rebuild)
//   - every connection still satisfies CanConnect (catches edits made
//     after the wire was drawn)
//   - call nodes have a target with both an entry and an exit node
func (g *Graph) Validate() []Issue {
	var issues []Issue

	for _, id := range g.order {
		n := g.nodes[id]

		for _, p := range n.Inputs() {
			incoming := g.Into(n.ID, p.Name)
			if p.Required && len(incoming) == 0 {
				issues = append(issues, Issue{
					Node: n.ID, Port: p.Name,
					Msg: "required input is not connected",
				})
			}
			if p.Capacity == Single && len(incoming) > 1 {
				issues = append(issues, Issue{
					Node: n.ID, Port: p.Name,
					Msg: fmt.Sprintf("single-capacity input has %d connections", len(incoming)),
				})
			}
		}

		if call, isCall := n.Behavior.(*CallGraph); isCall {
			issues = append(issues, validateCall(n, call)...)
		}
	}

	for _, c := range g.conns {
		issues = append(issues, g.validateConnection(c)...)
	}

	return issues
}

// Valid reports whether the graph has no validation issues.
func (g *Graph) Valid() bool {
	return len(g.Validate()) == 0
}

// validateConnection checks one wire against the current port lists.
func (g *Graph) validateConnection(c Connection) []Issue {
	var issues []Issue

	from, ok := g.nodes[c.From]
	if !ok {
		return []Issue{{Node: c.From, Port: c.FromPort, Msg: "connection from unknown node"}}
	}
	to, ok := g.nodes[c.To]
	if !ok {
		return []Issue{{Node: c.To, Port: c.ToPort, Msg: "connection to unknown node"}}
	}

	src, ok := from.Output(c.FromPort)
	if !ok {
		issues = append(issues, Issue{
			Node: c.From, Port: c.FromPort,
			Msg: "connection references a missing output port",
		})
	}
	dst, ok2 := to.Input(c.ToPort)
	if !ok2 {
		issues = append(issues, Issue{
			Node: c.To, Port: c.ToPort,
			Msg: "connection references a missing input port",
		})
	}
	if len(issues) > 0 {
		return issues
	}

	if !CanConnect(src, dst) {
		issues = append(issues, Issue{
			Node: c.To, Port: c.ToPort,
			Msg: fmt.Sprintf("incompatible connection %s (%s %s -> %s %s)",
				c, src.Kind, src.Type, dst.Kind, dst.Type),
		})
	}
	return issues
}

// validateCall checks a call node's target for an entry and an exit.
func validateCall(n *Node, call *CallGraph) []Issue {
	if call.Target == nil {
		return []Issue{{Node: n.ID, Msg: "call node has no target graph"}}
	}
	var issues []Issue
	if _, ok := call.Target.findEntry(); !ok {
		issues = append(issues, Issue{
			Node: n.ID,
			Msg:  fmt.Sprintf("target graph %q has no entry node", call.Target.Name),
		})
	}
	if _, ok := call.Target.findExit(); !ok {
		issues = append(issues, Issue{
			Node: n.ID,
			Msg:  fmt.Sprintf("target graph %q has no exit node", call.Target.Name),
		})
	}
	return issues
}
