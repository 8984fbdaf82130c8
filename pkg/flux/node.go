package flux

import (
	"fmt"

	"github.com/LionsGamesStudio/flux/pkg/flux/config"
)

// Position is a 2D layout position. It is carried for editors and is
// opaque to execution.
type Position struct {
	X float64
	Y float64
}

// Behavior describes what a node does. A behavior declares its port
// list and implements exactly one of the capability interfaces:
//
//   - Evaluator: a pure data node, recomputed on demand whenever a
//     downstream consumer pulls one of its outputs. Never triggered
//     by control flow and never memoized by the executor.
//   - Activator: an execution node. It receives an Activation when a
//     token arrives and decides its own continuations: one (stateless
//     node), many (fan-out), or none (dead end or suspension).
//
// The executor dispatches with a single type switch; behaviors never
// need to know about each other.
type Behavior interface {
	// Ports returns the node's current port list, derived from the
	// node's configuration. It is called once at construction and
	// again only on an explicit RebuildPorts request, never implicitly
	// during execution.
	Ports(cfg config.Config) []Port
}

// Evaluator is the capability interface for pure data nodes.
type Evaluator interface {
	Behavior

	// Evaluate computes output values from resolved input values.
	// It must not carry state between calls beyond the behavior's own
	// fields: the executor re-evaluates on every request.
	Evaluate(ctx Context, in Values, out Values) error
}

// Activator is the capability interface for execution and
// flow-control nodes.
type Activator interface {
	Behavior

	// Activate runs the node for one arriving token. Continuations,
	// suspension, and output publication all go through the
	// Activation. Returning an error faults the token.
	Activate(a *Activation) error
}

// Node is a unit of behavior in a graph: a stable identifier, a port
// list, and a Behavior. Nodes are created by an authoring tool and
// their topology is read-only during execution; only the node-local
// output cache is mutated, and only by the node's own activation.
type Node struct {
	// ID is the stable identifier the graph and connections address.
	ID string
	// Name is an optional display-name override.
	Name string
	// Category is the editor category path, e.g. "flow/loops".
	Category string
	// Pos is the editor layout position.
	Pos Position
	// Config holds the node's configuration fields. Port-dynamic
	// behaviors derive their port list from it.
	Config config.Config
	// Behavior is what the node does.
	Behavior Behavior

	inputs   []Port
	outputs  []Port
	inIndex  map[string]int
	outIndex map[string]int

	// cache holds the last published output values. Node-local state,
	// written only by this node's activation.
	cache Values
}

// NodeOption configures a Node at construction.
type NodeOption func(*Node)

// WithName sets the display name.
func WithName(name string) NodeOption {
	return func(n *Node) { n.Name = name }
}

// WithCategory sets the category path.
func WithCategory(category string) NodeOption {
	return func(n *Node) { n.Category = category }
}

// WithPosition sets the layout position.
func WithPosition(x, y float64) NodeOption {
	return func(n *Node) { n.Pos = Position{X: x, Y: y} }
}

// WithConfig sets the node configuration before ports are built.
func WithConfig(cfg config.Config) NodeOption {
	return func(n *Node) { n.Config = cfg }
}

// NewNode creates a node with the given stable ID and behavior, and
// builds its initial port list from the behavior.
//
// Panics if id is empty, behavior is nil, or the behavior declares a
// duplicate port name within one direction. These are programmer
// errors, not runtime conditions.
func NewNode(id string, b Behavior, opts ...NodeOption) *Node {
	if id == "" {
		panic("flux: node ID cannot be empty")
	}
	if b == nil {
		panic("flux: node behavior cannot be nil")
	}

	n := &Node{
		ID:       id,
		Config:   config.New(nil),
		Behavior: b,
	}
	for _, opt := range opts {
		opt(n)
	}

	n.RebuildPorts()
	return n
}

// RebuildPorts recomputes the node's port list from its behavior and
// current configuration. It replaces the previous port list entirely.
//
// Rebuilding is always explicit: an editor calls it after changing
// configuration fields. Execution binds to the port list as last
// published; a stale connection referencing a removed port is a
// validation error, not a runtime crash.
//
// Panics if the behavior declares a duplicate port name within one
// direction.
func (n *Node) RebuildPorts() {
	ports := n.Behavior.Ports(n.Config)

	inputs := make([]Port, 0, len(ports))
	outputs := make([]Port, 0, len(ports))
	inIndex := make(map[string]int)
	outIndex := make(map[string]int)

	for _, p := range ports {
		switch p.Direction {
		case Input:
			if _, dup := inIndex[p.Name]; dup {
				panic(fmt.Sprintf("flux: node %s declares duplicate input port %q", n.ID, p.Name))
			}
			inIndex[p.Name] = len(inputs)
			inputs = append(inputs, p)
		case Output:
			if _, dup := outIndex[p.Name]; dup {
				panic(fmt.Sprintf("flux: node %s declares duplicate output port %q", n.ID, p.Name))
			}
			outIndex[p.Name] = len(outputs)
			outputs = append(outputs, p)
		}
	}

	n.inputs = inputs
	n.outputs = outputs
	n.inIndex = inIndex
	n.outIndex = outIndex
}

// Inputs returns the ordered input port list.
// The returned slice is owned by the node; do not modify it.
func (n *Node) Inputs() []Port {
	return n.inputs
}

// Outputs returns the ordered output port list.
// The returned slice is owned by the node; do not modify it.
func (n *Node) Outputs() []Port {
	return n.outputs
}

// Input returns the input port with the given name.
func (n *Node) Input(name string) (Port, bool) {
	i, ok := n.inIndex[name]
	if !ok {
		return Port{}, false
	}
	return n.inputs[i], true
}

// Output returns the output port with the given name.
func (n *Node) Output(name string) (Port, bool) {
	i, ok := n.outIndex[name]
	if !ok {
		return Port{}, false
	}
	return n.outputs[i], true
}

// DisplayName returns the user override if set, otherwise the ID.
func (n *Node) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// setCache records a last-published output value.
func (n *Node) setCache(port string, v any) {
	if n.cache == nil {
		n.cache = Values{}
	}
	n.cache[port] = v
}

// cached returns the last published value for an output port.
func (n *Node) cached(port string) (any, bool) {
	v, ok := n.cache[port]
	return v, ok
}
