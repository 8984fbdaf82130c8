package flux

import "fmt"

// Connection is a static wire from one node's output port to another
// node's input port. Nodes are addressed by stable ID and ports by
// name, so a connection survives port rebuilds (and turns into a
// validation error if the port it names is gone).
type Connection struct {
	// From is the source node ID.
	From string
	// FromPort is the source output port name.
	FromPort string
	// To is the destination node ID.
	To string
	// ToPort is the destination input port name.
	ToPort string
}

// String renders the connection as "from.port -> to.port".
func (c Connection) String() string {
	return fmt.Sprintf("%s.%s -> %s.%s", c.From, c.FromPort, c.To, c.ToPort)
}

// Graph is a set of nodes plus the connections between their named
// ports. It is built by an authoring tool, validated once, and
// read-only for the duration of an execution run.
//
// Execution-port cycles are legal (they express loops); the executor
// relies on token identity, not acyclicity, to make progress. Data
// cycles are rejected during resolution, not construction.
//
// Graph is not thread-safe during building. Build it from a single
// goroutine, validate, then hand it to an Engine.
type Graph struct {
	// Name identifies the graph, e.g. for sub-graph references and
	// log output.
	Name string

	nodes map[string]*Node
	order []string
	conns []Connection

	outgoing map[string]map[string][]Connection
	incoming map[string]map[string][]Connection
}

// NewGraph creates an empty graph.
func NewGraph(name string) *Graph {
	return &Graph{
		Name:     name,
		nodes:    make(map[string]*Node),
		outgoing: make(map[string]map[string][]Connection),
		incoming: make(map[string]map[string][]Connection),
	}
}

// AddNode adds a node to the graph. The graph owns the node from this
// point on. Returns the graph for chaining.
//
// Panics if the node is nil or its ID is already taken.
func (g *Graph) AddNode(n *Node) *Graph {
	if n == nil {
		panic("flux: cannot add nil node")
	}
	if _, exists := g.nodes[n.ID]; exists {
		panic(fmt.Sprintf("flux: duplicate node ID: %s", n.ID))
	}
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	return g
}

// Connect wires an output port to an input port and returns the graph
// for chaining.
//
// Panics if either node ID is unknown: wiring unknown nodes is a
// programmer error. Port existence and type compatibility are NOT
// checked here; ports may be rebuilt after wiring, so those checks
// belong to Validate.
func (g *Graph) Connect(from, fromPort, to, toPort string) *Graph {
	if _, ok := g.nodes[from]; !ok {
		panic(fmt.Sprintf("flux: connect from unknown node %q", from))
	}
	if _, ok := g.nodes[to]; !ok {
		panic(fmt.Sprintf("flux: connect to unknown node %q", to))
	}

	c := Connection{From: from, FromPort: fromPort, To: to, ToPort: toPort}
	g.conns = append(g.conns, c)

	if g.outgoing[from] == nil {
		g.outgoing[from] = make(map[string][]Connection)
	}
	g.outgoing[from][fromPort] = append(g.outgoing[from][fromPort], c)

	if g.incoming[to] == nil {
		g.incoming[to] = make(map[string][]Connection)
	}
	g.incoming[to][toPort] = append(g.incoming[to][toPort], c)

	return g
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Connections returns a copy of all connections in insertion order.
func (g *Graph) Connections() []Connection {
	out := make([]Connection, len(g.conns))
	copy(out, g.conns)
	return out
}

// From returns the connections leaving the named output port.
// The returned slice is owned by the graph; do not modify it.
func (g *Graph) From(nodeID, port string) []Connection {
	return g.outgoing[nodeID][port]
}

// Into returns the connections entering the named input port.
// The returned slice is owned by the graph; do not modify it.
func (g *Graph) Into(nodeID, port string) []Connection {
	return g.incoming[nodeID][port]
}

// IsConnected reports whether the named port has at least one
// connection in the given direction.
func (g *Graph) IsConnected(nodeID, port string, dir Direction) bool {
	if dir == Output {
		return len(g.outgoing[nodeID][port]) > 0
	}
	return len(g.incoming[nodeID][port]) > 0
}

// findEntry returns the first node (in insertion order) whose behavior
// is a GraphEntry. Used when a call node redirects a token into this
// graph.
func (g *Graph) findEntry() (*Node, bool) {
	for _, id := range g.order {
		if _, ok := g.nodes[id].Behavior.(*GraphEntry); ok {
			return g.nodes[id], true
		}
	}
	return nil, false
}
