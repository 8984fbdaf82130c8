package flux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGraph_Build tests node and connection bookkeeping.
func TestGraph_Build(t *testing.T) {
	var order []string
	g := NewGraph("build").
		AddNode(NewNode("a", stepBehavior(&order))).
		AddNode(NewNode("b", stepBehavior(&order))).
		AddNode(NewNode("c", sinkBehavior(&order))).
		Connect("a", "out", "b", "in").
		Connect("b", "out", "c", "in")

	assert.Len(t, g.Nodes(), 3)
	assert.Len(t, g.Connections(), 2)

	n, ok := g.Node("b")
	require.True(t, ok)
	assert.Equal(t, "b", n.ID)

	_, ok = g.Node("missing")
	assert.False(t, ok)

	from := g.From("a", "out")
	require.Len(t, from, 1)
	assert.Equal(t, "b", from[0].To)
	assert.Equal(t, "in", from[0].ToPort)

	into := g.Into("c", "in")
	require.Len(t, into, 1)
	assert.Equal(t, "b", into[0].From)

	assert.True(t, g.IsConnected("a", "out", Output))
	assert.False(t, g.IsConnected("c", "out", Output))
	assert.True(t, g.IsConnected("c", "in", Input))
}

// TestGraph_NodesInsertionOrder tests that Nodes preserves AddNode order.
func TestGraph_NodesInsertionOrder(t *testing.T) {
	var tr []string
	g := NewGraph("order")
	for _, id := range []string{"z", "m", "a"} {
		g.AddNode(NewNode(id, sinkBehavior(&tr)))
	}

	ids := make([]string, 0, 3)
	for _, n := range g.Nodes() {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"z", "m", "a"}, ids)
}

// TestGraph_AddNodePanics tests programmer-error panics on AddNode.
func TestGraph_AddNodePanics(t *testing.T) {
	var tr []string
	g := NewGraph("panics").AddNode(NewNode("a", sinkBehavior(&tr)))

	assert.Panics(t, func() { g.AddNode(nil) })
	assert.Panics(t, func() { g.AddNode(NewNode("a", sinkBehavior(&tr))) })
}

// TestGraph_ConnectUnknownNodePanics tests that wiring unknown nodes panics.
func TestGraph_ConnectUnknownNodePanics(t *testing.T) {
	var tr []string
	g := NewGraph("panics").AddNode(NewNode("a", stepBehavior(&tr)))

	assert.Panics(t, func() { g.Connect("a", "out", "ghost", "in") })
	assert.Panics(t, func() { g.Connect("ghost", "out", "a", "in") })

	// Unknown ports are deferred to Validate, not panics.
	assert.NotPanics(t, func() {
		g.AddNode(NewNode("b", sinkBehavior(&tr))).Connect("a", "nope", "b", "in")
	})
}

// TestGraph_ConnectionFanOut tests multiple wires from one port.
func TestGraph_ConnectionFanOut(t *testing.T) {
	var tr []string
	g := NewGraph("fan").
		AddNode(NewNode("src", stepBehavior(&tr))).
		AddNode(NewNode("d1", sinkBehavior(&tr))).
		AddNode(NewNode("d2", sinkBehavior(&tr))).
		Connect("src", "out", "d1", "in").
		Connect("src", "out", "d2", "in")

	conns := g.From("src", "out")
	require.Len(t, conns, 2)
	// Connection order is insertion order, which follow relies on.
	assert.Equal(t, "d1", conns[0].To)
	assert.Equal(t, "d2", conns[1].To)
}

// TestNewNode_Panics tests programmer-error panics on node construction.
func TestNewNode_Panics(t *testing.T) {
	var tr []string
	assert.Panics(t, func() { NewNode("", sinkBehavior(&tr)) })
	assert.Panics(t, func() { NewNode("x", nil) })

	dup := &execBehavior{
		ports:    []Port{ExecIn("in"), ExecIn("in")},
		activate: func(a *Activation) error { return nil },
	}
	assert.Panics(t, func() { NewNode("dup", dup) })

	// Same name across directions is fine.
	mirror := &execBehavior{
		ports:    []Port{ExecIn("go"), ExecOut("go")},
		activate: func(a *Activation) error { return nil },
	}
	assert.NotPanics(t, func() { NewNode("mirror", mirror) })
}

// TestNode_PortLookup tests named port access and display names.
func TestNode_PortLookup(t *testing.T) {
	b := &execBehavior{
		ports: []Port{
			ExecIn("in"),
			DataIn("count", TypeInt).WithDefault(1),
			ExecOut("out"),
		},
		activate: func(a *Activation) error { return nil },
	}
	n := NewNode("n", b, WithName("Counter"), WithCategory("flow/test"))

	p, ok := n.Input("count")
	require.True(t, ok)
	assert.Equal(t, TypeInt, p.Type)
	assert.Equal(t, 1, p.Default)

	_, ok = n.Output("count")
	assert.False(t, ok, "count is an input, not an output")

	assert.Len(t, n.Inputs(), 2)
	assert.Len(t, n.Outputs(), 1)
	assert.Equal(t, "Counter", n.DisplayName())
	assert.Equal(t, "flow/test", n.Category)

	n.Name = ""
	assert.Equal(t, "n", n.DisplayName())
}

// TestNode_RebuildPorts tests explicit port rebuilds after config changes.
func TestNode_RebuildPorts(t *testing.T) {
	b := &execBehavior{activate: func(a *Activation) error { return nil }}
	b.ports = []Port{ExecIn("in"), ExecOut("a"), ExecOut("b")}
	n := NewNode("n", b)
	assert.Len(t, n.Outputs(), 2)

	// Shrink the port list; the old "b" port must disappear.
	b.ports = []Port{ExecIn("in"), ExecOut("a")}
	n.RebuildPorts()
	assert.Len(t, n.Outputs(), 1)
	_, ok := n.Output("b")
	assert.False(t, ok)
}
