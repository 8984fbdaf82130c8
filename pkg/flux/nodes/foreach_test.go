package nodes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	flux "github.com/LionsGamesStudio/flux/pkg/flux"
)

// TestForEach_IteratesInOrder tests one body token per element, in
// collection order, followed by exactly one done token.
func TestForEach_IteratesInOrder(t *testing.T) {
	var seen []flux.Values
	var hits []string
	body := inputProbe(&seen,
		flux.DataIn("item", flux.TypeAny),
		flux.DataIn("index", flux.TypeInt))
	body.hits = &hits

	g := flux.NewGraph("foreach").
		AddNode(flux.NewNode("items", &constList{items: []any{"a", "b", "c"}})).
		AddNode(flux.NewNode("each", &ForEach{})).
		AddNode(flux.NewNode("body", body)).
		AddNode(flux.NewNode("done", sink(&hits))).
		Connect("items", "value", "each", "items").
		Connect("each", "body", "body", "in").
		Connect("each", "item", "body", "item").
		Connect("each", "index", "body", "index").
		Connect("each", "done", "done", "in")
	require.True(t, g.Valid())

	e := flux.NewEngine(g)
	_, err := e.Spawn("each")
	require.NoError(t, err)

	rep, err := e.Tick(testCtx())
	require.NoError(t, err)
	assert.Empty(t, rep.Faults)

	// Three body activations, then the done activation last.
	assert.Equal(t, []string{"body", "body", "body", "done"}, hits)
	require.Len(t, seen, 3)
	for i, want := range []string{"a", "b", "c"} {
		assert.Equal(t, want, seen[i]["item"])
		assert.Equal(t, i, seen[i]["index"])
	}
}

// TestForEach_EmptyCollection tests that an empty collection yields no
// body tokens and still fires done.
func TestForEach_EmptyCollection(t *testing.T) {
	var hits []string
	g := flux.NewGraph("empty").
		AddNode(flux.NewNode("items", &constList{items: nil})).
		AddNode(flux.NewNode("each", &ForEach{})).
		AddNode(flux.NewNode("body", sink(&hits))).
		AddNode(flux.NewNode("done", sink(&hits))).
		Connect("items", "value", "each", "items").
		Connect("each", "body", "body", "in").
		Connect("each", "done", "done", "in")

	e := flux.NewEngine(g)
	_, err := e.Spawn("each")
	require.NoError(t, err)
	_, err = e.Tick(testCtx())
	require.NoError(t, err)

	assert.Equal(t, []string{"done"}, hits)
}

// TestForEach_NestedLoopsAreIndependent tests that an inner loop's
// item does not clobber the outer loop's item for later body tokens.
func TestForEach_NestedLoopsAreIndependent(t *testing.T) {
	var pairs []flux.Values
	inner := inputProbe(&pairs,
		flux.DataIn("item", flux.TypeAny),
		flux.DataIn("outer", flux.TypeAny))

	g := flux.NewGraph("nested").
		AddNode(flux.NewNode("outerItems", &constList{items: []any{"x", "y"}})).
		AddNode(flux.NewNode("innerItems", &constList{items: []any{1, 2}})).
		AddNode(flux.NewNode("outerLoop", &ForEach{})).
		AddNode(flux.NewNode("innerLoop", &ForEach{})).
		AddNode(flux.NewNode("use", inner)).
		Connect("outerItems", "value", "outerLoop", "items").
		Connect("innerItems", "value", "innerLoop", "items").
		Connect("outerLoop", "body", "innerLoop", "in").
		Connect("innerLoop", "body", "use", "in").
		Connect("innerLoop", "item", "use", "item").
		Connect("outerLoop", "item", "use", "outer")

	e := flux.NewEngine(g)
	_, err := e.Spawn("outerLoop")
	require.NoError(t, err)
	_, err = e.Tick(testCtx())
	require.NoError(t, err)

	require.Len(t, pairs, 4)
	want := []struct {
		outer string
		item  int
	}{
		{"x", 1}, {"x", 2}, {"y", 1}, {"y", 2},
	}
	for i, w := range want {
		assert.Equal(t, w.outer, pairs[i]["outer"], "pair %d", i)
		assert.Equal(t, w.item, pairs[i]["item"], "pair %d", i)
	}
}
