package benchmarks

import (
	"fmt"
	"testing"

	"github.com/LionsGamesStudio/flux/pkg/flux"
	"github.com/LionsGamesStudio/flux/pkg/flux/config"
)

// noop does minimal work to measure framework overhead.
type noop struct{}

func (noop) Ports(cfg config.Config) []flux.Port {
	return []flux.Port{
		flux.ExecIn("in"),
		flux.ExecOut("out"),
	}
}

func (noop) Activate(a *flux.Activation) error {
	a.Continue("out")
	return nil
}

func nodeID(i int) string {
	return fmt.Sprintf("node-%d", i)
}

// buildLinearGraph builds an n-node chain of noop nodes.
func buildLinearGraph(n int) *flux.Graph {
	g := flux.NewGraph("bench")
	for i := 0; i < n; i++ {
		g.AddNode(flux.NewNode(nodeID(i), noop{}))
	}
	for i := 1; i < n; i++ {
		g.Connect(nodeID(i-1), "out", nodeID(i), "in")
	}
	return g
}

// BenchmarkNewGraph measures graph creation overhead.
func BenchmarkNewGraph(b *testing.B) {
	for i := 0; i < b.N; i++ {
		flux.NewGraph("bench")
	}
}

// BenchmarkAddNode measures node addition overhead.
func BenchmarkAddNode(b *testing.B) {
	for i := 0; i < b.N; i++ {
		graph := flux.NewGraph("bench")
		graph.AddNode(flux.NewNode("node", noop{}))
	}
}

// BenchmarkAddNode_100 measures adding 100 nodes.
func BenchmarkAddNode_100(b *testing.B) {
	for i := 0; i < b.N; i++ {
		graph := flux.NewGraph("bench")
		for j := 0; j < 100; j++ {
			graph.AddNode(flux.NewNode(nodeID(j), noop{}))
		}
	}
}

// BenchmarkBuildLinear_100 measures building a full 100-node chain.
func BenchmarkBuildLinear_100(b *testing.B) {
	for i := 0; i < b.N; i++ {
		buildLinearGraph(100)
	}
}

// BenchmarkValidate_Linear_5 validates a 5-node linear graph.
func BenchmarkValidate_Linear_5(b *testing.B) {
	graph := buildLinearGraph(5)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = graph.Validate()
	}
}

// BenchmarkValidate_Linear_100 validates a 100-node linear graph.
func BenchmarkValidate_Linear_100(b *testing.B) {
	graph := buildLinearGraph(100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = graph.Validate()
	}
}
