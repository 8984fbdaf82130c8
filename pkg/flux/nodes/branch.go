// Package nodes provides the built-in node behavior library:
// branches, sequences, loops, timers, and pure data nodes.
package nodes

import (
	flux "github.com/LionsGamesStudio/flux/pkg/flux"
	"github.com/LionsGamesStudio/flux/pkg/flux/config"
)

// BranchOut is one candidate output of a weighted Branch.
type BranchOut struct {
	// Name is the execution output port name.
	Name string
	// Weight is the relative probability weight. Zero or negative
	// means "unset": the port draws with weight 1.
	Weight float64
}

// Branch picks exactly one of several weighted execution outputs.
//
// Selection is a weighted random draw over the outputs that are
// currently connected; weights are relative and normalized by the sum
// over connected candidates only. With no connected outputs the node
// performs no continuation.
type Branch struct {
	// Outs are the candidate outputs in declared order.
	Outs []BranchOut
}

// Ports implements flux.Behavior.
func (b *Branch) Ports(cfg config.Config) []flux.Port {
	ports := []flux.Port{flux.ExecIn("in")}
	for _, out := range b.Outs {
		ports = append(ports, flux.ExecOut(out.Name).WithWeight(out.Weight))
	}
	return ports
}

// Activate implements flux.Activator.
func (b *Branch) Activate(a *flux.Activation) error {
	var candidates []BranchOut
	var sum float64
	for _, out := range b.Outs {
		if !a.IsConnected(out.Name) {
			continue
		}
		w := out.Weight
		if w <= 0 {
			w = 1
		}
		candidates = append(candidates, BranchOut{Name: out.Name, Weight: w})
		sum += w
	}
	if len(candidates) == 0 {
		return nil
	}

	r := a.Rand().Float64() * sum
	for _, c := range candidates {
		r -= c.Weight
		if r < 0 {
			a.Continue(c.Name)
			return nil
		}
	}
	// Floating-point leftovers land on the last candidate.
	a.Continue(candidates[len(candidates)-1].Name)
	return nil
}

// If routes control flow by a boolean condition: the "true" output
// when the condition is truthy, the "false" output otherwise.
type If struct{}

// Ports implements flux.Behavior.
func (*If) Ports(cfg config.Config) []flux.Port {
	return []flux.Port{
		flux.ExecIn("in"),
		flux.DataIn("cond", flux.TypeBool),
		flux.ExecOut("true"),
		flux.ExecOut("false"),
	}
}

// Activate implements flux.Activator.
func (*If) Activate(a *flux.Activation) error {
	if flux.Truthy(a.In("cond")) {
		a.Continue("true")
	} else {
		a.Continue("false")
	}
	return nil
}
