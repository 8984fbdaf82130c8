package nodes

import (
	"fmt"

	flux "github.com/LionsGamesStudio/flux/pkg/flux"
	"github.com/LionsGamesStudio/flux/pkg/flux/config"
)

// Sequence fans out to N execution outputs in declared index order
// within the same scheduling step.
//
// Sequence is port-dynamic: the output count comes from the node's
// "steps" configuration field (falling back to the Steps field, then
// to 2). Changing it requires an explicit RebuildPorts.
type Sequence struct {
	// Steps is the default output count when the node configuration
	// does not set "steps".
	Steps int
}

// stepPort names the i-th output of a sequence node.
func stepPort(i int) string {
	return fmt.Sprintf("then_%d", i)
}

// count returns the effective output count.
func (s *Sequence) count(cfg config.Config) int {
	n := cfg.Int("steps", s.Steps)
	if n <= 0 {
		n = 2
	}
	return n
}

// Ports implements flux.Behavior.
func (s *Sequence) Ports(cfg config.Config) []flux.Port {
	ports := []flux.Port{flux.ExecIn("in")}
	for i := 0; i < s.count(cfg); i++ {
		ports = append(ports, flux.ExecOut(stepPort(i)))
	}
	return ports
}

// Activate implements flux.Activator: one continuation per output, in
// index order. The engine enqueues successors FIFO, so downstream
// tokens run in declared order.
func (s *Sequence) Activate(a *flux.Activation) error {
	for i := 0; i < s.count(a.Node().Config); i++ {
		a.Continue(stepPort(i))
	}
	return nil
}
