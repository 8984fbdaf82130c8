package flux

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LionsGamesStudio/flux/pkg/flux/config"
)

// Test behaviors used across tests

// execBehavior is an Activator built from a port list and a function.
type execBehavior struct {
	ports    []Port
	activate func(a *Activation) error
}

func (b *execBehavior) Ports(cfg config.Config) []Port { return b.ports }

func (b *execBehavior) Activate(a *Activation) error { return b.activate(a) }

// dataBehavior is an Evaluator built from a port list and a function.
type dataBehavior struct {
	ports []Port
	eval  func(ctx Context, in Values, out Values) error
}

func (b *dataBehavior) Ports(cfg config.Config) []Port { return b.ports }

func (b *dataBehavior) Evaluate(ctx Context, in Values, out Values) error {
	return b.eval(ctx, in, out)
}

// stepBehavior records its node ID in tracker and continues on "out".
func stepBehavior(tracker *[]string) *execBehavior {
	return &execBehavior{
		ports: []Port{ExecIn("in"), ExecOut("out")},
		activate: func(a *Activation) error {
			*tracker = append(*tracker, a.Node().ID)
			a.Continue("out")
			return nil
		},
	}
}

// sinkBehavior records its node ID and produces no continuation.
func sinkBehavior(tracker *[]string) *execBehavior {
	return &execBehavior{
		ports: []Port{ExecIn("in")},
		activate: func(a *Activation) error {
			*tracker = append(*tracker, a.Node().ID)
			return nil
		},
	}
}

// failingBehavior returns err on activation.
func failingBehavior(err error) *execBehavior {
	return &execBehavior{
		ports: []Port{ExecIn("in"), ExecOut("out")},
		activate: func(a *Activation) error {
			return err
		},
	}
}

// panicBehavior panics with value on activation.
func panicBehavior(value any) *execBehavior {
	return &execBehavior{
		ports: []Port{ExecIn("in"), ExecOut("out")},
		activate: func(a *Activation) error {
			panic(value)
		},
	}
}

// constBehavior is a pure data node publishing a fixed value on "value".
func constBehavior(t ValueType, v any) *dataBehavior {
	return &dataBehavior{
		ports: []Port{DataOut("value", t)},
		eval: func(ctx Context, in Values, out Values) error {
			out["value"] = v
			return nil
		},
	}
}

// testCtx returns a deterministic execution context for tests.
func testCtx() Context {
	return NewContext(context.Background(),
		WithRunID("test-run"),
		WithRand(rand.New(rand.NewSource(42))))
}

// drain ticks the engine until the pending queue is empty, failing the
// test if it does not settle within maxTicks.
func drain(t *testing.T, e *Engine, ctx Context, maxTicks int) TickReport {
	t.Helper()
	var last TickReport
	for i := 0; i < maxTicks; i++ {
		rep, err := e.Tick(ctx)
		require.NoError(t, err)
		last.Steps += rep.Steps
		last.Completed += rep.Completed
		last.Suspended += rep.Suspended
		last.Resumed += rep.Resumed
		last.Faults = append(last.Faults, rep.Faults...)
		last.Cycles = append(last.Cycles, rep.Cycles...)
		last.Pending = rep.Pending
		if rep.Pending == 0 {
			return last
		}
	}
	t.Fatalf("engine did not settle within %d ticks (%d pending)", maxTicks, e.PendingCount())
	return last
}
