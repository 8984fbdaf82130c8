package nodes

import (
	"context"
	"math/rand"
	"time"

	flux "github.com/LionsGamesStudio/flux/pkg/flux"
	"github.com/LionsGamesStudio/flux/pkg/flux/config"
)

// Test helpers shared by the node behavior tests

// probe is an Activator that records each activation's resolved
// inputs and node ID, then continues on "out" if it exists.
type probe struct {
	ports []flux.Port
	log   *[]flux.Values
	hits  *[]string
}

func (p *probe) Ports(cfg config.Config) []flux.Port { return p.ports }

func (p *probe) Activate(a *flux.Activation) error {
	if p.hits != nil {
		*p.hits = append(*p.hits, a.Node().ID)
	}
	if p.log != nil {
		vals := flux.Values{}
		for k, v := range a.Inputs() {
			vals[k] = v
		}
		*p.log = append(*p.log, vals)
	}
	if _, ok := a.Node().Output("out"); ok {
		a.Continue("out")
	}
	return nil
}

// sink records activations and terminates the chain.
func sink(hits *[]string) *probe {
	return &probe{ports: []flux.Port{flux.ExecIn("in")}, hits: hits}
}

// inputProbe records resolved inputs for the given data ports.
func inputProbe(log *[]flux.Values, ports ...flux.Port) *probe {
	all := append([]flux.Port{flux.ExecIn("in")}, ports...)
	return &probe{ports: all, log: log}
}

// constList is a pure data node publishing a fixed collection.
type constList struct {
	items []any
}

func (c *constList) Ports(cfg config.Config) []flux.Port {
	return []flux.Port{flux.DataOut("value", flux.TypeCollection)}
}

func (c *constList) Evaluate(ctx flux.Context, in flux.Values, out flux.Values) error {
	out["value"] = c.items
	return nil
}

// testCtx returns a deterministic execution context.
func testCtx() flux.Context {
	return seededCtx(42)
}

// seededCtx returns a context with a specific random seed.
func seededCtx(seed int64) flux.Context {
	return flux.NewContext(context.Background(),
		flux.WithRunID("test-run"),
		flux.WithRand(rand.New(rand.NewSource(seed))))
}

// fakeClock is a manually advanced time source.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
