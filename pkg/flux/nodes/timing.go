package nodes

import (
	"time"

	flux "github.com/LionsGamesStudio/flux/pkg/flux"
	"github.com/LionsGamesStudio/flux/pkg/flux/config"
)

// Delay suspends the incoming token and resumes downstream of its
// "elapsed" output after a fixed duration. The original token
// terminates at the suspension point; resumption is a fresh token
// carrying the same call stack and data.
//
// Re-triggering a Delay before it elapses replaces the outstanding
// wait, so at most one continuation is ever pending per owning
// context.
type Delay struct {
	// Duration is the default wait when the node configuration does
	// not set "duration".
	Duration time.Duration
}

// Ports implements flux.Behavior.
func (*Delay) Ports(cfg config.Config) []flux.Port {
	return []flux.Port{
		flux.ExecIn("in"),
		flux.ExecOut("elapsed"),
	}
}

// Activate implements flux.Activator.
func (d *Delay) Activate(a *flux.Activation) error {
	wait := a.Node().Config.Duration("duration", d.Duration)
	a.Sleep("elapsed", wait)
	return nil
}

// Timer produces a repeating stream of continuations on its "tick"
// output. The "start" input begins (or restarts) the stream; the
// "stop" input cancels it.
//
// Starting an already-running timer cancels the outstanding wait
// before registering the new one, so only one stream of tick
// continuations is ever observed per node and owning context.
type Timer struct {
	// Interval is the default period when the node configuration does
	// not set "interval".
	Interval time.Duration
}

// Ports implements flux.Behavior.
func (*Timer) Ports(cfg config.Config) []flux.Port {
	return []flux.Port{
		flux.ExecIn("start"),
		flux.ExecIn("stop"),
		flux.ExecOut("tick"),
	}
}

// Activate implements flux.Activator.
func (t *Timer) Activate(a *flux.Activation) error {
	if a.Trigger() == "stop" {
		a.CancelWait()
		return nil
	}
	interval := a.Node().Config.Duration("interval", t.Interval)
	a.Every("tick", interval)
	return nil
}
