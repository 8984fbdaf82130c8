package nodes

import (
	flux "github.com/LionsGamesStudio/flux/pkg/flux"
	"github.com/LionsGamesStudio/flux/pkg/flux/config"
)

// ForEach yields one independent token per element of its "items"
// collection, each carrying the current element and index in its
// token-local data store, then a final token on the "done" output.
//
// Body tokens are forked, not shared: nested loops and sub-graph calls
// inside the body cannot see each other's item or index. The "item"
// and "index" data outputs resolve per-token, so wiring them into
// body nodes reads exactly that iteration's values.
type ForEach struct{}

// Ports implements flux.Behavior.
func (*ForEach) Ports(cfg config.Config) []flux.Port {
	return []flux.Port{
		flux.ExecIn("in"),
		flux.DataIn("items", flux.TypeCollection).WithRequired(),
		flux.ExecOut("body"),
		flux.DataOut("item", flux.TypeAny),
		flux.DataOut("index", flux.TypeInt),
		flux.ExecOut("done"),
	}
}

// Activate implements flux.Activator.
func (*ForEach) Activate(a *flux.Activation) error {
	items := flux.AsSlice(a.In("items"))
	for i, item := range items {
		a.ContinueWith("body", map[string]any{
			"item":  item,
			"index": i,
		})
	}
	a.Continue("done")
	return nil
}
