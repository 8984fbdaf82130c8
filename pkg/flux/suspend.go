package flux

import (
	"sort"
	"time"

	"github.com/LionsGamesStudio/flux/pkg/flux/observability"
)

// waitKey identifies a wait's owner: one node instance in one owning
// context. A node has at most one outstanding wait per key.
type waitKey struct {
	node string
	ctx  string
}

// wait is one scheduled resumption. When due, the engine produces
// fresh tokens downstream of the node's output port, carrying the
// suspended token's call stack and data. The original token is gone;
// resumption is always a new token.
type wait struct {
	key   waitKey
	graph *Graph
	port  string
	dueAt time.Time
	// every is the repeat interval; zero means one-shot.
	every time.Duration
	stack []frame
	data  map[string]any
}

// waitTable is the suspended-wait registry, keyed by (node, context).
// Single-threaded like the rest of the engine; the tick loop is the
// only caller.
type waitTable struct {
	entries map[waitKey]*wait
}

func newWaitTable() *waitTable {
	return &waitTable{entries: make(map[waitKey]*wait)}
}

// set registers a wait, replacing any outstanding wait for the same
// key. Replacement is what gives timers cancel-on-restart semantics.
func (wt *waitTable) set(w *wait) {
	wt.entries[w.key] = w
}

// cancel removes the wait for key. Returns whether one existed.
func (wt *waitTable) cancel(key waitKey) bool {
	if _, ok := wt.entries[key]; !ok {
		return false
	}
	delete(wt.entries, key)
	return true
}

// clear drops every outstanding wait.
func (wt *waitTable) clear() {
	wt.entries = make(map[waitKey]*wait)
}

// len returns the number of outstanding waits.
func (wt *waitTable) len() int {
	return len(wt.entries)
}

// due returns the waits that are ready at now, ordered by due time
// (ties broken by key) so resumption order is deterministic.
// One-shot entries are removed; repeating entries are rescheduled
// relative to now.
func (wt *waitTable) due(now time.Time) []*wait {
	var ready []*wait
	for _, w := range wt.entries {
		if !w.dueAt.After(now) {
			ready = append(ready, w)
		}
	}

	sort.Slice(ready, func(i, j int) bool {
		if !ready[i].dueAt.Equal(ready[j].dueAt) {
			return ready[i].dueAt.Before(ready[j].dueAt)
		}
		if ready[i].key.node != ready[j].key.node {
			return ready[i].key.node < ready[j].key.node
		}
		return ready[i].key.ctx < ready[j].key.ctx
	})

	for _, w := range ready {
		if w.every > 0 {
			w.dueAt = now.Add(w.every)
		} else {
			delete(wt.entries, w.key)
		}
	}

	return ready
}

// scheduleWait registers a wait on behalf of an activation.
// Called from Activation.Sleep and Activation.Every.
func (e *Engine) scheduleWait(a *Activation, port string, d, every time.Duration) {
	w := &wait{
		key:   waitKey{node: a.node.ID, ctx: a.token.contextID()},
		graph: a.graph,
		port:  port,
		dueAt: e.cfg.clock().Add(d),
		every: every,
		stack: make([]frame, len(a.token.stack)),
		data:  make(map[string]any, len(a.token.data)),
	}
	copy(w.stack, a.token.stack)
	for k, v := range a.token.data {
		w.data[k] = v
	}
	e.waits.set(w)

	e.cfg.metrics.RecordWait(a.ctx, a.node.ID, every > 0)
	observability.LogWaitScheduled(a.ctx.Logger(), a.node.ID, float64(d.Milliseconds()), every > 0)
}

// cancelWait removes the outstanding wait for (nodeID, ctxID), if any.
func (e *Engine) cancelWait(nodeID, ctxID string) bool {
	return e.waits.cancel(waitKey{node: nodeID, ctx: ctxID})
}

// promoteWaits moves due waits into fresh pending tokens.
// A resumed token targets whatever is wired downstream of the waiting
// node's output port; an unwired port resumes into nothing.
func (e *Engine) promoteWaits(now time.Time) int {
	promoted := 0
	for _, w := range e.waits.due(now) {
		for _, conn := range w.graph.From(w.key.node, w.port) {
			nt := &Token{
				ID:    newTokenID(),
				state: TokenPending,
				graph: w.graph,
				node:  conn.To,
				port:  conn.ToPort,
				data:  make(map[string]any, len(w.data)),
				stack: make([]frame, len(w.stack)),
			}
			for k, v := range w.data {
				nt.data[k] = v
			}
			copy(nt.stack, w.stack)
			e.pending = append(e.pending, nt)
			promoted++
		}
	}
	return promoted
}
