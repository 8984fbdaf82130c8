package nodes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	flux "github.com/LionsGamesStudio/flux/pkg/flux"
	"github.com/LionsGamesStudio/flux/pkg/flux/config"
)

// TestDelay_ResumesAfterDuration tests the one-shot delay node against
// a fake clock.
func TestDelay_ResumesAfterDuration(t *testing.T) {
	var hits []string
	g := flux.NewGraph("delay").
		AddNode(flux.NewNode("wait", &Delay{Duration: 100 * time.Millisecond})).
		AddNode(flux.NewNode("after", sink(&hits))).
		Connect("wait", "elapsed", "after", "in")

	clock := newFakeClock()
	e := flux.NewEngine(g, flux.WithClock(clock.Now))
	ctx := testCtx()

	_, err := e.Spawn("wait")
	require.NoError(t, err)
	rep, err := e.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Suspended)
	assert.Empty(t, hits)

	clock.Advance(99 * time.Millisecond)
	rep, err = e.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Resumed)

	clock.Advance(1 * time.Millisecond)
	rep, err = e.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Resumed)
	assert.Equal(t, []string{"after"}, hits)
}

// TestDelay_ConfigOverridesDuration tests the "duration" config field.
func TestDelay_ConfigOverridesDuration(t *testing.T) {
	var hits []string
	g := flux.NewGraph("cfgdelay").
		AddNode(flux.NewNode("wait", &Delay{Duration: time.Hour},
			flux.WithConfig(config.New(map[string]any{"duration": "10ms"})))).
		AddNode(flux.NewNode("after", sink(&hits))).
		Connect("wait", "elapsed", "after", "in")

	clock := newFakeClock()
	e := flux.NewEngine(g, flux.WithClock(clock.Now))
	ctx := testCtx()

	_, err := e.Spawn("wait")
	require.NoError(t, err)
	_, err = e.Tick(ctx)
	require.NoError(t, err)

	clock.Advance(10 * time.Millisecond)
	rep, err := e.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Resumed)
	assert.Equal(t, []string{"after"}, hits)
}

// TestTimer_TicksUntilStopped tests start, repetition, and stop.
func TestTimer_TicksUntilStopped(t *testing.T) {
	var hits []string
	g := flux.NewGraph("timer").
		AddNode(flux.NewNode("timer", &Timer{Interval: 50 * time.Millisecond})).
		AddNode(flux.NewNode("onTick", sink(&hits))).
		AddNode(flux.NewNode("stopper", &Sequence{Steps: 1})).
		Connect("timer", "tick", "onTick", "in").
		Connect("stopper", "then_0", "timer", "stop")

	clock := newFakeClock()
	e := flux.NewEngine(g, flux.WithClock(clock.Now))
	ctx := testCtx()

	_, err := e.Spawn("timer")
	require.NoError(t, err)
	_, err = e.Tick(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, e.WaitingCount())

	for i := 0; i < 3; i++ {
		clock.Advance(50 * time.Millisecond)
		_, err = e.Tick(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"onTick", "onTick", "onTick"}, hits)

	// A token arriving on "stop" cancels the stream.
	_, err = e.Spawn("stopper")
	require.NoError(t, err)
	_, err = e.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, e.WaitingCount())

	clock.Advance(time.Second)
	rep, err := e.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Resumed)
}

// TestTimer_RestartReplacesStream tests that re-triggering "start"
// yields a single stream of ticks.
func TestTimer_RestartReplacesStream(t *testing.T) {
	var hits []string
	g := flux.NewGraph("restart").
		AddNode(flux.NewNode("timer", &Timer{Interval: 100 * time.Millisecond})).
		AddNode(flux.NewNode("onTick", sink(&hits))).
		Connect("timer", "tick", "onTick", "in")

	clock := newFakeClock()
	e := flux.NewEngine(g, flux.WithClock(clock.Now))
	ctx := testCtx()

	_, err := e.Spawn("timer")
	require.NoError(t, err)
	_, err = e.Tick(ctx)
	require.NoError(t, err)

	clock.Advance(60 * time.Millisecond)
	_, err = e.Spawn("timer")
	require.NoError(t, err)
	_, err = e.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, e.WaitingCount())

	// The first stream's deadline passes without firing.
	clock.Advance(40 * time.Millisecond)
	rep, err := e.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Resumed)

	clock.Advance(60 * time.Millisecond)
	rep, err = e.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Resumed)
	assert.Equal(t, []string{"onTick"}, hits)
}
