package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameClockOrder(t *testing.T) {
	c := NewFrameClock()
	var got []string

	c.After(30*time.Millisecond, func() { got = append(got, "c") })
	c.After(10*time.Millisecond, func() { got = append(got, "a") })
	c.After(10*time.Millisecond, func() { got = append(got, "b") })
	cancel := c.After(20*time.Millisecond, func() { got = append(got, "x") })
	cancel()

	assert.Equal(t, 2, c.Advance(15*time.Millisecond))
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 15*time.Millisecond, c.Now())

	assert.Equal(t, 1, c.Advance(time.Second))
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 0, c.Pending())
}

func TestFrameClockFiresRescheduledTimers(t *testing.T) {
	c := NewFrameClock()
	count := 0
	var tick func()
	tick = func() {
		count++
		c.After(10*time.Millisecond, tick)
	}
	c.After(10*time.Millisecond, tick)

	c.Advance(55 * time.Millisecond)
	assert.Equal(t, 5, count)
	assert.Equal(t, 1, c.Pending())
}

func TestFrameClockCancelAfterFire(t *testing.T) {
	c := NewFrameClock()
	cancel := c.After(time.Millisecond, func() {})
	c.After(5*time.Millisecond, func() {})

	c.Advance(2 * time.Millisecond)
	assert.Equal(t, 1, c.Pending())
	cancel()
	assert.Equal(t, 1, c.Pending())
}

func TestLoopDrivesEngine(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Events.Enabled = false
	e := New(Options{Config: cfg, Rand: rand.New(rand.NewSource(4))})
	require.NoError(t, e.StartCustom([]Placement{{X: 0, Y: 18, Color: ColorBlue}}))

	clock := NewFrameClock()
	loop := NewLoop(e, clock)

	clock.Advance(time.Second)
	assert.Equal(t, uint64(0), e.Ticks(), "nothing runs before the first action")

	assert.False(t, loop.HandleAction(ActionRotate))
	assert.Equal(t, uint64(1), e.Ticks(), "first action runs a tick at once")
	assert.True(t, loop.Running())

	clock.Advance(cfg.Timing.Fall * 3)
	assert.Equal(t, uint64(4), e.Ticks())
	assert.Equal(t, 3, e.Snapshot().Capsule.Y)

	require.True(t, loop.HandleAction(ActionPause))
	assert.False(t, loop.Running())
	clock.Advance(10 * time.Second)
	assert.Equal(t, uint64(4), e.Ticks())

	require.True(t, loop.HandleAction(ActionPause))
	clock.Advance(cfg.Timing.Fall)
	assert.Equal(t, uint64(5), e.Ticks())
}

func TestLoopSoftDropTicksImmediately(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Events.Enabled = false
	e := New(Options{Config: cfg, Rand: rand.New(rand.NewSource(4))})
	require.NoError(t, e.StartCustom([]Placement{{X: 0, Y: 18, Color: ColorBlue}}))

	clock := NewFrameClock()
	loop := NewLoop(e, clock)
	loop.Start()
	require.True(t, e.HasCapsule())

	require.True(t, loop.HandleAction(ActionDrop))
	assert.Equal(t, 1, e.Snapshot().Capsule.Y)

	clock.Advance(cfg.Timing.Down * 5)
	assert.Equal(t, 6, e.Snapshot().Capsule.Y)
}

func TestLoopStopsWhenGameEnds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Events.Enabled = false
	e := New(Options{Config: cfg, Rand: rand.New(rand.NewSource(4))})
	require.NoError(t, e.StartCustom([]Placement{{X: 3, Y: 18, Color: ColorYellow}}))
	require.NoError(t, e.PlaceCell(3, 17, ColorYellow))
	require.NoError(t, e.PlaceCell(3, 16, ColorYellow))
	e.SetNextColors(ColorYellow, ColorYellow)

	clock := NewFrameClock()
	loop := NewLoop(e, clock)
	loop.Start()
	clock.Advance(time.Minute)

	assert.Equal(t, StatusWon, e.Status())
	assert.False(t, loop.Running())
	assert.Equal(t, 0, clock.Pending())
	assert.Positive(t, e.Elapsed())
}
