package engine

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEventEngine(t *testing.T, rng Rand) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	e := New(Options{Config: cfg, Rand: rng})
	require.NoError(t, e.StartCustom([]Placement{
		{X: 0, Y: 18, Color: ColorYellow},
		{X: 7, Y: 10, Color: ColorBlue},
	}))
	return e
}

func activate(e *Engine, id EventID) int {
	e.events.current = id
	e.events.state = EventActive
	return e.events.apply(true)
}

func revert(e *Engine) {
	e.events.apply(false)
	e.events.state = EventWaiting
}

func TestSelectEventIsPermutation(t *testing.T) {
	e := newEventEngine(t, rand.New(rand.NewSource(3)))
	h := e.Events()

	seen := make(map[EventID]bool)
	for i := 0; i < 200; i++ {
		h.selectEvent()
		order := h.Order()
		require.Len(t, order, int(EventCount))

		sorted := append([]EventID(nil), order...)
		sort.Slice(sorted, func(a, b int) bool { return sorted[a] < sorted[b] })
		for want, got := range sorted {
			require.Equal(t, EventID(want), got)
		}
		assert.Equal(t, order[len(order)-1], h.Current())
		seen[h.Current()] = true
	}
	assert.Len(t, seen, int(EventCount), "every event gets picked")
}

func TestEventCycle(t *testing.T) {
	e := newEventEngine(t, &seqRand{vals: []int{0}})
	h := e.Events()
	h.cfg.AverageDelay = 2
	h.cfg.Selection = 1
	h.Reset()

	var changes []bool
	e.hooks.OnEvent = func(_ EventID, active bool) { changes = append(changes, active) }

	assert.True(t, h.Decrease(false))
	assert.True(t, h.Decrease(false))
	assert.Equal(t, EventWaiting, h.State(), "falls never switch phase")

	h.Decrease(true)
	assert.Equal(t, EventSelecting, h.State())
	assert.Equal(t, 1.0, h.Progress())

	h.Decrease(true)
	assert.Equal(t, EventActive, h.State())
	require.Equal(t, []bool{true}, changes)

	for h.State() == EventActive {
		h.Decrease(true)
	}
	assert.Equal(t, EventWaiting, h.State())
	assert.Equal(t, []bool{true, false}, changes)
}

func TestDecreaseDisabled(t *testing.T) {
	e := newEventEngine(t, rand.New(rand.NewSource(1)))
	e.SetEventsEnabled(false)
	assert.False(t, e.Events().Decrease(true))
}

func TestRandomDuration(t *testing.T) {
	e := newEventEngine(t, rand.New(rand.NewSource(5)))
	for i := 0; i < 100; i++ {
		d := e.events.randomDuration()
		assert.Contains(t, []int{18, 24, 30}, d)
	}
}

func TestRuleOverridesRevert(t *testing.T) {
	tests := []struct {
		id    EventID
		check func(e *Engine) bool
	}{
		{EventLocker, func(e *Engine) bool { return e.AlignLength() == 27 }},
		{EventThree, func(e *Engine) bool { return e.AlignLength() == 3 }},
		{EventFive, func(e *Engine) bool { return e.AlignLength() == 5 }},
		{EventGreen, func(e *Engine) bool { return e.ColorMax() == 4 }},
		{EventSpeeder, func(e *Engine) bool { return e.Speed() == 2 }},
		{EventMirror, func(e *Engine) bool { return e.events.mirror }},
		{EventAlcoholic, func(e *Engine) bool { return e.events.alcoholic }},
		{EventStarter, func(e *Engine) bool { return e.events.starter }},
		{EventGhost, func(e *Engine) bool { return e.events.ghost }},
	}

	for _, tt := range tests {
		t.Run(tt.id.String(), func(t *testing.T) {
			e := newEventEngine(t, rand.New(rand.NewSource(11)))
			d := activate(e, tt.id)
			assert.Positive(t, d)
			assert.True(t, tt.check(e))

			revert(e)
			assert.False(t, tt.check(e))
			assert.Equal(t, 4, e.AlignLength())
			assert.Equal(t, 3, e.ColorMax())
			assert.Equal(t, 1.0, e.Speed())
		})
	}
}

func TestResetClearsEventFlags(t *testing.T) {
	e := newEventEngine(t, rand.New(rand.NewSource(2)))
	e.events.alcoholic, e.events.ghost, e.events.mirror = true, true, true
	e.events.starter, e.events.sun = true, true
	activate(e, EventBlocker)

	e.events.Reset()
	h := e.events
	assert.False(t, h.alcoholic || h.ghost || h.mirror || h.starter || h.blocker || h.sun)
	assert.Equal(t, EventWaiting, h.State())
	assert.Empty(t, e.Blockers())
}

func TestGreenStaysWithinPalette(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ColorMax = ColorCount
	e := New(Options{Config: cfg, Rand: rand.New(rand.NewSource(5))})
	require.NoError(t, e.StartCustom([]Placement{{X: 0, Y: 18, Color: ColorYellow}}))

	activate(e, EventGreen)
	assert.Equal(t, ColorCount, e.ColorMax())

	seen := make(map[Color]bool)
	for range 500 {
		seen[e.randomColor()] = true
	}
	for c := range seen {
		assert.True(t, c >= ColorYellow && c <= ColorGreen, "colour %d", c)
	}

	revert(e)
	assert.Equal(t, ColorCount, e.ColorMax())
}

func TestDisablingRevertsActiveEvent(t *testing.T) {
	e := newEventEngine(t, rand.New(rand.NewSource(11)))
	activate(e, EventSpeeder)

	e.SetEventsEnabled(false)
	assert.Equal(t, 1.0, e.Speed())
	assert.Equal(t, EventWaiting, e.Events().State())
}

func TestBombAndJokerSetNextColours(t *testing.T) {
	e := newEventEngine(t, &seqRand{vals: []int{1}})
	e.SetNextColors(ColorBlue, ColorBlue)

	assert.Equal(t, 1, activate(e, EventJoker))
	c0, c1 := e.NextColors()
	assert.Equal(t, ColorBlue, c0)
	assert.Equal(t, ColorJoker, c1)

	assert.Equal(t, 1, activate(e, EventBomb))
	c0, c1 = e.NextColors()
	assert.Equal(t, ColorBomb, c0)
	assert.Equal(t, ColorBomb, c1)
}

func TestExitKillsEverySmiley(t *testing.T) {
	e := newEventEngine(t, rand.New(rand.NewSource(1)))

	activate(e, EventExit)
	assert.Equal(t, 0, e.SmileysLeft())
	assert.Equal(t, 2, e.Score())
	assert.Empty(t, e.Smileys())
	assertLockstep(t, e)
}

func TestCutterOnEmptyBoard(t *testing.T) {
	e := New(Options{Config: DefaultConfig(), Rand: rand.New(rand.NewSource(1))})
	require.NoError(t, e.StartCustom(nil))

	assert.Equal(t, 1, activate(e, EventCutter))
	assert.Equal(t, 0, e.Grid().Occupied())
}

func TestCutterClearsARow(t *testing.T) {
	e := New(Options{Config: DefaultConfig(), Rand: rand.New(rand.NewSource(1))})
	require.NoError(t, e.StartCustom([]Placement{{X: 2, Y: 9, Color: ColorGreen}}))
	require.NoError(t, e.PlaceCell(5, 9, ColorBlue))

	activate(e, EventCutter)
	assert.Equal(t, 0, e.Grid().Occupied())
	assert.Equal(t, 1, e.Score())
}

func TestGiftFillsEmptyTopSquares(t *testing.T) {
	e := newEventEngine(t, rand.New(rand.NewSource(1)))
	require.NoError(t, e.PlaceCell(2, 0, ColorBlue))

	activate(e, EventGift)
	for x := 0; x < e.Grid().Width(); x++ {
		assert.NotEqual(t, ColorEmpty, e.Grid().At(x, 0))
	}
	assert.Len(t, e.Cells(), e.Grid().Width())
	for _, c := range e.Cells() {
		assert.False(t, c.Fused())
	}
	assertLockstep(t, e)
}

func TestEraserRemovesOneColour(t *testing.T) {
	e := newEventEngine(t, &seqRand{vals: []int{0}})
	require.NoError(t, e.PlaceCell(4, 18, ColorYellow))
	require.NoError(t, e.PlaceCell(5, 18, ColorBlue))

	activate(e, EventEraser)
	assert.Equal(t, ColorEmpty, e.Grid().At(0, 18))
	assert.Equal(t, ColorEmpty, e.Grid().At(4, 18))
	assert.Equal(t, ColorBlue, e.Grid().At(5, 18))
	assert.Equal(t, ColorBlue, e.Grid().At(7, 10))
	assert.Equal(t, 1, e.SmileysLeft())
}

func TestStonePoolIsBounded(t *testing.T) {
	e := newEventEngine(t, rand.New(rand.NewSource(8)))

	for i := 0; i < 8; i++ {
		assert.Equal(t, 1, activate(e, EventStone))
	}
	stones := e.Stones()
	assert.Len(t, stones, 5)
	for _, s := range stones {
		assert.Equal(t, ColorStone, e.Grid().At(s.X, s.Y))
		assert.GreaterOrEqual(t, s.Y, 1)
	}
	assertLockstep(t, e)
}

func TestStoneReplacesCell(t *testing.T) {
	// x = 3, y = 4+1
	e := newEventEngine(t, &seqRand{vals: []int{3, 4}})
	require.NoError(t, e.PlaceCell(3, 5, ColorPurple))

	activate(e, EventStone)
	assert.Equal(t, ColorStone, e.Grid().At(3, 5))
	assert.Empty(t, e.Cells())
	assertLockstep(t, e)
}

func TestBlockerFillsAndClearsZone(t *testing.T) {
	e := newEventEngine(t, rand.New(rand.NewSource(1)))
	require.NoError(t, e.PlaceCell(3, 6, ColorGreen))

	activate(e, EventBlocker)
	blockers := e.Blockers()
	assert.Len(t, blockers, 14)
	assert.True(t, e.Snapshot().Event.Blocker)
	assert.Equal(t, ColorBlocker, e.Grid().At(3, 6))
	assert.Equal(t, ColorEmpty, e.Grid().At(2, 4), "top-left corner stays open")
	assert.Equal(t, ColorEmpty, e.Grid().At(5, 4), "top-right corner stays open")
	assert.Equal(t, ColorBlocker, e.Grid().At(3, 4))
	assert.Empty(t, e.Cells())
	assertLockstep(t, e)

	revert(e)
	assert.False(t, e.Snapshot().Event.Blocker)
	assert.Empty(t, e.Blockers())
	assert.Equal(t, ColorEmpty, e.Grid().At(3, 6))
	assertLockstep(t, e)
}

func TestBlockersNeverFallOrMatch(t *testing.T) {
	e := newEventEngine(t, rand.New(rand.NewSource(1)))
	activate(e, EventBlocker)

	assert.Equal(t, 0, e.CountCanFall())
	assert.Nil(t, e.Clear())
	assert.Len(t, e.Blockers(), 14)
}

func TestElevatorLiftsEverything(t *testing.T) {
	e := newEventEngine(t, rand.New(rand.NewSource(1)))
	require.NoError(t, e.PlaceCell(1, 0, ColorGreen))
	require.NoError(t, e.PlacePair(4, 17, false, ColorYellow, ColorBlue))

	activate(e, EventElevator)
	assert.Equal(t, ColorEmpty, e.Grid().At(1, 0))
	assert.Equal(t, ColorYellow, e.Grid().At(4, 16))
	assert.Equal(t, ColorBlue, e.Grid().At(4, 17))
	assert.Equal(t, ColorEmpty, e.Grid().At(4, 18))
	assert.Equal(t, ColorYellow, e.Grid().At(0, 17))
	assert.Equal(t, ColorBlue, e.Grid().At(7, 9))
	assert.Len(t, e.Cells(), 2)
	assertLockstep(t, e)
}

func TestElevatorKillsTopRowSmiley(t *testing.T) {
	e := New(Options{Config: DefaultConfig(), Rand: rand.New(rand.NewSource(1))})
	require.NoError(t, e.StartCustom([]Placement{{X: 6, Y: 0, Color: ColorPurple}}))

	activate(e, EventElevator)
	assert.Equal(t, 1, e.Score())
	assert.Equal(t, 0, e.SmileysLeft())
}

func TestSunTurnsCapsuleIntoSmileys(t *testing.T) {
	e := New(Options{Config: DefaultConfig(), Rand: rand.New(rand.NewSource(1))})
	require.NoError(t, e.StartCustom([]Placement{
		{X: 0, Y: 18, Color: ColorYellow},
		{X: 1, Y: 18, Color: ColorBlue},
		{X: 2, Y: 18, Color: ColorPurple},
	}))
	// two smileys die so the pool has room
	e.deleteElements([]Coord{{1, 18}, {2, 18}})

	activate(e, EventSun)
	require.True(t, e.events.sun)

	e.SetNextColors(ColorGreen, ColorGreen)
	e.Start()
	tickUntil(e, 100, func() bool { return !e.HasCapsule() && e.Ticks() > 1 })

	assert.Equal(t, 3, e.SmileysLeft())
	assert.Len(t, e.Smileys(), 3)
	assert.Empty(t, e.Cells())
	assertLockstep(t, e)
}

func TestSunCancelledWithoutRoom(t *testing.T) {
	e := newEventEngine(t, rand.New(rand.NewSource(1)))

	assert.Equal(t, 1, activate(e, EventSun))
	assert.False(t, e.events.sun)
}

func TestShufflerRecolours(t *testing.T) {
	e := newEventEngine(t, &seqRand{vals: []int{2}})

	activate(e, EventShuffler)
	for _, s := range e.Smileys() {
		assert.Equal(t, ColorPurple, s.Color)
		assert.Equal(t, ColorPurple, e.Grid().At(s.X, s.Y))
	}
}

func TestEventNames(t *testing.T) {
	assert.Equal(t, "bomb", EventBomb.String())
	assert.Equal(t, "speeder", EventSpeeder.String())
	assert.Equal(t, "none", EventID(-1).String())
	assert.Equal(t, "active", EventActive.String())
}
