package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seqRand replays vals in order, reduced modulo n.
type seqRand struct {
	vals []int
	i    int
}

func (r *seqRand) Intn(n int) int {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v % n
}

func newTestEngine(t *testing.T, events bool) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Events.Enabled = events
	return New(Options{Config: cfg, Rand: rand.New(rand.NewSource(7))})
}

func tickUntil(e *Engine, limit int, done func() bool) int {
	for i := 0; i < limit; i++ {
		if done() {
			return i
		}
		e.Tick()
	}
	return limit
}

func TestClearRowAwardsNoScore(t *testing.T) {
	e := newTestEngine(t, false)
	require.NoError(t, e.StartCustom(nil))

	for x := 0; x < 4; x++ {
		require.NoError(t, e.PlaceCell(x, 18, ColorBlue))
	}

	deaths := e.Clear()
	assert.Len(t, deaths, 4)
	assert.Equal(t, 0, e.Score())
	assert.Equal(t, 0, e.Grid().Occupied())
	assert.Empty(t, e.Cells())

	assert.Nil(t, e.Clear(), "second clear finds nothing")
}

func TestClearSmileyScores(t *testing.T) {
	e := newTestEngine(t, false)
	require.NoError(t, e.StartCustom([]Placement{{X: 2, Y: 2, Color: ColorYellow}}))
	for y := 3; y <= 5; y++ {
		require.NoError(t, e.PlaceCell(2, y, ColorYellow))
	}

	deaths := e.Clear()
	require.Len(t, deaths, 4)
	assert.Equal(t, 1, e.Score())
	assert.Equal(t, 0, e.SmileysLeft())
	assert.Contains(t, deaths, Death{X: 2, Y: 2, Color: ColorYellow, Smiley: true})
}

func TestClearIsNoOpWithoutAlignment(t *testing.T) {
	e := newTestEngine(t, false)
	require.NoError(t, e.StartCustom([]Placement{{X: 0, Y: 18, Color: ColorGreen}}))
	require.NoError(t, e.PlaceCell(1, 18, ColorGreen))
	before := e.Snapshot()

	assert.Nil(t, e.Clear())
	assert.Equal(t, before, e.Snapshot())
}

func TestGravityConverges(t *testing.T) {
	e := newTestEngine(t, false)
	require.NoError(t, e.StartCustom(nil))
	require.NoError(t, e.PlacePair(5, 2, false, ColorBlue, ColorPurple))
	require.NoError(t, e.PlacePair(0, 10, true, ColorYellow, ColorBlue))
	require.NoError(t, e.PlaceCell(1, 15, ColorPurple))

	steps := 0
	for e.CountCanFall() > 0 {
		require.Positive(t, e.Gravity())
		steps++
		require.LessOrEqual(t, steps, e.Grid().Height())
	}

	assert.Equal(t, ColorBlue, e.Grid().At(5, 17))
	assert.Equal(t, ColorPurple, e.Grid().At(5, 18))
	assert.Equal(t, ColorYellow, e.Grid().At(0, 17))
	assert.Equal(t, ColorBlue, e.Grid().At(1, 17))
	assert.Equal(t, ColorPurple, e.Grid().At(1, 18))
	assert.Equal(t, 5, e.Grid().Occupied())
	assertLockstep(t, e)
}

func TestFusionIsSymmetric(t *testing.T) {
	e := newTestEngine(t, false)
	require.NoError(t, e.StartCustom(nil))
	require.NoError(t, e.PlacePair(3, 10, true, ColorYellow, ColorBlue))

	cells := e.cells
	for _, slot := range cells.Slots() {
		c := cells.Get(slot)
		require.True(t, c.Fused())
		assert.Equal(t, slot, cells.Get(c.Friend).Friend)
	}

	slot, ok := cells.At(3, 10)
	require.True(t, ok)
	e.killCell(slot)

	other, ok := cells.At(4, 10)
	require.True(t, ok)
	assert.False(t, cells.Get(other).Fused())
	assert.False(t, cells.Get(other).Horizontal)
}

func TestVerticalPairFollowsBottomHalf(t *testing.T) {
	e := newTestEngine(t, false)
	require.NoError(t, e.StartCustom([]Placement{{X: 2, Y: 12, Color: ColorGreen}}))
	require.NoError(t, e.PlacePair(2, 10, false, ColorYellow, ColorBlue))

	top, _ := e.cells.At(2, 10)
	bottom, _ := e.cells.At(2, 11)
	assert.False(t, e.cells.Get(top).CanFall(e.grid, e.cells))
	assert.False(t, e.cells.Get(bottom).CanFall(e.grid, e.cells))
	assert.Equal(t, 0, e.CountCanFall())
}

func TestCapsuleClearsSmileyAndWins(t *testing.T) {
	e := newTestEngine(t, false)
	require.NoError(t, e.StartCustom([]Placement{{X: 3, Y: 18, Color: ColorYellow}}))
	require.NoError(t, e.PlaceCell(3, 17, ColorYellow))
	require.NoError(t, e.PlaceCell(3, 16, ColorYellow))
	e.SetNextColors(ColorYellow, ColorYellow)

	var wonLevel = -1
	e.hooks.OnWon = func(level, _ int) { wonLevel = level }

	require.True(t, e.Start())
	n := tickUntil(e, 200, func() bool { return e.Status() != StatusRunning })
	require.Less(t, n, 200)

	assert.Equal(t, StatusWon, e.Status())
	assert.Equal(t, 1, e.Score())
	assert.Equal(t, 0, wonLevel)
	// the orphaned half fell to the floor
	assert.Equal(t, ColorYellow, e.Grid().At(4, 18))
	assertLockstep(t, e)
}

func TestBlockedSpawnLoses(t *testing.T) {
	e := newTestEngine(t, false)
	require.NoError(t, e.StartCustom([]Placement{{X: 0, Y: 18, Color: ColorGreen}}))
	for y := 1; y < 19; y++ {
		a, b := ColorBlue, ColorPurple
		if y%2 == 1 {
			a, b = b, a
		}
		require.NoError(t, e.PlaceCell(3, y, a))
		require.NoError(t, e.PlaceCell(4, y, b))
	}
	e.SetNextColors(ColorYellow, ColorYellow)

	require.True(t, e.Start())
	e.Tick()
	assert.True(t, e.HasCapsule())
	e.Tick()

	assert.Equal(t, StatusLost, e.Status())
	assert.True(t, e.Lost())
	assertLockstep(t, e)

	assert.False(t, e.HandleAction(ActionLeft))
	assert.False(t, e.HandleAction(ActionRight))
	assert.False(t, e.HandleAction(ActionRotate))
}

func TestTickIgnoredUnlessRunning(t *testing.T) {
	e := newTestEngine(t, false)
	e.StartLevel(0)
	require.Equal(t, StatusReady, e.Status())

	e.Tick()
	assert.False(t, e.HasCapsule())
	assert.Equal(t, uint64(0), e.Ticks())

	assert.False(t, e.HandleAction(ActionLeft), "first action only starts the game")
	assert.Equal(t, StatusRunning, e.Status())

	e.Tick()
	assert.True(t, e.HasCapsule())

	require.True(t, e.HandleAction(ActionPause))
	assert.Equal(t, StatusPaused, e.Status())
	e.Tick()
	assert.Equal(t, uint64(1), e.Ticks())
	assert.False(t, e.HandleAction(ActionLeft))
}

func TestHandleActionMovesCapsule(t *testing.T) {
	e := newTestEngine(t, false)
	require.NoError(t, e.StartCustom(nil))
	e.Start()
	assert.False(t, e.HandleAction(ActionRight), "no capsule yet")

	e.Tick()
	e.Tick()
	snap := e.Snapshot()
	require.NotNil(t, snap.Capsule)
	x := snap.Capsule.X

	require.True(t, e.HandleAction(ActionLeft))
	assert.Equal(t, x-1, e.Snapshot().Capsule.X)

	require.True(t, e.HandleAction(ActionDrop))
	assert.True(t, e.DownHeld())
	assert.Equal(t, e.cfg.Timing.Down, e.NextDelay())

	require.True(t, e.HandleAction(ActionRotate))
	assert.False(t, e.DownHeld(), "any action releases the soft drop")
	assert.False(t, e.Snapshot().Capsule.Horizontal)
}

func TestMirrorSwapsControls(t *testing.T) {
	e := newTestEngine(t, true)
	require.NoError(t, e.StartCustom(nil))
	e.Start()
	e.Tick()
	e.Tick()
	e.events.mirror = true

	x := e.Snapshot().Capsule.X
	require.True(t, e.HandleAction(ActionLeft))
	assert.Equal(t, x+1, e.Snapshot().Capsule.X)

	require.True(t, e.HandleAction(ActionRotate))
	assert.True(t, e.DownHeld())
}

func TestNextDelay(t *testing.T) {
	e := newTestEngine(t, false)
	timing := e.cfg.Timing

	assert.Equal(t, timing.Fall, e.NextDelay())
	e.settling = true
	assert.Equal(t, timing.Gravity, e.NextDelay())
	e.deleting = true
	assert.Equal(t, timing.Delete, e.NextDelay())

	e.settling, e.deleting = false, false
	e.speed = 2
	assert.Equal(t, 325*time.Millisecond, e.NextDelay())
}

func TestLevelCurve(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 120, cfg.SmileyCeiling())
	assert.Equal(t, 5, cfg.NumberSmileys(0))
	assert.Equal(t, 39, cfg.NumberSmileys(1))
	assert.Equal(t, 120, cfg.NumberSmileys(35))
	assert.Equal(t, 120, cfg.NumberSmileys(80))

	prev := 0
	for n := 0; n <= cfg.LevelMax; n++ {
		got := cfg.NumberSmileys(n)
		assert.GreaterOrEqual(t, got, prev, "level %d", n)
		prev = got
	}

	assert.Equal(t, 0, cfg.CountScore(0))
	assert.Equal(t, 5, cfg.CountScore(1))
	assert.Equal(t, 44, cfg.CountScore(2))
}

func TestStartLevelPlacesSmileys(t *testing.T) {
	e := newTestEngine(t, false)
	e.StartLevel(5)

	want := e.cfg.NumberSmileys(5)
	assert.Equal(t, want, e.SmileysLeft())
	assert.Len(t, e.Smileys(), want)
	assert.Equal(t, e.cfg.CountScore(5), e.Score())
	for _, s := range e.Smileys() {
		assert.GreaterOrEqual(t, s.Y, e.cfg.SmileyFloor)
		assert.True(t, s.Color >= ColorYellow && s.Color <= ColorPurple)
	}
	assertLockstep(t, e)
}

func TestNextLevelKeepsScore(t *testing.T) {
	e := newTestEngine(t, false)
	e.StartLevel(2)
	score := e.Score()
	require.Positive(t, score)

	e.NextLevel()
	assert.Equal(t, 3, e.Level())
	assert.Equal(t, score, e.Score())
	assert.Equal(t, StatusReady, e.Status())
}

func TestStartCustomValidates(t *testing.T) {
	e := newTestEngine(t, false)
	tests := []struct {
		name       string
		placements []Placement
	}{
		{"off grid", []Placement{{X: 8, Y: 0, Color: ColorYellow}}},
		{"bad colour", []Placement{{X: 1, Y: 5, Color: ColorStone}}},
		{"duplicate", []Placement{{X: 1, Y: 5, Color: ColorBlue}, {X: 1, Y: 5, Color: ColorGreen}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, e.StartCustom(tt.placements))
		})
	}
}

func TestMenuSelect(t *testing.T) {
	e := newTestEngine(t, true)

	require.True(t, e.MenuSelect(MenuLevel, 2))
	assert.Equal(t, 10, e.Level())
	assert.Equal(t, e.cfg.CountScore(10), e.Score())

	require.True(t, e.MenuSelect(MenuStart, 0))
	assert.Equal(t, StatusReady, e.Status())
	assert.Equal(t, e.cfg.NumberSmileys(10), e.SmileysLeft())

	require.True(t, e.MenuSelect(MenuEvents, 1))
	assert.False(t, e.Events().Enabled())
	require.True(t, e.MenuSelect(MenuEvents, 0))
	assert.True(t, e.Events().Enabled())

	assert.False(t, e.MenuSelect(MenuResume, 0), "nothing to resume")

	require.True(t, e.MenuSelect(MenuTitle, 0))
	assert.Equal(t, StatusTitle, e.Status())
	assert.Equal(t, 0, e.Grid().Occupied())

	assert.False(t, e.MenuSelect(42, 0))
}

func TestDeterministicWithSameSeed(t *testing.T) {
	run := func() Snapshot {
		cfg := DefaultConfig()
		e := New(Options{Config: cfg, Rand: rand.New(rand.NewSource(99))})
		e.StartLevel(3)
		e.Start()
		actions := []Action{ActionLeft, ActionRotate, ActionRight, ActionNone, ActionDrop}
		for i := 0; i < 600 && e.Status() == StatusRunning; i++ {
			if i%9 == 0 {
				e.HandleAction(actions[(i/9)%len(actions)])
			}
			e.Tick()
		}
		return e.Snapshot()
	}

	assert.Equal(t, run(), run())
}

func TestLongRunKeepsLockstep(t *testing.T) {
	cfg := DefaultConfig()
	e := New(Options{Config: cfg, Rand: rand.New(rand.NewSource(2024))})
	e.StartLevel(10)
	e.Start()

	actions := []Action{ActionLeft, ActionLeft, ActionRotate, ActionRight, ActionDrop}
	for i := 0; i < 3000; i++ {
		switch e.Status() {
		case StatusWon:
			e.NextLevel()
			e.Start()
		case StatusLost:
			e.StartLevel(0)
			e.Start()
		}
		if i%5 == 0 {
			e.HandleAction(actions[(i/5)%len(actions)])
		}
		e.Tick()
		if i%50 == 0 {
			assertLockstep(t, e)
		}
	}
	assertLockstep(t, e)
}

// assertLockstep checks that every occupied square belongs to exactly one
// element or the capsule, and that every element sits on its own colour.
func assertLockstep(t *testing.T, e *Engine) {
	t.Helper()
	owners := make(map[Coord]int)
	check := func(p *Pool) {
		p.Each(func(slot int, el *Element) {
			owners[Coord{el.X, el.Y}]++
			assert.Equal(t, el.Color, e.grid.At(el.X, el.Y), "element %+v", *el)
			got, ok := p.At(el.X, el.Y)
			assert.True(t, ok)
			assert.Equal(t, slot, got)
			if el.Fused() {
				friend := p.Get(el.Friend)
				if assert.NotNil(t, friend) {
					assert.Equal(t, slot, friend.Friend)
				}
			}
		})
	}
	check(e.cells)
	check(e.smileys)
	check(e.events.stones)
	check(e.events.blockers)
	if c := e.capsule; c != nil {
		owners[Coord{c.X, c.Y}]++
		owners[c.Second()]++
	}

	for x := 0; x < e.grid.Width(); x++ {
		for y := 0; y < e.grid.Height(); y++ {
			p := Coord{x, y}
			if e.grid.At(x, y) == ColorEmpty {
				assert.Zero(t, owners[p], "empty square %v has an owner", p)
			} else {
				assert.Equal(t, 1, owners[p], "square %v", p)
			}
		}
	}
}
