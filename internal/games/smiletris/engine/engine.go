package engine

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/zyedidia/generic/mapset"
)

// Rand is the random source the engine draws from.
type Rand interface {
	Intn(n int) int
}

// Timing holds the tick delays.
type Timing struct {
	Fall    time.Duration
	Delete  time.Duration
	Gravity time.Duration
	Down    time.Duration
}

// Config holds the board size and rule constants.
type Config struct {
	Width  int
	Height int

	AlignLength int
	ColorMax    int
	SpawnRow    int

	// SmileyFloor is the first row smileys can be generated on.
	SmileyFloor int
	SmileyMin   int
	LevelMax    int
	Coef        float64
	// LevelStep is the level gap between level-select entries.
	LevelStep int

	Timing Timing
	Events EventConfig
}

// DefaultConfig returns the classic 8×19 board.
func DefaultConfig() Config {
	return Config{
		Width:       8,
		Height:      19,
		AlignLength: 4,
		ColorMax:    3,
		SpawnRow:    0,
		SmileyFloor: 4,
		SmileyMin:   5,
		LevelMax:    35,
		Coef:        3.0,
		LevelStep:   5,
		Timing: Timing{
			Fall:    650 * time.Millisecond,
			Delete:  650 * time.Millisecond,
			Gravity: 50 * time.Millisecond,
			Down:    50 * time.Millisecond,
		},
		Events: DefaultEventConfig(),
	}
}

// Validate checks that the board can hold a capsule, the blocker zone
// and at least one smiley row.
func (c Config) Validate() error {
	if c.Width < 4 {
		return fmt.Errorf("smiletris: grid width %d is below 4", c.Width)
	}
	if c.Height < 6 {
		return fmt.Errorf("smiletris: grid height %d is below 6", c.Height)
	}
	if c.SmileyFloor < 1 || c.SmileyFloor >= c.Height {
		return fmt.Errorf("smiletris: smiley floor %d outside 1..%d", c.SmileyFloor, c.Height-1)
	}
	if c.SpawnRow < 0 || c.SpawnRow >= c.SmileyFloor {
		return fmt.Errorf("smiletris: spawn row %d must be above the smiley floor", c.SpawnRow)
	}
	if c.AlignLength < 2 {
		return fmt.Errorf("smiletris: align length %d is below 2", c.AlignLength)
	}
	if c.ColorMax < 1 || c.ColorMax > ColorCount {
		return fmt.Errorf("smiletris: colour max %d outside 1..%d", c.ColorMax, ColorCount)
	}
	if c.LevelMax < 1 || c.Coef <= 0 {
		return fmt.Errorf("smiletris: level curve needs a positive level max and coefficient")
	}
	return nil
}

// Status is the run state of the engine.
type Status int

const (
	// StatusTitle is the state before any level has started.
	StatusTitle Status = iota
	// StatusReady means the level is laid out and waits for the first action.
	StatusReady
	StatusRunning
	StatusPaused
	StatusWon
	StatusLost
)

func (s Status) String() string {
	switch s {
	case StatusTitle:
		return "title"
	case StatusReady:
		return "ready"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Death records an element destroyed during the last clear.
type Death struct {
	X, Y   int
	Color  Color
	Smiley bool
}

// Placement is a smiley position for custom levels.
type Placement struct {
	X, Y  int
	Color Color
}

// Hooks are optional callbacks fired from inside Tick.
type Hooks struct {
	OnEvent func(id EventID, active bool)
	OnWon   func(level, score int)
	OnLost  func(level, score int)
	OnClear func(deaths []Death)
}

func (h Hooks) eventChanged(id EventID, active bool) {
	if h.OnEvent != nil {
		h.OnEvent(id, active)
	}
}

// Options configure New.
type Options struct {
	Config Config
	// Rand defaults to a time-seeded source.
	Rand  Rand
	Hooks Hooks
}

// Engine owns the grid, the falling capsule, the element pools and the
// score. It is single-threaded: Tick, HandleAction and the start methods
// must not be called concurrently.
type Engine struct {
	cfg   Config
	rng   Rand
	hooks Hooks

	grid    *Grid
	capsule *Capsule
	cells   *Pool
	smileys *Pool
	events  *EventHandler

	status   Status
	settling bool
	finish   bool
	deleting bool
	down     bool

	deaths []Death

	score       int
	smileysLeft int
	level       int
	elapsed     time.Duration
	ticks       uint64

	alignLength int
	colorMax    int
	speed       float64

	nextC0, nextC1 Color
	spawnX, spawnY int
}

// New creates an engine on the title screen.
func New(opts Options) *Engine {
	cfg := opts.Config
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e := &Engine{
		cfg:     cfg,
		rng:     rng,
		hooks:   opts.Hooks,
		grid:    NewGrid(cfg.Width, cfg.Height),
		cells:   NewPool(cfg.Width*cfg.Height, cfg.Width),
		smileys: NewPool(0, cfg.Width),
	}
	e.events = newEventHandler(e, cfg.Events)
	e.reset()
	return e
}

// reset clears the board and every override.
func (e *Engine) reset() {
	e.events.Reset()
	e.grid.Reset()
	e.cells.Reset()
	e.smileys.Reset()
	e.capsule = nil
	e.settling, e.finish, e.deleting, e.down = false, false, false, false
	e.deaths = nil
	e.alignLength = e.cfg.AlignLength
	e.colorMax = e.cfg.ColorMax
	e.speed = 1
	e.nextC0, e.nextC1 = e.randomColor(), e.randomColor()
	e.spawnX = e.cfg.Width/2 - 1
	e.spawnY = e.cfg.SpawnRow
}

func (e *Engine) randomColor() Color {
	return Color(e.rng.Intn(e.colorMax)) + ColorYellow
}

// StartLevel lays out level n with a fresh score of CountScore(n).
func (e *Engine) StartLevel(n int) {
	e.score = e.cfg.CountScore(n)
	e.initLevel(n)
}

// NextLevel lays out the level after the current one and keeps the score.
func (e *Engine) NextLevel() {
	e.initLevel(e.level + 1)
}

func (e *Engine) initLevel(n int) {
	if n < 0 {
		n = 0
	}
	e.reset()
	e.level = n
	nb := e.cfg.NumberSmileys(n)

	var free []Coord
	for y := e.cfg.SmileyFloor; y < e.cfg.Height; y++ {
		for x := 0; x < e.cfg.Width; x++ {
			free = append(free, Coord{x, y})
		}
	}
	if nb > len(free) {
		nb = len(free)
	}

	e.smileys = NewPool(nb, e.cfg.Width)
	for i := 0; i < nb; i++ {
		k := e.rng.Intn(len(free))
		p := free[k]
		free[k] = free[len(free)-1]
		free = free[:len(free)-1]
		e.placeSmiley(p.X, p.Y, e.randomColor())
	}
	e.smileysLeft = nb
	e.status = StatusReady
}

// StartCustom lays out the given smileys on an empty board. Level and
// score are kept.
func (e *Engine) StartCustom(placements []Placement) error {
	seen := mapset.New[Coord]()
	for _, p := range placements {
		if !e.grid.InBounds(p.X, p.Y) {
			return fmt.Errorf("smiletris: smiley at (%d,%d) is off the %dx%d grid", p.X, p.Y, e.cfg.Width, e.cfg.Height)
		}
		if p.Color < ColorYellow || p.Color > ColorGreen {
			return fmt.Errorf("smiletris: smiley at (%d,%d) has invalid colour %d", p.X, p.Y, p.Color)
		}
		c := Coord{p.X, p.Y}
		if seen.Has(c) {
			return fmt.Errorf("smiletris: two smileys at (%d,%d)", p.X, p.Y)
		}
		seen.Put(c)
	}

	e.reset()
	e.smileys = NewPool(len(placements), e.cfg.Width)
	for _, p := range placements {
		e.placeSmiley(p.X, p.Y, p.Color)
	}
	e.smileysLeft = len(placements)
	e.status = StatusReady
	return nil
}

func (e *Engine) placeSmiley(x, y int, c Color) {
	e.smileys.Insert(newElement(x, y, c, KindSmiley))
	e.grid.Set(x, y, c)
}

// PlaceCell puts an unfused cell on an empty square.
func (e *Engine) PlaceCell(x, y int, c Color) error {
	if !e.grid.Empty(x, y) {
		return fmt.Errorf("smiletris: cannot place a cell at (%d,%d)", x, y)
	}
	e.insertCell(newElement(x, y, c, KindCell))
	return nil
}

// PlacePair puts a fused pair with its top-left half at (x, y).
func (e *Engine) PlacePair(x, y int, horizontal bool, c0, c1 Color) error {
	x1, y1 := x, y+1
	if horizontal {
		x1, y1 = x+1, y
	}
	if !e.grid.Empty(x, y) || !e.grid.Empty(x1, y1) {
		return fmt.Errorf("smiletris: cannot place a pair at (%d,%d)", x, y)
	}
	first := newElement(x, y, c0, KindCell)
	first.Horizontal, first.TopLeft = horizontal, true
	second := newElement(x1, y1, c1, KindCell)
	second.Horizontal = horizontal
	e.grid.Set(x, y, c0)
	e.grid.Set(x1, y1, c1)
	e.insertPair(first, second)
	return nil
}

func (e *Engine) insertCell(el Element) int {
	e.grid.Set(el.X, el.Y, el.Color)
	return e.cells.Insert(el)
}

// insertPair stores two cells and links them to each other. The grid
// must already hold their colours.
func (e *Engine) insertPair(a, b Element) {
	ia := e.cells.Insert(a)
	ib := e.cells.Insert(b)
	e.cells.Get(ia).Friend = ib
	e.cells.Get(ib).Friend = ia
}

// killCell empties a cell's square and unfuses its partner.
func (e *Engine) killCell(slot int) {
	c := e.cells.Get(slot)
	if c == nil {
		return
	}
	e.grid.Set(c.X, c.Y, ColorEmpty)
	if c.Fused() {
		if friend := e.cells.Get(c.Friend); friend != nil {
			friend.unfuse()
		}
	}
	e.cells.Remove(slot)
}

// deleteElements kills the smiley or cell on each coordinate. Smileys
// score a point. Stones, blockers and empty squares are skipped and
// repeated coordinates count once.
func (e *Engine) deleteElements(coords []Coord) int {
	seen := mapset.New[Coord]()
	killed := 0
	for _, p := range coords {
		if !e.grid.InBounds(p.X, p.Y) || seen.Has(p) {
			continue
		}
		seen.Put(p)
		if slot, ok := e.smileys.At(p.X, p.Y); ok {
			s := e.smileys.Get(slot)
			e.deaths = append(e.deaths, Death{X: p.X, Y: p.Y, Color: s.Color, Smiley: true})
			e.grid.Set(p.X, p.Y, ColorEmpty)
			e.smileys.Remove(slot)
			e.score++
			e.smileysLeft--
			killed++
			continue
		}
		if slot, ok := e.cells.At(p.X, p.Y); ok {
			c := e.cells.Get(slot)
			e.deaths = append(e.deaths, Death{X: p.X, Y: p.Y, Color: c.Color})
			e.killCell(slot)
			killed++
		}
	}
	return killed
}

// Clear removes every alignment currently on the grid and returns what
// died. With no alignment it changes nothing.
func (e *Engine) Clear() []Death {
	dead := e.grid.Detect(e.alignLength)
	if len(dead) == 0 {
		return nil
	}
	before := len(e.deaths)
	e.deleteElements(dead)
	e.deleting = true
	cleared := append([]Death(nil), e.deaths[before:]...)
	if e.hooks.OnClear != nil && len(cleared) > 0 {
		e.hooks.OnClear(cleared)
	}
	return cleared
}

// CountCanFall returns how many cells gravity would move.
func (e *Engine) CountCanFall() int {
	n := 0
	e.cells.Each(func(_ int, c *Element) {
		if c.CanFall(e.grid, e.cells) {
			n++
		}
	})
	return n
}

// Gravity moves every cell that can fall down one row and returns how
// many moved. All fall flags are computed before anything moves.
func (e *Engine) Gravity() int {
	var movers []int
	e.cells.Each(func(slot int, c *Element) {
		if c.CanFall(e.grid, e.cells) {
			movers = append(movers, slot)
		}
	})
	e.shift([]shiftGroup{{e.cells, movers}}, 0, 1)
	return len(movers)
}

type shiftGroup struct {
	pool  *Pool
	slots []int
}

// shift moves elements of several pools by (dx, dy), clearing every
// source square before writing any destination.
func (e *Engine) shift(groups []shiftGroup, dx, dy int) {
	for _, g := range groups {
		for _, i := range g.slots {
			el := g.pool.Get(i)
			e.grid.Set(el.X, el.Y, ColorEmpty)
		}
	}
	for _, g := range groups {
		g.pool.Shift(g.slots, dx, dy)
		for _, i := range g.slots {
			el := g.pool.Get(i)
			e.grid.Set(el.X, el.Y, el.Color)
		}
	}
}

// elevate lifts every element one row. Cells and smileys on the top row
// are destroyed first; stones and blockers there are dropped.
func (e *Engine) elevate() {
	var top []Coord
	for x := 0; x < e.grid.Width(); x++ {
		if !e.grid.Empty(x, 0) {
			top = append(top, Coord{x, 0})
		}
	}
	if len(top) > 0 {
		e.deleting = true
	}
	e.deleteElements(top)
	for _, p := range []*Pool{e.events.stones, e.events.blockers} {
		for _, slot := range p.Slots() {
			if el := p.Get(slot); el.Y == 0 {
				e.grid.Set(el.X, el.Y, ColorEmpty)
				p.Remove(slot)
			}
		}
	}

	groups := []shiftGroup{
		{e.cells, e.cells.Slots()},
		{e.smileys, e.smileys.Slots()},
		{e.events.stones, e.events.stones.Slots()},
		{e.events.blockers, e.events.blockers.Slots()},
	}
	e.shift(groups, 0, -1)
}

// Start leaves the ready screen and lets Tick run.
func (e *Engine) Start() bool {
	if e.status != StatusReady {
		return false
	}
	e.status = StatusRunning
	return true
}

// TogglePause pauses a running game or resumes a paused one.
func (e *Engine) TogglePause() bool {
	switch e.status {
	case StatusRunning:
		e.status = StatusPaused
		return true
	case StatusPaused:
		e.status = StatusRunning
		return true
	}
	return false
}

// Tick advances the game by one frame. It does nothing unless running.
func (e *Engine) Tick() {
	e.step()
}

// step runs one frame and returns the delay until the next one.
func (e *Engine) step() time.Duration {
	if e.status != StatusRunning {
		return e.cfg.Timing.Fall
	}
	e.ticks++
	e.update()
	e.stagger()
	d := e.NextDelay()
	if e.status == StatusRunning {
		e.elapsed += d
	}
	return d
}

func (e *Engine) update() {
	switch {
	case e.settling:
		switch {
		case e.deleting:
			e.deleting = false
			e.deaths = nil
		case e.CountCanFall() == 0:
			e.down = false
			e.Clear()
			if e.CountCanFall() == 0 {
				e.settling = false
				e.finish = false
				e.endOfRound()
			}
		default:
			e.Gravity()
			e.deleting = false
			e.deaths = nil
		}
	case e.capsule == nil && !e.finish:
		e.spawn()
	case e.capsule != nil && e.capsule.CanFall():
		e.capsule.Fall()
		e.events.Decrease(false)
	case e.capsule != nil:
		e.lock()
	}
}

// spawn drops a new capsule with the buffered colours.
func (e *Engine) spawn() {
	e.spawnX = e.cfg.Width/2 - 1
	e.spawnY = e.cfg.SpawnRow
	if e.events.enabled && e.events.starter {
		var open []int
		for x := 0; x < e.cfg.Width-1; x++ {
			if !e.grid.Stuck(x, e.spawnY) {
				open = append(open, x)
			}
		}
		if len(open) > 0 {
			e.spawnX = open[e.rng.Intn(len(open))]
		}
	}
	if e.grid.Stuck(e.spawnX, e.spawnY) {
		e.lose()
		return
	}
	e.capsule = NewCapsule(e.grid, e.spawnX, e.spawnY, e.nextC0, e.nextC1)
	e.nextC0, e.nextC1 = e.randomColor(), e.randomColor()
	e.deleting = false
	e.deaths = nil
}

// lock turns the landed capsule into cells, or smileys under the sun
// event, then starts settling or ends the round.
func (e *Engine) lock() {
	c := e.capsule
	e.capsule = nil
	e.down = false

	if e.events.enabled && e.events.sun && e.smileys.Free() >= 2 {
		a, b := c.EndLifeSun()
		e.smileys.Insert(a)
		e.smileys.Insert(b)
		e.smileysLeft += 2
	} else {
		a, b := c.EndLife()
		e.insertPair(a, b)
	}

	if c.C0 == ColorBomb {
		bx, by := 2, 3
		if c.Horizontal {
			bx, by = 3, 2
		}
		var blast []Coord
		for i := -1; i < bx; i++ {
			for j := -1; j < by; j++ {
				blast = append(blast, Coord{c.X + i, c.Y + j})
			}
		}
		e.deleteElements(blast)
		e.deleting = true
	}

	e.events.Decrease(true)
	e.Clear()
	if e.deleting || e.CountCanFall() > 0 {
		e.settling = true
		e.finish = true
		return
	}
	e.endOfRound()
}

// endOfRound checks for a cleared board, then for a blocked spawn.
func (e *Engine) endOfRound() {
	if e.smileys.Len() == 0 {
		e.status = StatusWon
		e.down = false
		if e.hooks.OnWon != nil {
			e.hooks.OnWon(e.level, e.score)
		}
		return
	}
	if e.grid.Stuck(e.spawnX, e.spawnY) {
		e.lose()
	}
}

func (e *Engine) lose() {
	e.status = StatusLost
	e.down = false
	if e.hooks.OnLost != nil {
		e.hooks.OnLost(e.level, e.score)
	}
}

// stagger makes a random move while the alcoholic event is on.
func (e *Engine) stagger() {
	if !e.events.enabled || !e.events.alcoholic || e.capsule == nil || e.status != StatusRunning {
		return
	}
	n := 5
	if e.down {
		n = 15
	}
	switch e.rng.Intn(n) {
	case 0:
		e.capsule.Move(Left)
	case 1:
		e.capsule.Move(Right)
	case 2:
		e.capsule.Rotate()
	}
}

// NextDelay returns how long to wait before the next Tick.
func (e *Engine) NextDelay() time.Duration {
	t := e.cfg.Timing
	d := t.Fall
	switch {
	case e.deleting:
		d = t.Delete
	case e.settling:
		d = t.Gravity
	case e.down:
		d = t.Down
	}
	if e.speed > 0 && e.speed != 1 {
		d = time.Duration(math.Round(float64(d) / e.speed))
	}
	return d
}

// HandleAction applies a player command between ticks. It returns
// whether the command was taken. The first action on the ready screen
// starts the game and is otherwise ignored.
func (e *Engine) HandleAction(a Action) bool {
	if e.status == StatusReady {
		if a != ActionNone {
			e.Start()
		}
		return false
	}
	if a == ActionPause {
		return e.TogglePause()
	}
	if e.status != StatusRunning || e.capsule == nil {
		return false
	}
	e.down = false
	if e.events.mirror {
		a = a.mirrored()
	}
	switch a {
	case ActionRotate:
		e.capsule.Rotate()
	case ActionDrop:
		e.down = true
	case ActionLeft:
		e.capsule.Move(Left)
	case ActionRight:
		e.capsule.Move(Right)
	default:
		return false
	}
	return true
}

// MenuSelect handles a menu button: start, pick level i×step, back to
// title, resume, exit, or switch events on (i == 0) and off.
func (e *Engine) MenuSelect(id, i int) bool {
	switch id {
	case MenuStart:
		e.initLevel(e.level)
	case MenuLevel:
		e.level = i * e.cfg.LevelStep
		e.score = e.cfg.CountScore(e.level)
	case MenuTitle:
		e.reset()
		e.smileys = NewPool(0, e.cfg.Width)
		e.smileysLeft = 0
		e.elapsed = 0
		e.status = StatusTitle
	case MenuResume:
		return e.status == StatusPaused && e.TogglePause()
	case MenuExit:
		e.status = StatusTitle
	case MenuEvents:
		e.events.SetEnabled(i == 0)
	default:
		return false
	}
	return true
}

// SetEventsEnabled switches the event system.
func (e *Engine) SetEventsEnabled(on bool) {
	e.events.SetEnabled(on)
}

// SetTiming replaces the tick delays.
func (e *Engine) SetTiming(t Timing) {
	e.cfg.Timing = t
}

// NextColors returns the colours of the next capsule.
func (e *Engine) NextColors() (Color, Color) {
	return e.nextC0, e.nextC1
}

// SetNextColors overrides the colours of the next capsule.
func (e *Engine) SetNextColors(c0, c1 Color) {
	e.nextC0, e.nextC1 = c0, c1
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Grid returns the live grid. Callers must treat it as read-only.
func (e *Engine) Grid() *Grid { return e.grid }

// Events returns the event handler.
func (e *Engine) Events() *EventHandler { return e.events }

// Status returns the run state.
func (e *Engine) Status() Status { return e.status }

// Score returns the number of smileys destroyed, including earlier levels.
func (e *Engine) Score() int { return e.score }

// Level returns the current level number.
func (e *Engine) Level() int { return e.level }

// SmileysLeft returns the number of live smileys.
func (e *Engine) SmileysLeft() int { return e.smileysLeft }

// Elapsed returns the accumulated tick delays of the current game.
func (e *Engine) Elapsed() time.Duration { return e.elapsed }

// AlignLength returns the run length currently needed to clear.
func (e *Engine) AlignLength() int { return e.alignLength }

// ColorMax returns the number of colours currently drawn.
func (e *Engine) ColorMax() int { return e.colorMax }

// Speed returns the tick speed multiplier.
func (e *Engine) Speed() float64 { return e.speed }

// Won reports whether the last round cleared every smiley.
func (e *Engine) Won() bool { return e.status == StatusWon }

// Lost reports whether the spawn point got blocked.
func (e *Engine) Lost() bool { return e.status == StatusLost }

// Settling reports whether gravity or a cascade is in progress.
func (e *Engine) Settling() bool { return e.settling }

// DownHeld reports whether the soft drop is on.
func (e *Engine) DownHeld() bool { return e.down }

// Deaths returns the elements destroyed since the last visual frame.
func (e *Engine) Deaths() []Death { return append([]Death(nil), e.deaths...) }

// Cells returns a copy of the live cells.
func (e *Engine) Cells() []Element { return e.cells.Elements() }

// Smileys returns a copy of the live smileys.
func (e *Engine) Smileys() []Element { return e.smileys.Elements() }

// Stones returns a copy of the stones placed by events.
func (e *Engine) Stones() []Element { return e.events.stones.Elements() }

// Blockers returns a copy of the blocker zone elements.
func (e *Engine) Blockers() []Element { return e.events.blockers.Elements() }

// HasCapsule reports whether a capsule is falling.
func (e *Engine) HasCapsule() bool { return e.capsule != nil }

// SpawnPoint returns where the last capsule spawned.
func (e *Engine) SpawnPoint() (int, int) { return e.spawnX, e.spawnY }


// Ticks returns the number of frames run.
func (e *Engine) Ticks() uint64 { return e.ticks }
