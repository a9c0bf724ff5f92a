package engine

// EventID identifies one of the timed rule twists.
type EventID int

const (
	EventBomb EventID = iota
	EventLocker
	EventThree
	EventShuffler
	EventBlocker
	EventElevator
	EventGreen
	EventExit
	EventStone
	EventCutter
	EventGift
	EventEraser
	EventAlcoholic
	EventFive
	EventSun
	EventStarter
	EventJoker
	EventGhost
	EventMirror
	EventSpeeder

	// EventCount is the number of events.
	EventCount
)

var eventNames = [EventCount]string{
	"bomb", "locker", "three", "shuffler", "blocker",
	"elevator", "green", "exit", "stone", "cutter",
	"gift", "eraser", "alcoholic", "five", "sun",
	"starter", "joker", "ghost", "mirror", "speeder",
}

func (id EventID) String() string {
	if id < 0 || id >= EventCount {
		return "none"
	}
	return eventNames[id]
}

// EventState is the phase of the event cycle.
type EventState int

const (
	EventWaiting EventState = iota
	EventSelecting
	EventActive
)

func (s EventState) String() string {
	switch s {
	case EventWaiting:
		return "waiting"
	case EventSelecting:
		return "selecting"
	case EventActive:
		return "active"
	default:
		return "unknown"
	}
}

// EventConfig tunes the event cycle. Durations are counted in
// Decrease calls, which happen once per capsule fall and once per lock.
type EventConfig struct {
	Enabled       bool
	AverageDelay  int
	Selection     int
	DurationMin   int
	DurationMax   int
	DurationUnit  int
	GhostDuration int
	StoneCapacity int
	BlockerWidth  int
	BlockerHeight int
}

// DefaultEventConfig returns the standard event tuning.
func DefaultEventConfig() EventConfig {
	return EventConfig{
		Enabled:       true,
		AverageDelay:  45,
		Selection:     20,
		DurationMin:   3,
		DurationMax:   5,
		DurationUnit:  6,
		GhostDuration: 2,
		StoneCapacity: 5,
		BlockerWidth:  4,
		BlockerHeight: 4,
	}
}

// EventHandler runs the waiting → selecting → active cycle and applies
// or reverts each event's effect on the engine.
type EventHandler struct {
	game *Engine
	cfg  EventConfig

	enabled      bool
	order        [EventCount]EventID
	current      EventID
	state        EventState
	counter      int
	counterTotal int

	stones   *Pool
	blockers *Pool

	alcoholic bool
	ghost     bool
	mirror    bool
	starter   bool
	blocker   bool
	sun       bool
}

func newEventHandler(game *Engine, cfg EventConfig) *EventHandler {
	h := &EventHandler{
		game:     game,
		cfg:      cfg,
		enabled:  cfg.Enabled,
		current:  -1,
		stones:   NewPool(cfg.StoneCapacity, game.grid.Width()),
		blockers: NewPool(cfg.BlockerWidth*cfg.BlockerHeight, game.grid.Width()),
	}
	for i := range h.order {
		h.order[i] = EventID(i)
	}
	h.Reset()
	return h
}

// Reset reverts the current event and restarts the cycle.
func (h *EventHandler) Reset() {
	if h.state == EventActive {
		h.apply(false)
	}
	h.stones.Reset()
	h.blockers.Reset()
	h.alcoholic, h.ghost, h.mirror, h.starter, h.blocker, h.sun = false, false, false, false, false, false
	h.current = -1
	h.state = EventWaiting
	h.counterTotal = h.cfg.AverageDelay
	h.counter = h.counterTotal
}

// SetEnabled turns the event system on or off. Turning it off reverts
// an active event.
func (h *EventHandler) SetEnabled(on bool) {
	if h.enabled == on {
		return
	}
	if !on && h.state == EventActive {
		h.apply(false)
		h.game.hooks.eventChanged(h.current, false)
	}
	h.enabled = on
	h.current = -1
	h.state = EventWaiting
	h.counterTotal = h.cfg.AverageDelay
	h.counter = h.counterTotal
}

// Enabled reports whether the cycle runs.
func (h *EventHandler) Enabled() bool { return h.enabled }

// Current returns the selected event, or -1 before the first selection.
func (h *EventHandler) Current() EventID { return h.current }

// State returns the cycle phase.
func (h *EventHandler) State() EventState { return h.state }

// Order returns the last drawn permutation of event ids.
func (h *EventHandler) Order() []EventID {
	out := make([]EventID, EventCount)
	copy(out, h.order[:])
	return out
}

// Progress returns the fraction of the current phase still to run.
func (h *EventHandler) Progress() float64 {
	if h.counterTotal <= 0 || h.counter <= 0 {
		return 0
	}
	return float64(h.counter) / float64(h.counterTotal)
}

// Decrease counts down one step. Phase changes only happen on a lock
// (arrived) once the counter has run out. It returns false when the
// event system is off.
func (h *EventHandler) Decrease(arrived bool) bool {
	if !h.enabled {
		return false
	}
	h.counter--
	if h.counter > 0 || !arrived {
		return true
	}

	switch h.state {
	case EventWaiting:
		h.selectEvent()
		h.counterTotal = h.cfg.Selection
	case EventSelecting:
		h.counterTotal = h.apply(true)
		h.game.hooks.eventChanged(h.current, true)
	case EventActive:
		h.apply(false)
		h.game.hooks.eventChanged(h.current, false)
		h.counterTotal = h.cfg.AverageDelay
	}
	h.counter = h.counterTotal
	h.state = (h.state + 1) % 3
	return true
}

// selectEvent draws a uniform permutation and picks its last entry.
func (h *EventHandler) selectEvent() {
	for i := range h.order {
		h.order[i] = EventID(i)
	}
	rng := h.game.rng
	for i := len(h.order) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		h.order[i], h.order[j] = h.order[j], h.order[i]
	}
	h.current = h.order[len(h.order)-1]
}

func (h *EventHandler) randomDuration() int {
	span := h.cfg.DurationMax - h.cfg.DurationMin + 1
	if span < 1 {
		span = 1
	}
	return (h.game.rng.Intn(span) + h.cfg.DurationMin) * h.cfg.DurationUnit
}

// apply activates or reverts the current event and returns how long it
// stays active. Instant events last 1.
func (h *EventHandler) apply(activate bool) int {
	g := h.game
	switch h.current {
	case EventBomb:
		if activate {
			g.SetNextColors(ColorBomb, ColorBomb)
			return 1
		}
	case EventLocker:
		return h.alignOverride(activate, g.grid.Width()+g.grid.Height())
	case EventThree:
		return h.alignOverride(activate, g.cfg.AlignLength-1)
	case EventFive:
		return h.alignOverride(activate, g.cfg.AlignLength+1)
	case EventShuffler:
		if activate {
			g.smileys.Each(func(_ int, s *Element) {
				s.Color = g.randomColor()
				g.grid.Set(s.X, s.Y, s.Color)
			})
			return 1
		}
	case EventBlocker:
		return h.applyBlocker(activate)
	case EventElevator:
		if activate {
			g.elevate()
			return 1
		}
	case EventGreen:
		if activate {
			g.colorMax = min(g.cfg.ColorMax+1, ColorCount)
			return h.randomDuration()
		}
		g.colorMax = g.cfg.ColorMax
	case EventExit:
		if activate {
			var dead []Coord
			g.smileys.Each(func(_ int, s *Element) {
				dead = append(dead, Coord{s.X, s.Y})
			})
			g.deleteElements(dead)
			g.deleting = true
			return 1
		}
	case EventStone:
		if activate {
			h.placeStone()
			return 1
		}
	case EventCutter:
		if activate {
			h.cutRow()
			return 1
		}
	case EventGift:
		if activate {
			for x := 0; x < g.grid.Width(); x++ {
				if g.grid.Empty(x, 0) {
					g.insertCell(newElement(x, 0, g.randomColor(), KindCell))
				}
			}
			return 1
		}
	case EventEraser:
		if activate {
			h.erase(g.randomColor())
			return 1
		}
	case EventAlcoholic:
		h.alcoholic = activate
		if activate {
			return h.randomDuration()
		}
	case EventSun:
		h.sun = activate && g.smileys.Free() >= 2
		if activate {
			return 1
		}
	case EventStarter:
		h.starter = activate
		if activate {
			return h.randomDuration()
		}
	case EventJoker:
		if activate {
			c0, c1 := g.NextColors()
			if g.rng.Intn(2) == 0 {
				c0 = ColorJoker
			} else {
				c1 = ColorJoker
			}
			g.SetNextColors(c0, c1)
			return 1
		}
	case EventGhost:
		h.ghost = activate
		if activate {
			return h.cfg.GhostDuration
		}
	case EventMirror:
		h.mirror = activate
		if activate {
			return h.randomDuration()
		}
	case EventSpeeder:
		if activate {
			g.speed = 2
			return h.randomDuration()
		}
		g.speed = 1
	}
	return 0
}

func (h *EventHandler) alignOverride(activate bool, length int) int {
	if !activate {
		h.game.alignLength = h.game.cfg.AlignLength
		return 0
	}
	h.game.alignLength = length
	return h.randomDuration()
}

// blockerZone lists the zone cells: a rectangle under the spawn area
// without its two top corners.
func (h *EventHandler) blockerZone() []Coord {
	g := h.game
	x0 := g.grid.Width()/2 - h.cfg.BlockerWidth/2
	y0 := g.cfg.SmileyFloor
	var zone []Coord
	for i := 0; i < h.cfg.BlockerWidth; i++ {
		for j := 0; j < h.cfg.BlockerHeight; j++ {
			if j == 0 && (i == 0 || i == h.cfg.BlockerWidth-1) {
				continue
			}
			if g.grid.InBounds(x0+i, y0+j) {
				zone = append(zone, Coord{x0 + i, y0 + j})
			}
		}
	}
	return zone
}

func (h *EventHandler) applyBlocker(activate bool) int {
	g := h.game
	h.blocker = activate
	g.deleting = true
	if !activate {
		h.blockers.Each(func(_ int, b *Element) {
			g.grid.Set(b.X, b.Y, ColorEmpty)
		})
		h.blockers.Reset()
		return 0
	}

	zone := h.blockerZone()
	g.deleteElements(zone)
	for _, p := range zone {
		if !g.grid.Empty(p.X, p.Y) {
			continue
		}
		h.blockers.Insert(newElement(p.X, p.Y, ColorBlocker, KindBlocker))
		g.grid.Set(p.X, p.Y, ColorBlocker)
	}
	return h.randomDuration()
}

// placeStone kills whatever sits on a random cell below the top row and
// puts a stone there. Nothing happens when the stone pool is full.
func (h *EventHandler) placeStone() {
	g := h.game
	if h.stones.Free() == 0 || g.grid.Height() < 2 {
		return
	}
	w, ht := g.grid.Width(), g.grid.Height()
	for attempt := 0; attempt < w*ht; attempt++ {
		x := g.rng.Intn(w)
		y := g.rng.Intn(ht-1) + 1
		if _, ok := h.stones.At(x, y); ok {
			continue
		}
		if _, ok := h.blockers.At(x, y); ok {
			continue
		}
		g.deleteElements([]Coord{{x, y}})
		h.stones.Insert(newElement(x, y, ColorStone, KindStone))
		g.grid.Set(x, y, ColorStone)
		return
	}
}

// cutRow deletes one random non-empty row.
func (h *EventHandler) cutRow() {
	g := h.game
	var rows []int
	for y := 0; y < g.grid.Height(); y++ {
		for x := 0; x < g.grid.Width(); x++ {
			if !g.grid.Empty(x, y) {
				rows = append(rows, y)
				break
			}
		}
	}
	if len(rows) == 0 {
		return
	}
	y := rows[g.rng.Intn(len(rows))]
	dead := make([]Coord, 0, g.grid.Width())
	for x := 0; x < g.grid.Width(); x++ {
		dead = append(dead, Coord{x, y})
	}
	g.deleteElements(dead)
	g.deleting = true
}

// erase deletes every cell and smiley of colour c.
func (h *EventHandler) erase(c Color) {
	g := h.game
	var dead []Coord
	collect := func(_ int, e *Element) {
		if e.Color == c {
			dead = append(dead, Coord{e.X, e.Y})
		}
	}
	g.smileys.Each(collect)
	g.cells.Each(collect)
	g.deleteElements(dead)
	g.deleting = true
}
