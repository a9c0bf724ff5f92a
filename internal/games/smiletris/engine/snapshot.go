package engine

import "time"

// CapsuleView is a copy of the falling capsule.
type CapsuleView struct {
	X, Y       int
	Horizontal bool
	C0, C1     Color
}

// EventView is a copy of the event cycle.
type EventView struct {
	Enabled  bool
	Current  EventID
	State    EventState
	Progress float64
	Ghost    bool
	Mirror   bool
	Blocker  bool
}

// Snapshot is a read-only copy of everything a renderer needs.
type Snapshot struct {
	Status      Status
	Level       int
	Score       int
	SmileysLeft int
	Elapsed     time.Duration
	Ticks       uint64

	Width  int
	Height int
	// Rows is the grid indexed [y][x].
	Rows [][]Color

	Capsule    *CapsuleView
	Next       [2]Color
	Cells      []Element
	Smileys    []Element
	Stones     []Element
	Blockers   []Element
	Deaths     []Death
	DownHeld   bool
	Settling   bool
	Align      int
	ColorMax   int
	Speed      float64
	Event      EventView
	SpawnPoint Coord
}

// Snapshot copies the engine state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Status:      e.status,
		Level:       e.level,
		Score:       e.score,
		SmileysLeft: e.smileysLeft,
		Elapsed:     e.elapsed,
		Ticks:       e.ticks,
		Width:       e.grid.Width(),
		Height:      e.grid.Height(),
		Rows:        e.grid.Rows(),
		Next:        [2]Color{e.nextC0, e.nextC1},
		Cells:       e.Cells(),
		Smileys:     e.Smileys(),
		Stones:      e.Stones(),
		Blockers:    e.Blockers(),
		Deaths:      e.Deaths(),
		DownHeld:    e.down,
		Settling:    e.settling,
		Align:       e.alignLength,
		ColorMax:    e.colorMax,
		Speed:       e.speed,
		SpawnPoint:  Coord{e.spawnX, e.spawnY},
		Event: EventView{
			Enabled:  e.events.enabled,
			Current:  e.events.current,
			State:    e.events.state,
			Progress: e.events.Progress(),
			Ghost:    e.events.enabled && e.events.ghost,
			Mirror:   e.events.enabled && e.events.mirror,
			Blocker:  e.events.enabled && e.events.blocker,
		},
	}
	if c := e.capsule; c != nil {
		s.Capsule = &CapsuleView{X: c.X, Y: c.Y, Horizontal: c.Horizontal, C0: c.C0, C1: c.C1}
	}
	return s
}
