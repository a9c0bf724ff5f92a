package engine

// Kind tells what a placed element is and which capabilities it has.
type Kind uint8

const (
	// KindCell is a capsule half after landing. It falls and can be fused.
	KindCell Kind = iota
	// KindSmiley is a fixed target. Destroying every smiley wins the level.
	KindSmiley
	// KindStone is a fixed obstacle that is never matched.
	KindStone
	// KindBlocker fills the blocker event zone.
	KindBlocker
)

func (k Kind) String() string {
	switch k {
	case KindCell:
		return "cell"
	case KindSmiley:
		return "smiley"
	case KindStone:
		return "stone"
	case KindBlocker:
		return "blocker"
	default:
		return "unknown"
	}
}

// NoFriend marks an unfused element.
const NoFriend = -1

// Element is a placed unit on the grid.
type Element struct {
	X, Y  int
	Color Color
	Kind  Kind

	// Horizontal and TopLeft describe the pair an element is fused into.
	// Both are false for unfused elements.
	Horizontal bool
	TopLeft    bool

	// Friend is the pool slot of the fused partner, or NoFriend.
	Friend int
}

func newElement(x, y int, c Color, k Kind) Element {
	return Element{X: x, Y: y, Color: c, Kind: k, Friend: NoFriend}
}

// Fused reports whether the element has a partner.
func (e *Element) Fused() bool {
	return e.Friend != NoFriend
}

// Destructible reports whether alignments, blasts and events may kill it.
func (e *Element) Destructible() bool {
	return e.Kind == KindCell || e.Kind == KindSmiley
}

// CanFallIndividually reports whether the cell below is inside the grid
// and empty. Only cells move.
func (e *Element) CanFallIndividually(g *Grid) bool {
	if e.Kind != KindCell {
		return false
	}
	return e.Y < g.Height()-1 && g.Empty(e.X, e.Y+1)
}

// CanFall applies the fused-pair rule: a horizontal pair falls only when
// both halves can, a vertical pair follows its bottom half.
func (e *Element) CanFall(g *Grid, p *Pool) bool {
	if e.Kind != KindCell {
		return false
	}
	if !e.Fused() {
		return e.CanFallIndividually(g)
	}
	friend := p.Get(e.Friend)
	if friend == nil {
		panic("smiletris: fused cell points at an empty slot")
	}
	if e.Horizontal {
		return e.CanFallIndividually(g) && friend.CanFallIndividually(g)
	}
	if e.TopLeft {
		return friend.CanFallIndividually(g)
	}
	return e.CanFallIndividually(g)
}

// unfuse clears the pair fields.
func (e *Element) unfuse() {
	e.Friend = NoFriend
	e.Horizontal = false
	e.TopLeft = false
}
