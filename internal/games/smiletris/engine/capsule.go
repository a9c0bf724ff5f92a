package engine

// Direction is a horizontal move direction.
type Direction int

const (
	Left Direction = iota
	Right
)

// Capsule is the falling two-cell piece. (X, Y) is its top-left cell,
// which always holds C0. The capsule writes itself into the grid and
// keeps the grid in step with every move.
type Capsule struct {
	X, Y       int
	Horizontal bool
	C0, C1     Color

	grid *Grid
}

// NewCapsule places a horizontal capsule at (x, y) and (x+1, y).
func NewCapsule(g *Grid, x, y int, c0, c1 Color) *Capsule {
	c := &Capsule{X: x, Y: y, Horizontal: true, C0: c0, C1: c1, grid: g}
	g.Set(x, y, c0)
	g.Set(x+1, y, c1)
	return c
}

// Second returns the position of the C1 half.
func (c *Capsule) Second() Coord {
	if c.Horizontal {
		return Coord{c.X + 1, c.Y}
	}
	return Coord{c.X, c.Y + 1}
}

// CanFall reports whether the row(s) below the capsule are free.
func (c *Capsule) CanFall() bool {
	g := c.grid
	if c.Horizontal {
		return c.Y < g.Height()-1 && g.Empty(c.X, c.Y+1) && g.Empty(c.X+1, c.Y+1)
	}
	return c.Y < g.Height()-2 && g.Empty(c.X, c.Y+2)
}

// Fall moves the capsule down one row.
func (c *Capsule) Fall() bool {
	if !c.CanFall() {
		return false
	}
	g := c.grid
	if c.Horizontal {
		g.Set(c.X, c.Y, ColorEmpty)
		g.Set(c.X+1, c.Y, ColorEmpty)
		c.Y++
		g.Set(c.X, c.Y, c.C0)
		g.Set(c.X+1, c.Y, c.C1)
		return true
	}
	g.Set(c.X, c.Y, ColorEmpty)
	g.Set(c.X, c.Y+1, c.C0)
	g.Set(c.X, c.Y+2, c.C1)
	c.Y++
	return true
}

// CanRotate reports whether a counter-clockwise rotation has room.
func (c *Capsule) CanRotate() bool {
	g := c.grid
	if c.Horizontal {
		if c.Y == 0 {
			return false
		}
		return g.Empty(c.X, c.Y-1) || g.Empty(c.X+1, c.Y-1)
	}
	switch c.X {
	case 0:
		return g.Empty(c.X+1, c.Y+1)
	case g.Width() - 1:
		return g.Empty(c.X-1, c.Y+1)
	default:
		return g.Empty(c.X-1, c.Y+1) || g.Empty(c.X+1, c.Y+1)
	}
}

// Rotate turns the capsule counter-clockwise. A horizontal capsule
// stands up over its left half when possible, otherwise over its right
// half; a vertical one lies down to the right when possible, otherwise
// to the left. C0 stays the top or left half.
func (c *Capsule) Rotate() bool {
	if !c.CanRotate() {
		return false
	}
	g := c.grid
	if c.Horizontal {
		c.Horizontal = false
		if g.Empty(c.X, c.Y-1) {
			g.Set(c.X+1, c.Y, ColorEmpty)
			c.Y--
			g.Set(c.X, c.Y, c.C1)
		} else {
			g.Set(c.X, c.Y, ColorEmpty)
			c.X++
			c.Y--
			g.Set(c.X, c.Y+1, c.C0)
			g.Set(c.X, c.Y, c.C1)
		}
		c.C0, c.C1 = c.C1, c.C0
		return true
	}

	c.Horizontal = true
	if c.X != g.Width()-1 && g.Empty(c.X+1, c.Y+1) {
		g.Set(c.X, c.Y, ColorEmpty)
		c.Y++
		g.Set(c.X, c.Y, c.C0)
		g.Set(c.X+1, c.Y, c.C1)
		return true
	}
	g.Set(c.X, c.Y, ColorEmpty)
	c.X--
	c.Y++
	g.Set(c.X, c.Y, c.C0)
	return true
}

// CanMove reports whether the capsule can shift one column.
func (c *Capsule) CanMove(dir Direction) bool {
	g := c.grid
	if dir == Left && c.X == 0 {
		return false
	}
	if dir == Right && (c.X == g.Width()-1 || (c.Horizontal && c.X == g.Width()-2)) {
		return false
	}
	if c.Horizontal {
		if dir == Left {
			return g.Empty(c.X-1, c.Y)
		}
		return g.Empty(c.X+2, c.Y)
	}
	if dir == Left {
		return g.Empty(c.X-1, c.Y) && g.Empty(c.X-1, c.Y+1)
	}
	return g.Empty(c.X+1, c.Y) && g.Empty(c.X+1, c.Y+1)
}

// Move shifts the capsule one column.
func (c *Capsule) Move(dir Direction) bool {
	if !c.CanMove(dir) {
		return false
	}
	g := c.grid
	old := []Coord{{c.X, c.Y}, c.Second()}
	if dir == Left {
		c.X--
	} else {
		c.X++
	}
	for _, p := range old {
		g.Set(p.X, p.Y, ColorEmpty)
	}
	g.Set(c.X, c.Y, c.C0)
	second := c.Second()
	g.Set(second.X, second.Y, c.C1)
	return true
}

// EndLife turns the capsule into two fused cells: the top-left one
// first. The grid already holds their colours. Friend links are set
// when the pair is inserted into a pool.
func (c *Capsule) EndLife() (Element, Element) {
	first := newElement(c.X, c.Y, c.C0, KindCell)
	first.Horizontal = c.Horizontal
	first.TopLeft = true

	p := c.Second()
	second := newElement(p.X, p.Y, c.C1, KindCell)
	second.Horizontal = c.Horizontal
	return first, second
}

// EndLifeSun turns the capsule into two unfused smileys.
func (c *Capsule) EndLifeSun() (Element, Element) {
	p := c.Second()
	return newElement(c.X, c.Y, c.C0, KindSmiley), newElement(p.X, p.Y, c.C1, KindSmiley)
}
