// Package engine implements the Smiletris rules: a grid of colour codes,
// the falling capsule, fused cells, smileys, and the timed event system.
// It has no rendering or input code; collaborators drive it through Tick
// and HandleAction and read it back through Snapshot.
package engine

// Color is a grid colour code.
type Color int

// Colour codes stored in the grid.
const (
	ColorEmpty   Color = 0
	ColorStone   Color = 1
	ColorYellow  Color = 2
	ColorBlue    Color = 3
	ColorPurple  Color = 4
	ColorGreen   Color = 5
	ColorJoker   Color = 7
	ColorBomb    Color = 8
	ColorBlocker Color = 9
)

// ColorCount is the number of drawable capsule colours.
const ColorCount = int(ColorGreen-ColorYellow) + 1

// Matchable reports whether the code can take part in an alignment.
func (c Color) Matchable() bool {
	return c >= ColorYellow && c <= ColorJoker
}

// Coord is a grid position. Y grows downwards.
type Coord struct {
	X, Y int
}

// Grid is a width×height matrix of colour codes, stored column-major.
type Grid struct {
	width  int
	height int
	cells  []Color
}

// NewGrid creates an empty grid.
func NewGrid(width, height int) *Grid {
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]Color, width*height),
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y) lies inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// At returns the code at (x, y). Out-of-range reads return ColorEmpty.
func (g *Grid) At(x, y int) Color {
	if !g.InBounds(x, y) {
		return ColorEmpty
	}
	return g.cells[x*g.height+y]
}

// Empty reports whether (x, y) is inside the grid and unoccupied.
func (g *Grid) Empty(x, y int) bool {
	return g.InBounds(x, y) && g.cells[x*g.height+y] == ColorEmpty
}

// Set writes a code. Out-of-range writes panic.
func (g *Grid) Set(x, y int, c Color) {
	if !g.InBounds(x, y) {
		panic("smiletris: grid write out of range")
	}
	g.cells[x*g.height+y] = c
}

// Reset clears every cell.
func (g *Grid) Reset() {
	for i := range g.cells {
		g.cells[i] = ColorEmpty
	}
}

// Rows returns a copy of the grid indexed [y][x].
func (g *Grid) Rows() [][]Color {
	rows := make([][]Color, g.height)
	for y := range rows {
		rows[y] = make([]Color, g.width)
		for x := range rows[y] {
			rows[y][x] = g.cells[x*g.height+y]
		}
	}
	return rows
}

// Stuck reports whether a horizontal capsule anchored at (x, y) would
// overlap an occupied cell.
func (g *Grid) Stuck(x, y int) bool {
	return !g.Empty(x, y) || !g.Empty(x+1, y)
}

// Occupied counts non-empty cells.
func (g *Grid) Occupied() int {
	n := 0
	for _, c := range g.cells {
		if c != ColorEmpty {
			n++
		}
	}
	return n
}

// view is one of the four projections scanned by Detect. cols holds the
// projected columns; back maps a (column, row) of the projection to the
// grid coordinate it came from.
type view struct {
	cols [][]Color
	back func(col, row int) Coord
}

func (g *Grid) verticalView() view {
	cols := make([][]Color, g.width)
	for x := range cols {
		cols[x] = g.cells[x*g.height : (x+1)*g.height]
	}
	return view{cols: cols, back: func(col, row int) Coord { return Coord{col, row} }}
}

func (g *Grid) horizontalView() view {
	cols := make([][]Color, g.height)
	for y := range cols {
		cols[y] = make([]Color, g.width)
		for x := 0; x < g.width; x++ {
			cols[y][x] = g.cells[x*g.height+y]
		}
	}
	return view{cols: cols, back: func(col, row int) Coord { return Coord{row, col} }}
}

// shearView shifts row y of the grid by start+sign*y so that diagonals
// become columns of a (w+h-1)×h buffer. Padding stays empty.
func (g *Grid) shearView(start, sign int) view {
	cols := make([][]Color, g.width+g.height-1)
	for i := range cols {
		cols[i] = make([]Color, g.height)
	}
	for x := 0; x < g.width; x++ {
		for y := 0; y < g.height; y++ {
			cols[start+x+sign*y][y] = g.cells[x*g.height+y]
		}
	}
	return view{cols: cols, back: func(col, row int) Coord {
		return Coord{col - start - sign*row, row}
	}}
}

// Detect returns every coordinate belonging to a run of at least
// alignLength matching codes, vertically, horizontally or on either
// diagonal. A coordinate on two runs appears twice.
func (g *Grid) Detect(alignLength int) []Coord {
	if alignLength < 1 {
		alignLength = 1
	}
	views := []view{
		g.verticalView(),
		g.horizontalView(),
		g.shearView(0, 1),
		g.shearView(g.height-1, -1),
	}

	var found []Coord
	for _, v := range views {
		for ci, col := range v.cols {
			scanRuns(col, alignLength, func(from, to int) {
				for row := from; row < to; row++ {
					found = append(found, v.back(ci, row))
				}
			})
		}
	}
	return found
}

// scanRuns calls emit(from, to) for every run in col of length at least
// minLen. Jokers extend any run; a run that starts on a colour change
// takes over the jokers trailing the previous run.
func scanRuns(col []Color, minLen int, emit func(from, to int)) {
	start := -1
	runColor := ColorEmpty
	jokers := 0

	flush := func(end int) {
		if start >= 0 && end-start >= minLen {
			emit(start, end)
		}
	}

	for i, c := range col {
		switch {
		case !c.Matchable():
			flush(i)
			start, runColor, jokers = -1, ColorEmpty, 0
		case c == ColorJoker:
			if start < 0 {
				start = i
			}
			jokers++
		case start >= 0 && (runColor == ColorEmpty || runColor == c):
			runColor, jokers = c, 0
		default:
			flush(i)
			start, runColor, jokers = i-jokers, c, 0
		}
	}
	flush(len(col))
}
