package smiletris

import (
	"fmt"
	"time"

	"github.com/zyedidia/generic/mapset"

	"github.com/vovakirdan/smiletris/internal/core"
	"github.com/vovakirdan/smiletris/internal/games/smiletris/engine"
)

const (
	cellWidth = 2  // Characters per grid square
	hudWidth  = 22 // Width of the side panel
	hudGap    = 2
)

// layoutSize returns the screen size needed for the board and the HUD.
func (g *Game) layoutSize() (int, int) {
	cfg := g.engine.Config()
	w := cfg.Width*cellWidth + 2 + hudGap + hudWidth
	h := cfg.Height + 3 // Title row plus board borders
	return w, h
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.engine == nil {
		return
	}

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	snap := g.engine.Snapshot()
	w, h := g.layoutSize()
	ox := max((g.screenW-w)/2, 0)
	oy := max((g.screenH-h)/2, 0)

	board := core.NewRect(ox, oy+1, snap.Width*cellWidth+2, snap.Height+2)
	title := "SMILETRIS"
	dst.DrawTextColored(board.X+(board.W-len(title))/2, oy, title, core.ColorBrightYellow)
	dst.DrawBox(board, core.ColorGray)

	g.renderBoard(dst, snap, board.Inset(1))
	g.renderHUD(dst, snap, board.Right()+hudGap, board.Y)
	g.renderOverlays(dst, snap, board)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	w, h := g.layoutSize()
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", w, h))
}

// renderBoard draws every grid square, the falling capsule and the
// squares destroyed this frame.
func (g *Game) renderBoard(dst *core.Screen, snap engine.Snapshot, area core.Rect) {
	smileys := mapset.New[engine.Coord]()
	for _, s := range snap.Smileys {
		smileys.Put(engine.Coord{X: s.X, Y: s.Y})
	}
	capsule := mapset.New[engine.Coord]()
	if c := snap.Capsule; c != nil {
		capsule.Put(engine.Coord{X: c.X, Y: c.Y})
		if c.Horizontal {
			capsule.Put(engine.Coord{X: c.X + 1, Y: c.Y})
		} else {
			capsule.Put(engine.Coord{X: c.X, Y: c.Y + 1})
		}
	}

	for y, row := range snap.Rows {
		for x, c := range row {
			p := engine.Coord{X: x, Y: y}
			px, py := area.X+x*cellWidth, area.Y+y

			if capsule.Has(p) {
				if snap.Event.Ghost {
					continue
				}
				drawGlyph(dst, px, py, "[]", squareColor(c))
				continue
			}
			if c == engine.ColorEmpty {
				continue
			}
			text, color := glyph(c, smileys.Has(p))
			drawGlyph(dst, px, py, text, color)
		}
	}

	for _, d := range snap.Deaths {
		if d.Y >= 0 && d.Y < snap.Height {
			drawGlyph(dst, area.X+d.X*cellWidth, area.Y+d.Y, "**", core.ColorWhite)
		}
	}
}

func drawGlyph(dst *core.Screen, x, y int, text string, c core.Color) {
	dst.DrawTextColored(x, y, text, c)
}

// glyph returns the two-character text of a settled square.
func glyph(c engine.Color, smiley bool) (string, core.Color) {
	switch {
	case smiley:
		return ":)", squareColor(c)
	case c == engine.ColorStone:
		return "##", core.ColorGray
	case c == engine.ColorBlocker:
		return "▓▓", core.ColorOrange
	case c == engine.ColorBomb:
		return "<>", core.ColorBrightRed
	case c == engine.ColorJoker:
		return "??", core.ColorCyan
	default:
		return "()", squareColor(c)
	}
}

// squareColor maps an engine color to a screen color.
func squareColor(c engine.Color) core.Color {
	switch c {
	case engine.ColorYellow:
		return core.ColorBrightYellow
	case engine.ColorBlue:
		return core.ColorBrightBlue
	case engine.ColorPurple:
		return core.ColorBrightMagenta
	case engine.ColorGreen:
		return core.ColorGreen
	case engine.ColorJoker:
		return core.ColorCyan
	case engine.ColorBomb:
		return core.ColorBrightRed
	case engine.ColorStone:
		return core.ColorGray
	case engine.ColorBlocker:
		return core.ColorOrange
	default:
		return core.ColorDefault
	}
}

// renderHUD draws the side panel.
func (g *Game) renderHUD(dst *core.Screen, snap engine.Snapshot, x, y int) {
	line := func(text string) {
		dst.DrawText(x, y, text)
		y++
	}

	switch {
	case g.custom != nil:
		line("Board: " + g.custom.Name)
	default:
		line(fmt.Sprintf("Level   %d", snap.Level))
	}
	line(fmt.Sprintf("Score   %d", snap.Score))
	line(fmt.Sprintf("Smileys %d", snap.SmileysLeft))
	line("Time    " + formatElapsed(snap.Elapsed))
	y++

	dst.DrawText(x, y, "Next")
	text, c := glyph(snap.Next[0], false)
	drawGlyph(dst, x+8, y, text, c)
	text, c = glyph(snap.Next[1], false)
	drawGlyph(dst, x+10, y, text, c)
	y += 2

	line(fmt.Sprintf("Align %d  Colors %d", snap.Align, snap.ColorMax))
	if snap.Speed != 1 {
		line(fmt.Sprintf("Speed x%.0f", snap.Speed))
	}

	if !snap.Event.Enabled {
		return
	}
	y++
	switch snap.Event.State {
	case engine.EventActive:
		dst.DrawTextColored(x, y, "Event: "+snap.Event.Current.String(), core.ColorBrightRed)
		y++
	case engine.EventSelecting:
		dst.DrawTextColored(x, y, "Event: "+snap.Event.Current.String()+"?", core.ColorYellow)
		y++
	default:
		line("Event: -")
	}
	line(gauge(snap.Event.Progress, hudWidth-2))
	if snap.Event.Mirror {
		dst.DrawTextColored(x, y, "MIRROR", core.ColorCyan)
		y++
	}
	if snap.Event.Ghost {
		dst.DrawTextColored(x, y, "GHOST", core.ColorGray)
	}
}

// gauge draws a bracketed bar of the given inner width.
func gauge(fraction float64, width int) string {
	filled := core.Clamp(int(fraction*float64(width)+0.5), 0, width)
	bar := make([]rune, 0, width+2)
	bar = append(bar, '[')
	for i := range width {
		if i < filled {
			bar = append(bar, '=')
		} else {
			bar = append(bar, ' ')
		}
	}
	return string(append(bar, ']'))
}

func formatElapsed(d time.Duration) string {
	s := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, snap engine.Snapshot, board core.Rect) {
	cx := board.X + board.W/2
	cy := board.Y + board.H/2

	switch {
	case g.loadErr != nil:
		drawOverlay(dst, cx, cy, "LEVEL ERROR", g.loadErr.Error(), "Press Q to quit")
	case g.won:
		drawOverlay(dst, cx, cy, "BOARD CLEARED!", fmt.Sprintf("Score: %d", snap.Score), "Press R to restart")
	case g.levelCleared:
		drawOverlay(dst, cx, cy, fmt.Sprintf("LEVEL %d CLEARED", snap.Level), fmt.Sprintf("Next: Level %d", snap.Level+1))
	case g.gameOver:
		drawOverlay(dst, cx, cy, "GAME OVER", fmt.Sprintf("Score: %d", snap.Score), "Press R to restart")
	case snap.Status == engine.StatusPaused:
		drawOverlay(dst, cx, cy, "PAUSED", "Press P to resume")
	case snap.Status == engine.StatusReady:
		drawOverlay(dst, cx, cy, "READY", "Press any key")
	}
}

// drawOverlay draws a centered text box.
func drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len([]rune(line)))
	}

	box := core.NewRect(centerX-(maxLen+4)/2, centerY-(len(lines)+2)/2, maxLen+4, len(lines)+2)
	dst.FillRect(box, ' ')
	dst.DrawBox(box, core.ColorWhite)

	for i, line := range lines {
		x := centerX - len([]rune(line))/2
		dst.DrawTextColored(x, box.Y+1+i, line, core.ColorBrightYellow)
	}
}
