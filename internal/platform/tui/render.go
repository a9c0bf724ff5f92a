package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/smiletris/internal/core"
)

// ansi builds a foreground style from a 256-colour palette index.
func ansi(code string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(code))
}

// palette styles the board colours. Bright red and bright yellow carry
// active events and the clear banner, so they are bold.
var palette = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           ansi("1"),
	core.ColorGreen:         ansi("2"),
	core.ColorYellow:        ansi("3"),
	core.ColorBlue:          ansi("4"),
	core.ColorMagenta:       ansi("5"),
	core.ColorCyan:          ansi("6"),
	core.ColorWhite:         ansi("7"),
	core.ColorBrightRed:     ansi("9").Bold(true),
	core.ColorBrightYellow:  ansi("11").Bold(true),
	core.ColorBrightBlue:    ansi("12"),
	core.ColorBrightMagenta: ansi("13"),
	core.ColorOrange:        ansi("208"),
	core.ColorGray:          ansi("245"),
}

func styleFor(c core.Color) lipgloss.Style {
	if st, ok := palette[c]; ok {
		return st
	}
	return palette[core.ColorDefault]
}

// RenderScreen turns a Screen into styled terminal text, one escape
// sequence per run of same-coloured cells.
func RenderScreen(s *core.Screen) string {
	w, h := s.Width(), s.Height()
	var sb strings.Builder
	sb.Grow(w*h*2 + h)

	var run strings.Builder
	for y := range h {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < w; {
			color := s.GetCell(x, y).Color
			run.Reset()
			for ; x < w; x++ {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
			}
			sb.WriteString(styleFor(color).Render(run.String()))
		}
	}
	return sb.String()
}
