// Package tui runs Smiletris in a terminal with Bubble Tea: the game
// model, menus, scoreboard and the SSH server that hosts them remotely.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const defaultTickRate = 60

// TickMsg advances the game by one frame.
type TickMsg time.Time

// frameInterval is the time between frames at rate ticks per second.
// Non-positive rates fall back to defaultTickRate.
func frameInterval(rate int) time.Duration {
	if rate <= 0 {
		rate = defaultTickRate
	}
	return time.Second / time.Duration(rate)
}

func tickCmd(rate int) tea.Cmd {
	return tea.Tick(frameInterval(rate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
