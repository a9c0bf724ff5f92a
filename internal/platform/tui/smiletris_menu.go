package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/smiletris/internal/core"
	"github.com/vovakirdan/smiletris/internal/games/smiletris/levels"
)

// StartEntry is one choice in the Smiletris start menu.
type StartEntry struct {
	Label   string
	Level   int    // Start level for campaign and classic
	BoardID string // Built-in board for custom mode
}

// StartLevelEntries returns the level selector: buttons entries spaced
// step levels apart, starting at level 0.
func StartLevelEntries(step, buttons int) []StartEntry {
	step = max(step, 1)
	buttons = max(buttons, 1)
	entries := make([]StartEntry, 0, buttons)
	for i := range buttons {
		lvl := i * step
		entries = append(entries, StartEntry{
			Label: fmt.Sprintf("Level %d", lvl),
			Level: lvl,
		})
	}
	return entries
}

// BoardEntries returns one entry per custom board.
func BoardEntries(boards []levels.Level) []StartEntry {
	entries := make([]StartEntry, 0, len(boards))
	for _, b := range boards {
		entries = append(entries, StartEntry{
			Label:   fmt.Sprintf("%s (%d smileys)", b.Name, len(b.Smileys)),
			BoardID: b.ID,
		})
	}
	return entries
}

// SmiletrisMenuModel lets users choose the start level or the custom board.
type SmiletrisMenuModel struct {
	title     string
	entries   []StartEntry
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	selection *StartEntry
	quitting  bool
	back      bool
}

// NewSmiletrisMenuModel creates a new start menu model.
func NewSmiletrisMenuModel(title string, entries []StartEntry, width, height int) SmiletrisMenuModel {
	return SmiletrisMenuModel{
		title:     title,
		entries:   entries,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the model.
func (m SmiletrisMenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m SmiletrisMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m SmiletrisMenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp, MenuActionLeft:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown, MenuActionRight:
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		if len(m.entries) > 0 {
			sel := m.entries[m.cursor]
			m.selection = &sel
			return m, tea.Quit
		}
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the selector.
func (m SmiletrisMenuModel) View() string {
	if m.quitting || m.back || m.selection != nil {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(m.title, m.width))
	b.WriteString("\n\n")

	if len(m.entries) == 0 {
		b.WriteString(centerText("Nothing to choose from", m.width))
		b.WriteString("\n")
	}

	for i, e := range m.entries {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(fmt.Sprintf("%s%-28s", cursor, e.Label), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

// Selected returns the chosen entry, or nil if none was chosen.
func (m SmiletrisMenuModel) Selected() *StartEntry {
	return m.selection
}

// IsQuitting returns true if user wants to quit.
func (m SmiletrisMenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m SmiletrisMenuModel) WantsBack() bool {
	return m.back
}

// RunSmiletrisMenu runs the start menu and returns the chosen entry. A nil
// entry means the user went back or quit.
func RunSmiletrisMenu(title string, entries []StartEntry, cfg core.RuntimeConfig) (*StartEntry, error) {
	model := NewSmiletrisMenuModel(title, entries, cfg.ScreenW, cfg.ScreenH)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(SmiletrisMenuModel)
	if !ok || m.IsQuitting() || m.WantsBack() {
		return nil, nil
	}

	return m.Selected(), nil
}
