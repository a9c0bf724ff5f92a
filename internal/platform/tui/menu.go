package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/smiletris/internal/core"
	"github.com/vovakirdan/smiletris/internal/registry"
	"github.com/vovakirdan/smiletris/internal/storage"
)

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	menuActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// MenuItem is one registered mode with its best saved score.
type MenuItem struct {
	GameID string
	Title  string
	Best   int
}

// MenuModel picks a mode or opens the scoreboard.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	config    core.RuntimeConfig
	keyMapper *KeyMapper

	quitting   bool
	scoreboard bool
	selected   *MenuItem
}

// menuItems lists every registered mode. Best scores come from store
// when one is open.
func menuItems(store *storage.Store) []MenuItem {
	games := registry.List()
	items := make([]MenuItem, 0, len(games))
	for _, g := range games {
		item := MenuItem{GameID: g.ID, Title: g.Title}
		if store != nil {
			if best, err := store.HighScore(g.ID); err == nil {
				item.Best = best
			}
		}
		items = append(items, item)
	}
	return items
}

// NewMenuModel creates the mode picker.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	return MenuModel{
		items:     menuItems(store),
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

func (m MenuModel) Init() tea.Cmd { return nil }

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// move shifts the cursor by delta, wrapping at both ends.
func (m *MenuModel) move(delta int) {
	if n := len(m.items); n > 0 {
		m.cursor = (m.cursor + delta + n) % n
	}
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp, MenuActionLeft:
		m.move(-1)
	case MenuActionDown, MenuActionRight:
		m.move(1)
	case MenuActionScoreboard:
		m.scoreboard = true
		return m, tea.Quit
	case MenuActionSelect:
		if len(m.items) == 0 {
			return m, nil
		}
		item := m.items[m.cursor]
		m.selected = &item
		return m, tea.Quit
	}
	return m, nil
}

func (m MenuModel) itemLine(i int) string {
	item := m.items[i]
	best := "-"
	if item.Best > 0 {
		best = fmt.Sprint(item.Best)
	}
	line := fmt.Sprintf("%-24s best %6s", item.Title, best)
	if i == m.cursor {
		return menuActiveStyle.Render("> " + line)
	}
	return "  " + line
}

func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}
	w := m.config.ScreenW

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("S M I L E T R I S"), w))
	b.WriteString("\n")
	b.WriteString(centerText(menuDimStyle.Render("clear the smileys"), w))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerText("No modes registered", w))
		b.WriteString("\n")
	}
	for i := range m.items {
		b.WriteString(centerText(m.itemLine(i), w))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(menuDimStyle.Render("Enter: Play  |  Tab: Scores  |  Q: Quit"), w))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the chosen mode, or nil.
func (m MenuModel) Selected() *MenuItem { return m.selected }

func (m MenuModel) IsQuitting() bool { return m.quitting }

func (m MenuModel) WantsScoreboard() bool { return m.scoreboard }

// Config returns the runtime config with the latest window size.
func (m MenuModel) Config() core.RuntimeConfig { return m.config }

// centerText pads text on the left to centre it in width columns.
func centerText(text string, width int) string {
	tw := lipgloss.Width(text)
	if tw >= width {
		return text
	}
	return strings.Repeat(" ", (width-tw)/2) + text
}

// MenuResult is what the player chose in the menu.
type MenuResult struct {
	GameID          string
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

func (m MenuModel) result() MenuResult {
	res := MenuResult{Config: m.config}
	switch {
	case m.scoreboard:
		res.WantsScoreboard = true
	case m.selected != nil:
		res.GameID = m.selected.GameID
	default:
		res.Quit = true
	}
	return res
}

// RunMenu shows the mode picker until the player picks something.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	final, err := tea.NewProgram(NewMenuModel(store, cfg), tea.WithAltScreen()).Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}
	m, ok := final.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}
	return m.result(), nil
}
