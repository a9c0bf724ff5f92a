package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/smiletris/internal/core"
	"github.com/vovakirdan/smiletris/internal/games/smiletris/levels"
	"github.com/vovakirdan/smiletris/internal/storage"
)

// scriptedGame ends after a fixed number of steps and records what it saw.
type scriptedGame struct {
	steps    int
	endAfter int
	paused   bool
	resets   int
	resized  [2]int
	actions  []core.Action
}

func (g *scriptedGame) ID() string { return "scripted" }
func (g *scriptedGame) Title() string { return "Scripted" }
func (g *scriptedGame) Reset(core.RuntimeConfig) {
	g.resets++
	g.steps = 0
}

func (g *scriptedGame) Step(in core.InputFrame) core.StepResult {
	g.steps++
	g.actions = append(g.actions, in.Actions()...)
	res := core.StepResult{State: g.State()}
	if g.steps == g.endAfter {
		res.Events = []string{"game over"}
	}
	return res
}

func (g *scriptedGame) Render(dst *core.Screen) { dst.DrawText(0, 0, "scripted") }

func (g *scriptedGame) State() core.GameState {
	return core.GameState{Score: 10 * g.steps, Level: 2, GameOver: g.steps >= g.endAfter, Paused: g.paused}
}

func (g *scriptedGame) Summary() core.RunSummary {
	return core.RunSummary{GameID: g.ID(), Mode: "campaign", Level: 2, Score: 10 * g.steps, Duration: time.Minute}
}

func (g *scriptedGame) Meter() (string, float64, bool) { return "calm", 0.5, true }

func (g *scriptedGame) Resize(w, h int) { g.resized = [2]int{w, h} }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{runes("d"), core.ActionRight, false},
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionRotate, false},
		{runes("z"), core.ActionRotate, false},
		{tea.KeyMsg{Type: tea.KeyDown}, core.ActionDrop, false},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionDrop, false},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionPause, false},
		{runes("p"), core.ActionPause, false},
		{runes("r"), core.ActionRestart, false},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, false},
		{runes("q"), core.ActionQuit, true},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{runes("m"), core.ActionNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.msg.String(), func(t *testing.T) {
			action, quit := km.MapKey(tt.msg)
			assert.Equal(t, tt.action, action)
			assert.Equal(t, tt.quit, quit)
		})
	}
}

func TestMapKeyToFrameSkipsQuit(t *testing.T) {
	km := NewKeyMapper()
	frame := core.NewInputFrame()

	assert.False(t, km.MapKeyToFrame(tea.KeyMsg{Type: tea.KeyLeft}, &frame))
	assert.True(t, km.MapKeyToFrame(runes("q"), &frame))
	assert.Equal(t, []core.Action{core.ActionLeft}, frame.Actions())
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()
	assert.Equal(t, MenuActionUp, km.MapKeyToMenuAction(runes("k")))
	assert.Equal(t, MenuActionDown, km.MapKeyToMenuAction(tea.KeyMsg{Type: tea.KeyDown}))
	assert.Equal(t, MenuActionSelect, km.MapKeyToMenuAction(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Equal(t, MenuActionBack, km.MapKeyToMenuAction(tea.KeyMsg{Type: tea.KeyEsc}))
	assert.Equal(t, MenuActionScoreboard, km.MapKeyToMenuAction(tea.KeyMsg{Type: tea.KeyTab}))
	assert.Equal(t, MenuActionQuit, km.MapKeyToMenuAction(runes("q")))
}

func TestModelSavesRunOnce(t *testing.T) {
	store := openStore(t)
	game := &scriptedGame{endAfter: 3}
	m := NewModel(game, store, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}).WithSession("sess-1")
	m.Init()

	var tm tea.Model = m
	for range 6 {
		tm, _ = tm.Update(TickMsg(time.Now()))
	}
	m = tm.(Model)

	runs, err := store.RecentRuns("scripted", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "sess-1", runs[0].Session)
	assert.Equal(t, 30, runs[0].Score)
	assert.Equal(t, "game over", m.notice)

	best, err := store.HighScore("scripted")
	require.NoError(t, err)
	assert.Equal(t, 30, best)
}

func TestModelRestartAfterGameOver(t *testing.T) {
	game := &scriptedGame{endAfter: 1}
	var tm tea.Model = NewModel(game, nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1})
	tm.Init()
	tm, _ = tm.Update(TickMsg(time.Now()))
	require.True(t, tm.(Model).gameState.GameOver)

	tm, _ = tm.Update(runes("r"))
	tm, _ = tm.Update(TickMsg(time.Now()))
	assert.Equal(t, 2, game.resets)
	assert.False(t, tm.(Model).gameState.GameOver)
}

func TestModelForwardsActions(t *testing.T) {
	game := &scriptedGame{endAfter: 100}
	var tm tea.Model = NewModel(game, nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1})
	tm.Init()

	tm, _ = tm.Update(tea.KeyMsg{Type: tea.KeyLeft})
	tm, _ = tm.Update(tea.KeyMsg{Type: tea.KeyLeft})
	tm, _ = tm.Update(runes("z"))
	tm.Update(TickMsg(time.Now()))

	assert.Equal(t, []core.Action{core.ActionLeft, core.ActionLeft, core.ActionRotate}, game.actions)
}

func TestModelBackOnlyWhenPausedOrOver(t *testing.T) {
	game := &scriptedGame{endAfter: 100}
	var tm tea.Model = NewModel(game, nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1})
	tm.Init()

	tm, _ = tm.Update(runes("b"))
	assert.False(t, tm.(Model).BackToMenu())

	game.paused = true
	tm, _ = tm.Update(TickMsg(time.Now()))
	tm, _ = tm.Update(runes("b"))
	assert.True(t, tm.(Model).BackToMenu())
}

func TestModelQuit(t *testing.T) {
	game := &scriptedGame{endAfter: 100}
	var tm tea.Model = NewModel(game, nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1})
	tm, cmd := tm.Update(runes("q"))
	assert.True(t, tm.(Model).IsQuitting())
	assert.NotNil(t, cmd)
	assert.Empty(t, tm.View())
}

func TestModelResizeKeepsGame(t *testing.T) {
	game := &scriptedGame{endAfter: 100}
	var tm tea.Model = NewModel(game, nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1})
	tm.Init()

	tm.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Equal(t, [2]int{100, 40 - statusRows}, game.resized)
	assert.Equal(t, 1, game.resets)
}

func TestModelViewShowsGauge(t *testing.T) {
	game := &scriptedGame{endAfter: 100}
	m := NewModel(game, nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1})
	m.Init()

	out := m.View()
	assert.Contains(t, out, "scripted")
	assert.Contains(t, out, "calm")
	assert.Contains(t, out, "rotate")
}

func TestStartLevelEntries(t *testing.T) {
	entries := StartLevelEntries(5, 8)
	require.Len(t, entries, 8)
	assert.Equal(t, 0, entries[0].Level)
	assert.Equal(t, 35, entries[7].Level)
	assert.Equal(t, "Level 35", entries[7].Label)

	assert.Len(t, StartLevelEntries(0, 0), 1)
}

func TestBoardEntries(t *testing.T) {
	boards, err := levels.Builtin().LoadAll()
	require.NoError(t, err)

	entries := BoardEntries(boards)
	require.Len(t, entries, len(boards))
	assert.Equal(t, boards[0].ID, entries[0].BoardID)
	assert.Contains(t, entries[0].Label, boards[0].Name)
}

func TestSmiletrisMenuSelect(t *testing.T) {
	var tm tea.Model = NewSmiletrisMenuModel("START LEVEL", StartLevelEntries(5, 8), 80, 24)
	assert.Contains(t, tm.View(), "Level 35")

	tm, _ = tm.Update(tea.KeyMsg{Type: tea.KeyDown})
	tm, _ = tm.Update(tea.KeyMsg{Type: tea.KeyDown})
	tm, cmd := tm.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	sel := tm.(SmiletrisMenuModel).Selected()
	require.NotNil(t, sel)
	assert.Equal(t, 10, sel.Level)
}

func TestSmiletrisMenuBack(t *testing.T) {
	var tm tea.Model = NewSmiletrisMenuModel("START LEVEL", StartLevelEntries(5, 8), 80, 24)
	tm, _ = tm.Update(tea.KeyMsg{Type: tea.KeyEsc})

	m := tm.(SmiletrisMenuModel)
	assert.True(t, m.WantsBack())
	assert.Nil(t, m.Selected())
}

func TestSessionModelID(t *testing.T) {
	m := NewSessionModel(nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60}, "guest")
	_, err := uuid.Parse(m.SessionID())
	assert.NoError(t, err)
	assert.NotEqual(t, m.SessionID(), NewSessionModel(nil, m.config, "guest").SessionID())
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:00", formatDuration(0))
	assert.Equal(t, "1:05", formatDuration(65*time.Second))
	assert.Equal(t, "12:00", formatDuration(12*time.Minute))
}

func TestMenuCursorWrapsAndSelects(t *testing.T) {
	m := MenuModel{
		items:     []MenuItem{{GameID: "a", Title: "A"}, {GameID: "b", Title: "B", Best: 42}},
		config:    core.RuntimeConfig{ScreenW: 80, ScreenH: 24},
		keyMapper: NewKeyMapper(),
	}
	assert.Contains(t, m.View(), "42")

	var tm tea.Model = m
	tm, _ = tm.Update(tea.KeyMsg{Type: tea.KeyUp})
	tm, cmd := tm.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	res := tm.(MenuModel).result()
	assert.Equal(t, "b", res.GameID)
	assert.False(t, res.Quit)
}

func TestMenuResult(t *testing.T) {
	m := NewMenuModel(nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24})
	tm, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, tm.(MenuModel).result().WantsScoreboard)

	tm, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	tm, _ = tm.Update(runes("q"))
	res := tm.(MenuModel).result()
	assert.True(t, res.Quit)
	assert.Equal(t, 100, res.Config.ScreenW)
}

func TestFrameInterval(t *testing.T) {
	assert.Equal(t, time.Second/60, frameInterval(60))
	assert.Equal(t, time.Second/30, frameInterval(30))
	assert.Equal(t, time.Second/defaultTickRate, frameInterval(0))
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(10, 2)
	s.DrawText(0, 0, "ab")
	s.DrawTextColored(2, 0, "cd", core.ColorRed)
	s.DrawTextColored(0, 1, "xy", core.Color(200))

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, out, "cd")
	assert.Contains(t, out, "xy")
	assert.Equal(t, 10, lipgloss.Width(lines[0]))
}
