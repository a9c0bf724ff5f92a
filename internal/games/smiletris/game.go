// Package smiletris adapts the Smiletris engine to the platform's fixed-tick
// game interface.
package smiletris

import (
	"errors"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/smiletris/internal/config"
	"github.com/vovakirdan/smiletris/internal/core"
	"github.com/vovakirdan/smiletris/internal/games/smiletris/engine"
	"github.com/vovakirdan/smiletris/internal/games/smiletris/levels"
	"github.com/vovakirdan/smiletris/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeCampaign Mode = "campaign" // Endless level climb with events
	ModeClassic  Mode = "classic"  // Level climb without events
	ModeCustom   Mode = "custom"   // A single board from a level file
)

var errNoLevels = errors.New("smiletris: no built-in levels")

// clearSeconds is how long the level-cleared overlay stays up.
const clearSeconds = 2

// Game implements registry.Game for Smiletris.
type Game struct {
	mode Mode

	cfg        config.SmiletrisConfig
	baseTiming engine.Timing
	difficulty *config.DifficultyManager
	engine     *engine.Engine
	clock      *engine.FrameClock
	loop       *engine.Loop

	seed     int64
	tick     uint64
	tickRate int
	frame    time.Duration

	custom  *levels.Level
	loadErr error

	// Screen dimensions
	screenW int
	screenH int

	// Game state flags
	gameOver     bool
	won          bool
	tooSmall     bool
	levelCleared bool
	clearTicks   int

	notices []string
}

// Package-level variables for config
var (
	configPath         string
	difficultyPreset   = config.DifficultyNormal
	selectedStartLevel int
	levelFile          string
	customLevelID      string
	logger             = log.New(io.Discard)
)

// SetConfigPath sets a custom config file path.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficulty sets the difficulty preset applied on every reset.
func SetDifficulty(preset config.DifficultyPreset) {
	difficultyPreset = preset
}

// SetStartLevel sets the level a campaign starts on.
func SetStartLevel(level int) {
	selectedStartLevel = max(level, 0)
}

// GetStartLevel returns the currently selected start level.
func GetStartLevel() int {
	return selectedStartLevel
}

// SetLevelFile sets the YAML board used by custom mode. It takes precedence
// over SetCustomLevel.
func SetLevelFile(path string) {
	levelFile = path
}

// SetCustomLevel selects a built-in board by ID for custom mode.
func SetCustomLevel(id string) {
	customLevelID = id
}

// SetLogger sets the logger used for game events.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

// New creates a new campaign game.
func New() *Game {
	return &Game{mode: ModeCampaign}
}

// NewClassic creates a campaign game without events.
func NewClassic() *Game {
	return &Game{mode: ModeClassic}
}

// NewCustom creates a game on a single custom board.
func NewCustom() *Game {
	return &Game{mode: ModeCustom}
}

func init() {
	registry.Register("smiletris", func() registry.Game {
		return New()
	})
	registry.Register("smiletris_classic", func() registry.Game {
		return NewClassic()
	})
	registry.Register("smiletris_custom", func() registry.Game {
		return NewCustom()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	switch g.mode {
	case ModeClassic:
		return "smiletris_classic"
	case ModeCustom:
		return "smiletris_custom"
	default:
		return "smiletris"
	}
}

// Title returns the display name.
func (g *Game) Title() string {
	switch g.mode {
	case ModeClassic:
		return "Smiletris (Classic)"
	case ModeCustom:
		return "Smiletris (Custom Board)"
	default:
		return "Smiletris"
	}
}

// Mode returns the game mode.
func (g *Game) Mode() Mode {
	return g.mode
}

// Reset initializes/restarts the game.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.seed = rc.Seed
	g.tick = 0
	g.tickRate = rc.TickRate
	if g.tickRate <= 0 {
		g.tickRate = 60
	}
	g.frame = time.Second / time.Duration(g.tickRate)
	g.screenW = rc.ScreenW
	g.screenH = rc.ScreenH
	g.gameOver = false
	g.won = false
	g.levelCleared = false
	g.clearTicks = 0
	g.notices = nil
	g.loadErr = nil
	g.custom = nil

	g.loadConfig()
	ecfg := engineConfig(g.cfg)
	if err := ecfg.Validate(); err != nil {
		logger.Warn("invalid engine config, using defaults", "err", err)
		ecfg = engine.DefaultConfig()
		ecfg.Events.Enabled = g.mode != ModeClassic
	}
	g.baseTiming = ecfg.Timing
	g.difficulty = config.NewDifficultyManager(g.cfg.Difficulty)

	g.engine = engine.New(engine.Options{
		Config: ecfg,
		Rand:   rand.New(rand.NewSource(rc.Seed)),
		Hooks:  g.hooks(),
	})
	g.clock = engine.NewFrameClock()
	g.loop = engine.NewLoop(g.engine, g.clock)

	if g.mode == ModeCustom {
		g.startCustom(ecfg)
	} else {
		g.engine.StartLevel(selectedStartLevel)
		g.applyDifficulty()
		logger.Info("level started", "game", g.ID(), "level", g.engine.Level(), "smileys", g.engine.SmileysLeft())
	}

	g.checkScreenSize()
}

// loadConfig reads the YAML config and applies the difficulty preset.
func (g *Game) loadConfig() {
	cfg, err := config.LoadSmiletris(configPath)
	if err != nil {
		logger.Warn("config not loaded, using defaults", "path", configPath, "err", err)
		cfg = config.DefaultSmiletrisConfig()
	}
	config.ApplySmiletrisPreset(&cfg, difficultyPreset)
	if g.mode != ModeCampaign {
		cfg.Events.Enabled = false
	}
	g.cfg = cfg
}

// startCustom lays out the selected custom board.
func (g *Game) startCustom(ecfg engine.Config) {
	lvl, err := loadCustomLevel()
	if err == nil {
		err = lvl.Validate(ecfg.Width, ecfg.Height)
	}
	if err == nil {
		err = g.engine.StartCustom(lvl.Smileys)
	}
	if err != nil {
		logger.Error("custom level failed", "err", err)
		g.loadErr = err
		g.gameOver = true
		return
	}
	g.custom = &lvl
	logger.Info("custom level started", "id", lvl.ID, "smileys", len(lvl.Smileys))
}

// loadCustomLevel returns the level file, the selected built-in board, or
// the first built-in board.
func loadCustomLevel() (levels.Level, error) {
	if levelFile != "" {
		return levels.LoadFile(levelFile)
	}
	if customLevelID != "" {
		return levels.Builtin().LoadByID(customLevelID)
	}
	all, err := levels.Builtin().LoadAll()
	if err != nil {
		return levels.Level{}, err
	}
	if len(all) == 0 {
		return levels.Level{}, errNoLevels
	}
	return all[0], nil
}

// applyDifficulty scales the fall delay for the current level.
func (g *Game) applyDifficulty() {
	t := g.baseTiming
	t.Fall = g.difficulty.FallDelay(t.Fall, g.engine.Level(), g.engine.Score())
	g.engine.SetTiming(t)
}

// hooks routes engine notifications to the log and the notice queue.
func (g *Game) hooks() engine.Hooks {
	return engine.Hooks{
		OnEvent: func(id engine.EventID, active bool) {
			if active {
				logger.Debug("event started", "event", id)
				g.notices = append(g.notices, "event: "+id.String())
			} else {
				logger.Debug("event ended", "event", id)
			}
		},
		OnWon: func(level, score int) {
			logger.Info("level cleared", "game", g.ID(), "level", level, "score", score)
			g.notices = append(g.notices, "level cleared")
		},
		OnLost: func(level, score int) {
			logger.Info("game lost", "game", g.ID(), "level", level, "score", score)
			g.notices = append(g.notices, "game over")
		},
		OnClear: func(deaths []engine.Death) {
			logger.Debug("cleared", "cells", len(deaths))
		},
	}
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	w, h := g.layoutSize()
	g.tooSmall = g.screenW < w || g.screenH < h
}

// Resize adapts the layout to a new screen size without restarting the run.
// The game stands still while the screen is too small.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	if g.engine != nil {
		g.checkScreenSize()
	}
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.tooSmall || g.engine == nil {
		return g.result()
	}

	// Handle level cleared pause before the next level
	if g.levelCleared {
		g.clearTicks++
		if g.clearTicks >= clearSeconds*g.tickRate {
			g.advanceLevel()
		}
		return g.result()
	}

	if g.gameOver {
		return g.result()
	}

	for _, a := range in.Actions() {
		if ea, ok := engineAction(a); ok {
			g.loop.HandleAction(ea)
		}
	}

	g.clock.Advance(g.frame)

	switch g.engine.Status() {
	case engine.StatusWon:
		g.loop.Stop()
		if g.mode == ModeCustom {
			g.won = true
			g.gameOver = true
		} else {
			g.levelCleared = true
			g.clearTicks = 0
		}
	case engine.StatusLost:
		g.loop.Stop()
		g.gameOver = true
	}

	return g.result()
}

// advanceLevel lays out the next level and starts it at once.
func (g *Game) advanceLevel() {
	g.levelCleared = false
	g.clearTicks = 0
	g.engine.NextLevel()
	g.applyDifficulty()
	g.loop.Start()
	logger.Info("level started", "game", g.ID(), "level", g.engine.Level(), "smileys", g.engine.SmileysLeft())
}

func (g *Game) result() core.StepResult {
	res := core.StepResult{State: g.State(), Events: g.notices}
	g.notices = nil
	return res
}

// engineAction maps platform actions to engine commands.
func engineAction(a core.Action) (engine.Action, bool) {
	switch a {
	case core.ActionRotate:
		return engine.ActionRotate, true
	case core.ActionDrop:
		return engine.ActionDrop, true
	case core.ActionLeft:
		return engine.ActionLeft, true
	case core.ActionRight:
		return engine.ActionRight, true
	case core.ActionPause:
		return engine.ActionPause, true
	}
	return engine.ActionNone, false
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.engine == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    g.engine.Score(),
		Level:    g.engine.Level(),
		GameOver: g.gameOver,
		Won:      g.won || g.levelCleared,
		Paused:   g.engine.Status() == engine.StatusPaused || g.tooSmall || g.levelCleared,
	}
}

// Summary describes the run for persistence.
func (g *Game) Summary() core.RunSummary {
	s := core.RunSummary{
		GameID: g.ID(),
		Mode:   string(g.mode),
		Won:    g.won,
		Seed:   g.seed,
	}
	if g.engine != nil {
		s.Level = g.engine.Level()
		s.Score = g.engine.Score()
		s.Duration = g.engine.Elapsed()
	}
	return s
}

// Meter reports the event cycle for the platform's status gauge.
func (g *Game) Meter() (string, float64, bool) {
	if g.engine == nil {
		return "", 0, false
	}
	ev := g.engine.Events()
	if !ev.Enabled() {
		return "", 0, false
	}
	switch ev.State() {
	case engine.EventActive:
		return ev.Current().String(), ev.Progress(), true
	case engine.EventSelecting:
		return "next: " + ev.Current().String(), ev.Progress(), true
	default:
		return "calm", ev.Progress(), true
	}
}

// Engine exposes the underlying engine.
func (g *Game) Engine() *engine.Engine {
	return g.engine
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "←/→ A/D: Move | ↑ W Z: Rotate | ↓ S: Drop | P/Esc: Pause | R: Restart | Q: Quit"
}

// engineConfig converts the YAML config to engine settings.
func engineConfig(c config.SmiletrisConfig) engine.Config {
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	return engine.Config{
		Width:       c.Grid.Width,
		Height:      c.Grid.Height,
		AlignLength: c.Rules.AlignLength,
		ColorMax:    c.Rules.ColorMax,
		SpawnRow:    c.Rules.SpawnRow,
		SmileyFloor: c.Levels.SmileyFloor,
		SmileyMin:   c.Levels.SmileyMin,
		LevelMax:    c.Levels.MaxLevel,
		Coef:        c.Levels.Coef,
		LevelStep:   c.Levels.Step,
		Timing: engine.Timing{
			Fall:    ms(c.Timing.FallMs),
			Delete:  ms(c.Timing.DeleteMs),
			Gravity: ms(c.Timing.GravityMs),
			Down:    ms(c.Timing.DownMs),
		},
		Events: engine.EventConfig{
			Enabled:       c.Events.Enabled,
			AverageDelay:  c.Events.AverageDelay,
			Selection:     c.Events.Selection,
			DurationMin:   c.Events.DurationMin,
			DurationMax:   c.Events.DurationMax,
			DurationUnit:  c.Events.DurationUnit,
			GhostDuration: c.Events.GhostDuration,
			StoneCapacity: c.Events.StoneCapacity,
			BlockerWidth:  c.Events.BlockerWidth,
			BlockerHeight: c.Events.BlockerHeight,
		},
	}
}
