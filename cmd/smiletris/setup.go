package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/smiletris/internal/config"
	"github.com/vovakirdan/smiletris/internal/core"
	"github.com/vovakirdan/smiletris/internal/games/smiletris"
	"github.com/vovakirdan/smiletris/internal/games/smiletris/levels"
	"github.com/vovakirdan/smiletris/internal/platform/tui"
	"github.com/vovakirdan/smiletris/internal/registry"
	"github.com/vovakirdan/smiletris/internal/storage"
)

// modeAliases maps short mode names to registry IDs.
var modeAliases = map[string]string{
	"campaign": "smiletris",
	"classic":  "smiletris_classic",
	"custom":   "smiletris_custom",
}

// resolveGameID accepts a registry ID or a short mode name.
func resolveGameID(name string) (string, error) {
	if name == "" {
		return "smiletris", nil
	}
	if id, ok := modeAliases[name]; ok {
		name = id
	}
	if !registry.Exists(name) {
		return "", fmt.Errorf("unknown mode %q (run 'smiletris list')", name)
	}
	return name, nil
}

// newLogger creates a logger writing to w at the --log-level level.
func newLogger(w io.Writer, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	logger.SetLevel(level)
	return logger, nil
}

// openLogFile opens ~/.smiletris/smiletris.log for play and menu. The
// terminal belongs to the game while it runs.
func openLogFile() (*log.Logger, func(), error) {
	dir := config.UserDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("cannot create %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "smiletris.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}
	logger, err := newLogger(f, "smiletris")
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, func() { f.Close() }, nil
}

// applyGameFlags hands the config path, difficulty and logger to the game
// package before any game is created.
func applyGameFlags(logger *log.Logger) error {
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return err
	}
	smiletris.SetConfigPath(flagConfig)
	smiletris.SetDifficulty(preset)
	smiletris.SetLogger(logger)
	tui.SetLogger(logger)
	return nil
}

// terminalConfig builds the runtime config from the terminal size.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the scores database. Failure is a warning: the game
// still runs without persistence.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("scores database unavailable", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}

// chooseStart shows the start level selector for campaign and classic, or
// the board selector for custom mode. It returns false when the user backed
// out.
func chooseStart(gameID string, cfg core.RuntimeConfig) (bool, error) {
	var title string
	var entries []tui.StartEntry

	switch gameID {
	case "smiletris_custom":
		boards, err := levels.Builtin().LoadAll()
		if err != nil {
			return false, fmt.Errorf("cannot load boards: %w", err)
		}
		title = "SELECT BOARD"
		entries = tui.BoardEntries(boards)
	default:
		gc, err := config.LoadSmiletris(flagConfig)
		if err != nil {
			return false, err
		}
		title = "SELECT START LEVEL"
		entries = tui.StartLevelEntries(gc.Levels.Step, gc.Levels.Buttons)
	}

	sel, err := tui.RunSmiletrisMenu(title, entries, cfg)
	if err != nil || sel == nil {
		return false, err
	}

	if gameID == "smiletris_custom" {
		smiletris.SetCustomLevel(sel.BoardID)
	} else {
		smiletris.SetStartLevel(sel.Level)
	}
	return true, nil
}

// modeName returns the short name of a registry ID for messages.
func modeName(gameID string) string {
	for short, id := range modeAliases {
		if id == gameID {
			return short
		}
	}
	return strings.TrimPrefix(gameID, "smiletris_")
}
