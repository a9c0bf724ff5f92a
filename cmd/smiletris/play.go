package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/smiletris/internal/games/smiletris"
	"github.com/vovakirdan/smiletris/internal/platform/tui"
	"github.com/vovakirdan/smiletris/internal/registry"
)

var (
	flagLevel     int
	flagLevelFile string
	flagBoard     string
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode",
	Long: `Start playing the specified mode.

Modes:
  campaign (smiletris)          - Level climb with timed events
  classic  (smiletris_classic)  - Level climb without events
  custom   (smiletris_custom)   - A single board from a level file

Without --level (or --level-file/--board for custom), a selector asks
where to start.

Controls:
  Left/Right A/D  - Move capsule
  Up W Z          - Rotate capsule
  Down S Space    - Soft drop
  P/Esc           - Pause
  R               - Restart (after game over)
  Ctrl+S          - Screenshot
  Q/Ctrl+C        - Quit

Difficulty options:
  easy   - Slower fall, no events
  normal - Default settings
  hard   - Extra colour, events come sooner
  fixed  - No speed progression

Examples:
  smiletris play
  smiletris play classic --level 15
  smiletris play --difficulty hard
  smiletris play custom --board pillars
  smiletris play custom --level-file ./boards/mine.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Start level for campaign and classic")
	playCmd.Flags().StringVar(&flagLevelFile, "level-file", "", "Board YAML for custom mode")
	playCmd.Flags().StringVar(&flagBoard, "board", "", "Built-in board ID for custom mode")
}

func runPlay(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	if name == "" && (flagLevelFile != "" || flagBoard != "") {
		name = "custom"
	}
	gameID, err := resolveGameID(name)
	if err != nil {
		return err
	}

	logger, closeLog, err := openLogFile()
	if err != nil {
		return err
	}
	defer closeLog()

	if err := applyGameFlags(logger); err != nil {
		return err
	}

	cfg := terminalConfig()

	switch {
	case gameID == "smiletris_custom" && flagLevelFile != "":
		smiletris.SetLevelFile(flagLevelFile)
	case gameID == "smiletris_custom" && flagBoard != "":
		smiletris.SetCustomLevel(flagBoard)
	case gameID != "smiletris_custom" && cmd.Flags().Changed("level"):
		if flagLevel < 0 {
			return fmt.Errorf("invalid --level %d", flagLevel)
		}
		smiletris.SetStartLevel(flagLevel)
	default:
		ok, err := chooseStart(gameID, cfg)
		if err != nil {
			return err
		}
		// User pressed back or quit
		if !ok {
			return nil
		}
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("cannot create game: %w", err)
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	logger.Info("play", "mode", gameID, "difficulty", flagDifficulty, "start", smiletris.GetStartLevel())
	if _, err := tui.Run(game, store, cfg); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
