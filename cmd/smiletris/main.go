// smiletris is a falling-capsule puzzle game for the terminal.
//
// Usage:
//
//	smiletris list              - List available modes
//	smiletris play [mode]       - Play a mode (default: smiletris)
//	smiletris menu              - Start menu to pick modes interactively
//	smiletris serve             - Start SSH server for remote play
//	smiletris scores [mode]     - Show high scores and recent runs
//	smiletris levels [dir]      - List custom boards
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.smiletris/scores.db)
//	--config <path>       - Custom game config YAML
//	--difficulty <preset> - easy, normal, hard or fixed
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/smiletris/internal/storage"

	// Import games to register them
	_ "github.com/vovakirdan/smiletris/internal/games/smiletris"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "smiletris",
	Short: "Smiletris - clear the smileys with falling capsules",
	Long: `Smiletris is a falling-capsule puzzle for the terminal.

Steer two-coloured capsules into the well and line up four squares of
a colour to clear them. Clear every smiley to finish the level.

Available commands:
  list     - Show all available modes
  play     - Play a mode directly
  menu     - Interactive mode picker menu
  serve    - Start SSH server for remote play
  scores   - View high scores and recent runs
  levels   - List custom boards

Examples:
  smiletris play
  smiletris play classic --level 10
  smiletris play custom --level-file ./boards/mine.yaml
  smiletris menu --difficulty hard
  smiletris serve --ssh :2222`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(levelsCmd)
}
