package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/smiletris/internal/registry"
	"github.com/vovakirdan/smiletris/internal/storage"
)

var (
	flagScoresLimit int
	flagRunsLimit   int
	flagAllStats    bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores and recent runs",
	Long: `Display the top high scores and the most recent runs for a mode.

Examples:
  smiletris scores
  smiletris scores classic
  smiletris scores --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "top", 10, "Number of high scores to show")
	scoresCmd.Flags().IntVar(&flagRunsLimit, "runs", 5, "Number of recent runs to show")
	scoresCmd.Flags().BoolVar(&flagAllStats, "all", false, "Show totals for every mode")
}

func runScores(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagAllStats {
		return printAllStats(store)
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	gameID, err := resolveGameID(name)
	if err != nil {
		return err
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("cannot create game: %w", err)
	}

	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", game.Title())
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'smiletris play %s' to set the first high score!\n", modeName(gameID))
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")

	for i, entry := range scores {
		fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetGameStats(gameID)
	if err == nil {
		fmt.Println()
		fmt.Printf("Best: %d  Best level: %d  Games: %d  Average: %.0f\n",
			stats.HighScore, stats.BestLevel, stats.GamesCount, stats.AvgScore)
	}

	runs, err := store.RecentRuns(gameID, flagRunsLimit)
	if err != nil {
		return fmt.Errorf("retrieving runs: %w", err)
	}
	if len(runs) == 0 {
		return nil
	}

	fmt.Println()
	fmt.Println("Recent runs:")
	fmt.Printf("  %-16s  %-8s  %-5s  %-8s  %-6s  %s\n", "Date", "Mode", "Level", "Score", "Result", "Time")
	for _, r := range runs {
		result := "lost"
		if r.Won {
			result = "won"
		}
		fmt.Printf("  %-16s  %-8s  %-5d  %-8d  %-6s  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Mode, r.Level, r.Score, result, r.Duration.Round(time.Second))
	}
	return nil
}

// printAllStats prints one line per mode that has saved scores.
func printAllStats(store *storage.Store) error {
	all, err := store.GetAllGamesStats()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}

	fmt.Printf("  %-20s  %-6s  %-8s  %-8s  %s\n", "Mode", "Games", "Best", "Average", "Last played")
	for _, g := range registry.List() {
		st, ok := all[g.ID]
		if !ok {
			continue
		}
		fmt.Printf("  %-20s  %-6d  %-8d  %-8.0f  %s\n",
			g.ID, st.GamesCount, st.HighScore, st.AvgScore, st.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}
