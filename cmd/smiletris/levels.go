package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/smiletris/internal/games/smiletris/levels"
)

var levelsCmd = &cobra.Command{
	Use:   "levels [dir]",
	Short: "List custom boards",
	Long: `List the built-in custom boards, or the boards found in a directory.

Files that fail to parse are skipped.

Examples:
  smiletris levels
  smiletris levels ./boards
  smiletris play custom --board <id>`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLevels,
}

func runLevels(_ *cobra.Command, args []string) error {
	loader := levels.Builtin()
	if len(args) > 0 {
		loader = levels.NewLoader(args[0])
	}

	all, err := loader.LoadAll()
	if err != nil {
		return fmt.Errorf("loading boards: %w", err)
	}
	if len(all) == 0 {
		fmt.Println("No boards found.")
		return nil
	}

	maxIDLen := 2
	for _, l := range all {
		maxIDLen = max(maxIDLen, len(l.ID))
	}

	fmt.Printf("  %-*s  %-7s  %s\n", maxIDLen, "ID", "Smileys", "Name")
	fmt.Printf("  %-*s  %-7s  %s\n", maxIDLen, "--", "-------", "----")
	for _, l := range all {
		fmt.Printf("  %-*s  %-7d  %s\n", maxIDLen, l.ID, len(l.Smileys), l.Name)
	}
	return nil
}
