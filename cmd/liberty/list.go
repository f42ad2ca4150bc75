package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/learn-liberty/internal/storage"
)

var flagListElements bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available lessons",
	Long: `Shows the built-in lessons and any loaded from the configured content
directory, with how many times each has been completed.`,
	Run: runList,
}

func init() {
	listCmd.Flags().BoolVar(&flagListElements, "elements", false, "Show each lesson's elements")
}

func runList(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()

	lessons, err := loadLessons(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	all := lessons.List()
	if len(all) == 0 {
		fmt.Println("No lessons available.")
		return
	}

	// Completion counts are optional
	counts := map[string]int{}
	if store, openErr := storage.Open(cfg.DBPath); openErr == nil {
		if c, countErr := store.CompletionCounts(); countErr == nil {
			counts = c
		}
		store.Close()
	}

	fmt.Println("Available lessons:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, c := range all {
		if len(c.ID) > maxIDLen {
			maxIDLen = len(c.ID)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %-4s  %-4s  %s\n", maxIDLen, "ID", "Elem", "Done", "Title")
	fmt.Printf("  %-*s  %-4s  %-4s  %s\n", maxIDLen, "--", "----", "----", "-----")

	// Print lessons
	for _, c := range all {
		fmt.Printf("  %-*s  %-4d  %-4d  %s\n", maxIDLen, c.ID, len(c.Elements), counts[c.ID], c.Title)
		if !flagListElements {
			continue
		}
		for i, el := range c.Elements {
			fmt.Printf("  %-*s    %d. %-10s %s (%s)\n", maxIDLen, "", i+1, el.Kind, el.Label, el.Criteria)
		}
	}

	fmt.Println()
	fmt.Println("Run 'liberty run --lesson <id>' to start a lesson.")
}
