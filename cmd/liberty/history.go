package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	flagHistoryLimit int
	flagHistoryClear bool
)

var (
	historyTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	historyHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	historyCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	historyBestStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

var historyCmd = &cobra.Command{
	Use:   "history [lesson]",
	Short: "Show completed lessons",
	Long: `Display the most recent lesson completions, optionally for one lesson.

Examples:
  liberty history
  liberty history lesson_1 --limit 5
  liberty history lesson_1 --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of entries to show")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete the history instead of showing it")
}

func runHistory(cmd *cobra.Command, args []string) {
	lessonID := ""
	if len(args) == 1 {
		lessonID = args[0]
	}

	cfg := mustLoadConfig()
	store := mustOpenStore(cfg)
	defer store.Close()

	if flagHistoryClear {
		if err := store.ClearHistory(lessonID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing history: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("History cleared.")
		return
	}

	entries, err := store.Completions(lessonID, flagHistoryLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving history: %v\n", err)
		os.Exit(1)
	}

	title := "Completed lessons"
	if lessonID != "" {
		title += " - " + lessonID
	}
	fmt.Println(historyTitleStyle.Render(title))
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No lessons completed yet.")
		fmt.Println()
		fmt.Println("Run 'liberty run' to start learning!")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Lesson", "Time", "Frames", "When", "Session").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return historyHeaderStyle
			}
			return historyCellStyle
		})

	for i, e := range entries {
		session := e.SessionID
		if len(session) > 8 {
			session = session[:8]
		}
		t.Row(
			humanize.Ordinal(i+1),
			e.LessonID,
			fmt.Sprintf("%.1fs", e.Elapsed),
			humanize.Comma(e.Frames),
			humanize.Time(e.CreatedAt),
			session,
		)
	}
	fmt.Println(t.Render())

	// Show best time
	if lessonID != "" {
		if best, ok, bestErr := store.BestTime(lessonID); bestErr == nil && ok {
			fmt.Println()
			fmt.Println(historyBestStyle.Render(fmt.Sprintf("Best: %.1fs", best)))
		}
	}
}
