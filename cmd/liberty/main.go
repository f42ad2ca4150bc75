// liberty is a terminal-hosted learning app: interactive lessons made of readings,
// videos, simulations and quizzes.
//
// Usage:
//
//	liberty run [--lesson <id>]   - Start the app
//	liberty list                  - List available lessons
//	liberty history [lesson]      - Show completed lessons
//	liberty prefs                 - Show or edit stored preferences
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.liberty, ./configs, embedded)
//	--fps <rate>        - Frame rate (default from config: 30)
//	--db <path>         - Database path (default from config: ~/.liberty/liberty.db)
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/learn-liberty/internal/config"
	"github.com/vovakirdan/learn-liberty/internal/content"
	"github.com/vovakirdan/learn-liberty/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagFPS      int
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "liberty",
	Short: "Learn Liberty - interactive lessons in your terminal",
	Long: `Learn Liberty runs interactive lessons directly in your terminal.
Each lesson is a list of readings, videos, simulations and quizzes; completing
them fills the lesson's progress bar.

Available commands:
  run      - Start the app
  list     - Show all available lessons
  history  - View completed lessons
  prefs    - Show or edit preferences

Examples:
  liberty run
  liberty run --lesson lesson_2
  liberty list
  liberty history lesson_1
  liberty prefs set theme dark`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Frame rate (0 = from config)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to database (empty = from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(prefsCmd)
}

// loadConfig loads the configuration and applies flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagFPS > 0 {
		cfg.FPS = flagFPS
	}
	if flagDBPath != "" {
		cfg.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	return cfg.Normalize(), nil
}

// loadLessons registers the embedded lessons and then any from the content directory.
// A lesson file with an embedded lesson's id replaces it.
func loadLessons(cfg config.Config) (*content.Store, error) {
	store := content.NewStore()

	lessons, err := content.LoadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("cannot load built-in lessons: %w", err)
	}
	if err := content.RegisterAll(store, lessons); err != nil {
		return nil, err
	}

	if cfg.ContentDir == "" {
		return store, nil
	}
	extra, err := content.LoadDir(config.ExpandHome(cfg.ContentDir))
	if err != nil {
		return nil, fmt.Errorf("cannot load lessons from %s: %w", cfg.ContentDir, err)
	}
	if err := content.RegisterAll(store, extra); err != nil {
		return nil, err
	}
	return store, nil
}

// mustOpenStore opens the database or exits.
func mustOpenStore(cfg config.Config) *storage.Store {
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	return store
}

// mustLoadConfig loads the configuration or exits.
func mustLoadConfig() config.Config {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
