// Package config provides YAML-based application configuration loading.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/learn-liberty/internal/window"
)

// Config contains all configuration for the application.
type Config struct {
	Window      window.Config `yaml:"window"`
	FPS         int           `yaml:"fps"`
	MaxDelta    time.Duration `yaml:"max_delta"`    // Clamp for a single frame delta
	ContentDir  string        `yaml:"content_dir"`  // Extra lesson files; embedded lessons are always loaded
	StartLesson string        `yaml:"start_lesson"` // Lesson opened at startup; empty shows the menu
	LogLevel    string        `yaml:"log_level"`
	LogFile     string        `yaml:"log_file"`
	DBPath      string        `yaml:"db_path"`

	// Source is where the config was loaded from.
	Source string `yaml:"-"`
}

// Normalize fills zero or invalid fields with defaults.
func (c Config) Normalize() Config {
	d := DefaultConfig()
	c.Window = c.Window.Normalize()
	if c.FPS <= 0 {
		c.FPS = d.FPS
	}
	if c.MaxDelta <= 0 {
		c.MaxDelta = d.MaxDelta
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.LogFile == "" {
		c.LogFile = d.LogFile
	}
	if c.DBPath == "" {
		c.DBPath = d.DBPath
	}
	return c
}

// Level returns the configured log level, or info when it cannot be parsed.
func (c Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
