package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/learn-liberty/internal/window"
)

//go:embed defaults/liberty.yaml
var defaultYAML []byte

// DefaultConfig returns the hardcoded configuration used when no YAML is available.
func DefaultConfig() Config {
	return Config{
		Window:   window.DefaultConfig(),
		FPS:      30,
		MaxDelta: 100 * time.Millisecond,
		LogLevel: "info",
		LogFile:  "~/.liberty/liberty.log",
		DBPath:   "~/.liberty/liberty.db",
		Source:   "default",
	}
}
