package tui

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/learn-liberty/internal/render"
	"github.com/vovakirdan/learn-liberty/internal/window"
)

// HostConfig configures the terminal host.
type HostConfig struct {
	Window      window.Config // Title and resize policy; zero means window.DefaultConfig
	FPS         int
	SnapshotDir string // Defaults to ~/.liberty/screenshots
	Logger      *log.Logger

	// ProgramOptions are passed to tea.NewProgram after the defaults.
	ProgramOptions []tea.ProgramOption
}

// Host is a terminal window. It is the loop's event source and presentation surface;
// the Bubble Tea program runs on its own goroutine.
type Host struct {
	queue   *window.Queue
	program *tea.Program
	logger  *log.Logger
	closed  atomic.Bool
}

// NewHost creates a host. Call Run to start the terminal program.
func NewHost(cfg HostConfig) *Host {
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr)
	}
	if cfg.SnapshotDir == "" {
		cfg.SnapshotDir = DefaultSnapshotDir()
	}
	if cfg.Window == (window.Config{}) {
		cfg.Window = window.DefaultConfig()
	}

	queue := window.NewQueue()
	// Redraws are paced by TickMsg; the hook only has to exist.
	queue.OnRedraw(func() {})

	model := NewModel(queue, cfg.Window, cfg.FPS, cfg.SnapshotDir, cfg.Logger)
	opts := append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}, cfg.ProgramOptions...)

	return &Host{
		queue:   queue,
		program: tea.NewProgram(model, opts...),
		logger:  cfg.Logger,
	}
}

// DefaultSnapshotDir returns ~/.liberty/screenshots.
func DefaultSnapshotDir() string {
	return filepath.Join(os.Getenv("HOME"), ".liberty", "screenshots")
}

// Run runs the terminal program until the user quits. The loop sees CloseRequested
// afterwards even if the program failed.
func (h *Host) Run() error {
	_, err := h.program.Run()
	h.closed.Store(true)
	h.queue.Push(window.CloseRequested{})
	h.queue.Close()
	if err != nil {
		h.logger.Error("terminal program failed", "error", err)
	}
	return err
}

// Quit asks the terminal program to exit.
func (h *Host) Quit() {
	h.program.Quit()
}

// Next implements window.Source.
func (h *Host) Next(ctx context.Context) (window.Event, error) {
	return h.queue.Next(ctx)
}

// RequestRedraw implements window.Source.
func (h *Host) RequestRedraw() {
	h.queue.RequestRedraw()
}

// Present implements render.Surface. The frame is styled on the loop goroutine and
// handed to the program; a closed terminal reports a lost surface.
func (h *Host) Present(t *render.Target) error {
	if h.closed.Load() {
		return render.ErrSurfaceLost
	}
	h.program.Send(FrameMsg{View: RenderTarget(t), Target: t.Clone()})
	return nil
}
