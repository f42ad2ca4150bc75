package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/learn-liberty/internal/render"
	"github.com/vovakirdan/learn-liberty/internal/window"
)

// FrameMsg carries a presented frame from the loop to the terminal.
type FrameMsg struct {
	View   string
	Target *render.Target
}

var footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Model is the Bubble Tea model for the terminal window.
type Model struct {
	queue       *window.Queue
	keys        KeyMap
	help        help.Model
	logger      *log.Logger
	window      window.Config
	fps         int
	snapshotDir string

	width    int
	height   int
	sized    bool // A terminal size has been accepted
	frame    string
	target   *render.Target
	notice   string // Transient host message, such as a saved screenshot path
	quitting bool
}

// NewModel creates a model that feeds events into queue. win supplies the terminal
// title and whether size changes after the first one reach the loop.
func NewModel(queue *window.Queue, win window.Config, fps int, snapshotDir string, logger *log.Logger) Model {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	h := help.New()
	h.ShowAll = false

	return Model{
		queue:       queue,
		keys:        DefaultKeyMap(),
		help:        h,
		logger:      logger,
		window:      win.Normalize(),
		fps:         fps,
		snapshotDir: snapshotDir,
	}
}

// Init sets the terminal title and starts frame pacing.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle(m.window.Title), tickCmd(m.fps))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if ev, ok := MapMouse(msg); ok {
			m.queue.Push(ev)
		}
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		// Only emits a redraw when the loop asked for one.
		m.queue.Redraw()
		return m, tickCmd(m.fps)

	case FrameMsg:
		m.frame = msg.View
		m.target = msg.Target
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ev, action := m.keys.MapKey(msg)
	switch action {
	case HostActionQuit:
		m.queue.Push(ev)
		m.quitting = true
		return m, tea.Quit
	case HostActionSnapshot:
		m.saveScreenshot()
		return m, nil
	case HostActionHelp:
		// The footer height changes, so does the frame area.
		m.help.ShowAll = !m.help.ShowAll
		m.pushResize()
		return m, nil
	}

	m.notice = ""
	m.queue.Push(ev)
	return m, nil
}

// handleResize reports the usable frame area to the loop. A fixed-size window keeps
// the first size it is given.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	if m.sized && !m.window.Resizable {
		m.logger.Debug("ignoring resize of fixed window", "width", msg.Width, "height", msg.Height)
		return m, nil
	}
	m.sized = true
	m.width, m.height = msg.Width, msg.Height
	m.help.Width = msg.Width
	m.pushResize()
	return m, nil
}

func (m *Model) pushResize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	w, h := FrameSize(m.width, m.height, lipgloss.Height(m.footer()))
	m.queue.Push(window.Resize{Width: w, Height: h})
}

// FrameSize returns the frame area for a terminal of the given size with footer
// rows reserved below it.
func FrameSize(termW, termH, footer int) (int, int) {
	return max(termW, 1), max(termH-footer, 1)
}

// saveScreenshot writes the last presented frame as text and PNG.
func (m *Model) saveScreenshot() {
	if m.target == nil {
		m.notice = "nothing to capture yet"
		return
	}

	name := "liberty_" + time.Now().Format("20060102_150405")
	path, err := render.SaveSnapshot(m.snapshotDir, name, m.target)
	if err != nil {
		m.logger.Error("screenshot failed", "dir", m.snapshotDir, "error", err)
		m.notice = "screenshot failed"
		return
	}
	m.logger.Info("screenshot saved", "path", path)
	m.notice = "saved " + filepath.Base(path)
}

// View renders the last presented frame and the help footer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	return m.frame + "\n" + footerStyle.Render(m.footer())
}

func (m Model) footer() string {
	footer := m.help.View(m.keys)
	if m.notice != "" {
		footer = fmt.Sprintf("%s  %s", m.notice, footer)
	}
	return footer
}
