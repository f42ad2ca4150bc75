package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/learn-liberty/internal/window"
)

// KeyMap defines the host key bindings. Host-level keys are handled by the terminal;
// the rest are forwarded to the loop as input events.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Answer   key.Binding
	Leave    key.Binding
	Next     key.Binding
	Snapshot key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Answer, k.Next, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Answer},
		{k.Leave, k.Next},
		{k.Snapshot, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "next"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "interact"),
		),
		Answer: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("0-9", "answer quiz"),
		),
		Leave: key.NewBinding(
			key.WithKeys("l", "esc"),
			key.WithHelp("l/esc", "leave lesson"),
		),
		Next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next lesson"),
		),
		Snapshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HostAction is a key handled by the terminal host itself.
type HostAction int

const (
	HostActionNone HostAction = iota
	HostActionQuit
	HostActionSnapshot
	HostActionHelp
)

// MapKey translates a key message. Host keys return their action and no event;
// every other key becomes an input event for the loop.
func (k KeyMap) MapKey(msg tea.KeyMsg) (window.Event, HostAction) {
	switch {
	case key.Matches(msg, k.Quit):
		return window.CloseRequested{}, HostActionQuit
	case key.Matches(msg, k.Snapshot):
		return nil, HostActionSnapshot
	case key.Matches(msg, k.Help):
		return nil, HostActionHelp
	}
	return window.Input{Kind: window.InputKey, Key: msg.String()}, HostActionNone
}

// MapMouse translates a mouse message. Only left-button presses produce events.
func MapMouse(msg tea.MouseMsg) (window.Event, bool) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil, false
	}
	return window.Input{Kind: window.InputClick, X: float64(msg.X), Y: float64(msg.Y)}, true
}
