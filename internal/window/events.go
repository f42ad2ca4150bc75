// Package window defines the normalized event stream produced by the platform window
// and consumed by the application loop.
package window

import "fmt"

// Event is a single platform occurrence delivered to the loop.
// The set of variants is closed; the loop switches over all of them.
type Event interface {
	windowEvent()
}

// Resize is sent when the drawable surface changes size.
type Resize struct {
	Width  int
	Height int
}

func (Resize) windowEvent() {}

// CloseRequested is sent when the user or platform asks the window to close.
type CloseRequested struct{}

func (CloseRequested) windowEvent() {}

// RedrawRequested marks the start of one tick.
type RedrawRequested struct{}

func (RedrawRequested) windowEvent() {}

// InputKind distinguishes the input variants carried by Input.
type InputKind int

const (
	InputKey InputKind = iota + 1
	InputClick
)

// String returns a human-readable name for the input kind.
func (k InputKind) String() string {
	switch k {
	case InputKey:
		return "key"
	case InputClick:
		return "click"
	default:
		return "unknown"
	}
}

// Input is a keyboard or pointer event.
type Input struct {
	Kind InputKind
	Key  string  // Key name for InputKey (e.g. "enter", "up", "3")
	X, Y float64 // Pointer position for InputClick, in cells
}

func (Input) windowEvent() {}

// Name returns a short label for logging.
func Name(ev Event) string {
	switch e := ev.(type) {
	case Resize:
		return fmt.Sprintf("resize(%dx%d)", e.Width, e.Height)
	case CloseRequested:
		return "close"
	case RedrawRequested:
		return "redraw"
	case Input:
		return "input(" + e.Kind.String() + ")"
	default:
		return fmt.Sprintf("%T", ev)
	}
}

// InputError reports a malformed platform event. The loop logs and discards it.
type InputError struct {
	Event  Event
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("window: malformed %s event: %s", Name(e.Event), e.Reason)
}

// Validate checks an event for values the loop cannot act on.
// Returns *InputError for malformed events, nil otherwise.
func Validate(ev Event) error {
	switch e := ev.(type) {
	case nil:
		return &InputError{Event: ev, Reason: "nil event"}
	case Resize:
		if e.Width <= 0 || e.Height <= 0 {
			return &InputError{Event: ev, Reason: "non-positive dimensions"}
		}
	case Input:
		switch e.Kind {
		case InputKey:
			if e.Key == "" {
				return &InputError{Event: ev, Reason: "empty key"}
			}
		case InputClick:
			if e.X < 0 || e.Y < 0 {
				return &InputError{Event: ev, Reason: "negative pointer position"}
			}
		default:
			return &InputError{Event: ev, Reason: "unknown input kind"}
		}
	}
	return nil
}
