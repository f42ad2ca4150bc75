// Package content models lessons, their interactive elements and the rules that decide
// when an element counts as finished.
package content

import "fmt"

// Content is one lesson. Registered content is never mutated; updates replace it.
type Content struct {
	ID          string
	Title       string
	Description string
	Media       []string // Asset references, in presentation order
	Elements    []Element
	Metadata    map[string]string
}

// Kind identifies the variant of an interactive element.
type Kind int

const (
	KindQuiz Kind = iota + 1
	KindSimulation
	KindReading
	KindVideo
)

// String returns the lowercase name used in lesson files.
func (k Kind) String() string {
	switch k {
	case KindQuiz:
		return "quiz"
	case KindSimulation:
		return "simulation"
	case KindReading:
		return "reading"
	case KindVideo:
		return "video"
	default:
		return "unknown"
	}
}

// ParseKind converts a lesson-file name to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "quiz":
		return KindQuiz, true
	case "simulation":
		return KindSimulation, true
	case "reading":
		return KindReading, true
	case "video":
		return KindVideo, true
	default:
		return 0, false
	}
}

// Position places an element in lesson space.
type Position struct {
	X, Y float64
}

// Element is an interactive part of a lesson.
type Element struct {
	Kind     Kind
	Label    string
	Data     string
	Position Position
	Criteria Criteria
}

// Criteria decides whether an element is finished. The variant set is closed.
type Criteria interface {
	criteria()
	fmt.Stringer
}

// ScoreThreshold is met when the recorded score reaches Threshold.
type ScoreThreshold struct {
	Threshold float64
}

func (ScoreThreshold) criteria() {}

func (c ScoreThreshold) String() string { return fmt.Sprintf("score>=%g", c.Threshold) }

// Flag is met when the named flag has been set.
type Flag struct {
	Name string
}

func (Flag) criteria() {}

func (c Flag) String() string { return "flag:" + c.Name }

// Interactions is met after Required recorded interactions.
type Interactions struct {
	Required int
}

func (Interactions) criteria() {}

func (c Interactions) String() string { return fmt.Sprintf("interactions>=%d", c.Required) }

// TimeSpent is met once Seconds have been spent on the element.
type TimeSpent struct {
	Seconds float64
}

func (TimeSpent) criteria() {}

func (c TimeSpent) String() string { return fmt.Sprintf("time>=%gs", c.Seconds) }

// Evidence is the set of recorded player actions for one element.
type Evidence struct {
	Score        float64
	Flags        map[string]bool
	Interactions int
	TimeSpent    float64
}

// WithFlag returns a copy of the evidence with the flag set.
func (e Evidence) WithFlag(name string) Evidence {
	flags := make(map[string]bool, len(e.Flags)+1)
	for k, v := range e.Flags {
		flags[k] = v
	}
	flags[name] = true
	e.Flags = flags
	return e
}
