package content

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCriteria is returned when an element has no completion criteria.
	ErrNoCriteria = errors.New("content: element has no completion criteria")

	// ErrCriteriaMismatch is returned for kind/criteria pairs that cannot be evaluated.
	ErrCriteriaMismatch = errors.New("content: criteria not supported for element kind")
)

// supports reports whether an element kind can be judged by the given criteria.
//
//	            score  flag  interactions  time
//	quiz          x     x        x
//	simulation    x     x        x          x
//	reading             x        x          x
//	video               x                   x
func supports(k Kind, c Criteria) bool {
	switch c.(type) {
	case ScoreThreshold:
		return k == KindQuiz || k == KindSimulation
	case Flag:
		return k == KindQuiz || k == KindSimulation || k == KindReading || k == KindVideo
	case Interactions:
		return k == KindQuiz || k == KindSimulation || k == KindReading
	case TimeSpent:
		return k == KindSimulation || k == KindReading || k == KindVideo
	default:
		return false
	}
}

// checkElement validates an element's criteria against its kind.
func checkElement(el Element) error {
	if el.Criteria == nil {
		return ErrNoCriteria
	}
	if !supports(el.Kind, el.Criteria) {
		return fmt.Errorf("%w: %s with %s", ErrCriteriaMismatch, el.Kind, el.Criteria)
	}
	return nil
}

// Evaluate reports whether the evidence satisfies the element's criteria.
// It has no side effects; the same inputs always give the same answer.
func Evaluate(el Element, ev Evidence) (bool, error) {
	if err := checkElement(el); err != nil {
		return false, err
	}

	switch c := el.Criteria.(type) {
	case ScoreThreshold:
		return ev.Score >= c.Threshold, nil
	case Flag:
		return ev.Flags[c.Name], nil
	case Interactions:
		return ev.Interactions >= c.Required, nil
	case TimeSpent:
		return ev.TimeSpent >= c.Seconds, nil
	default:
		panic(fmt.Sprintf("content: unhandled criteria %T", c))
	}
}
