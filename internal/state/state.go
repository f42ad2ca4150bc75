// Package state holds the application state advanced by the loop each tick.
// A State has exactly one owner and is not safe for concurrent use.
package state

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidDelta is returned for negative or NaN frame deltas.
	ErrInvalidDelta = errors.New("state: invalid delta")

	// ErrUnknownLessonID is returned when advancing a lesson that is not registered.
	ErrUnknownLessonID = errors.New("state: unknown lesson id")

	// ErrInvalidProgress is returned for NaN progress deltas.
	ErrInvalidProgress = errors.New("state: invalid progress")
)

// Catalog reports whether a lesson id is registered. *content.Store satisfies it.
type Catalog interface {
	Has(id string) bool
}

// State is the application state. Fields are read directly; writes go through methods.
type State struct {
	FrameCount      uint64
	ElapsedTime     float64 // Seconds of simulated time
	LessonProgress  float64 // Always within [0, 1]
	CurrentLessonID string  // Empty when no lesson is active

	preferences map[string]string
}

// New returns the startup state.
func New() *State {
	return &State{
		preferences: make(map[string]string),
	}
}

// Update advances the frame counter and elapsed time by one tick.
func (s *State) Update(delta float64) error {
	if delta < 0 || math.IsNaN(delta) {
		return fmt.Errorf("update(%v): %w", delta, ErrInvalidDelta)
	}
	s.FrameCount++
	s.ElapsedTime += delta
	return nil
}

// AdvanceLesson makes id the current lesson and adds progressDelta to its progress,
// clamped to [0, 1]. Progress carries over when id differs from the current lesson;
// call LeaveLesson first to start from zero. On error the state is unchanged.
func (s *State) AdvanceLesson(catalog Catalog, id string, progressDelta float64) error {
	if catalog == nil || !catalog.Has(id) {
		return fmt.Errorf("advance %q: %w", id, ErrUnknownLessonID)
	}
	if math.IsNaN(progressDelta) {
		return fmt.Errorf("advance %q: %w", id, ErrInvalidProgress)
	}

	s.CurrentLessonID = id
	s.LessonProgress = clamp01(s.LessonProgress + progressDelta)
	return nil
}

// LessonActive reports whether a lesson is in progress.
func (s *State) LessonActive() bool {
	return s.CurrentLessonID != ""
}

// LessonComplete reports whether the active lesson has reached full progress.
func (s *State) LessonComplete() bool {
	return s.LessonActive() && s.LessonProgress >= 1
}

// LeaveLesson clears the active lesson.
func (s *State) LeaveLesson() {
	s.CurrentLessonID = ""
	s.LessonProgress = 0
}

// SetPreference inserts or replaces a preference.
func (s *State) SetPreference(key, value string) {
	if s.preferences == nil {
		s.preferences = make(map[string]string)
	}
	s.preferences[key] = value
}

// Preference returns a single preference.
func (s *State) Preference(key string) (string, bool) {
	v, ok := s.preferences[key]
	return v, ok
}

// Preferences returns a copy of all preferences for an external persistence layer.
func (s *State) Preferences() map[string]string {
	out := make(map[string]string, len(s.preferences))
	for k, v := range s.preferences {
		out[k] = v
	}
	return out
}

// LoadPreferences merges previously persisted preferences into the state.
func (s *State) LoadPreferences(prefs map[string]string) {
	for k, v := range prefs {
		s.SetPreference(k, v)
	}
}

// Snapshot is a read-only copy of the state for drawing and handlers.
type Snapshot struct {
	FrameCount      uint64
	ElapsedTime     float64
	LessonProgress  float64
	CurrentLessonID string
}

// Snapshot copies the scalar fields of the state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		FrameCount:      s.FrameCount,
		ElapsedTime:     s.ElapsedTime,
		LessonProgress:  s.LessonProgress,
		CurrentLessonID: s.CurrentLessonID,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
