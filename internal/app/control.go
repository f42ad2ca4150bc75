package app

import (
	"github.com/vovakirdan/learn-liberty/internal/content"
	"github.com/vovakirdan/learn-liberty/internal/state"
)

// Control is the handle handlers use to act on the loop. It is only valid on the loop
// goroutine, inside Handler callbacks.
type Control struct {
	loop *Loop
}

// SubmitEvidence records the latest evidence for an element of the active lesson.
// Evidence is evaluated at the next tick; a later submission for the same element
// replaces an earlier one.
func (c *Control) SubmitEvidence(element int, ev content.Evidence) {
	c.loop.pending[element] = ev
}

// RequestLesson starts loading a lesson in the background. Any load still in flight
// is superseded and its result discarded.
func (c *Control) RequestLesson(id string) {
	c.loop.requestLesson(id)
}

// LeaveLesson deactivates the current lesson and cancels any pending load.
func (c *Control) LeaveLesson() {
	c.loop.leaveLesson()
}

// AddProgress applies an externally supplied progress delta to the active lesson.
func (c *Control) AddProgress(delta float64) error {
	return c.loop.addProgress(delta)
}

// SetPreference upserts a preference.
func (c *Control) SetPreference(key, value string) {
	c.loop.state.SetPreference(key, value)
}

// Preference reads a preference.
func (c *Control) Preference(key string) (string, bool) {
	return c.loop.state.Preference(key)
}

// RequestClose asks the loop to shut down after the current event.
func (c *Control) RequestClose() {
	c.loop.closeRequested = true
}

// State returns a copy of the application state.
func (c *Control) State() state.Snapshot {
	return c.loop.state.Snapshot()
}

// Lesson returns the active lesson.
func (c *Control) Lesson() (*content.Content, bool) {
	id := c.loop.state.CurrentLessonID
	if id == "" {
		return nil, false
	}
	return c.loop.store.Get(id)
}

// Completed reports whether an element of the active lesson has been completed.
func (c *Control) Completed(element int) bool {
	return c.loop.completed[element]
}

// Loading returns the id of the lesson being loaded, or "".
func (c *Control) Loading() string {
	return c.loop.loading
}

// NextLessonID returns the lesson registered after the active one.
func (c *Control) NextLessonID() (string, bool) {
	return c.loop.store.Next(c.loop.state.CurrentLessonID)
}

// Stats returns loop counters.
func (c *Control) Stats() Stats {
	return c.loop.Stats()
}
