package app

import (
	"github.com/vovakirdan/learn-liberty/internal/content"
	"github.com/vovakirdan/learn-liberty/internal/state"
	"github.com/vovakirdan/learn-liberty/internal/window"
)

// Handler is the capability set the loop invokes synchronously on its own goroutine.
// Embed BaseHandler to implement only the methods you need.
type Handler interface {
	// HandleInput is called for every valid input event.
	HandleInput(in window.Input, ctl *Control)

	// HandleTick is called once per tick after the state update, before rendering.
	HandleTick(delta float64, ctl *Control)

	// LessonLoaded is called when a requested lesson becomes active.
	LessonLoaded(c *content.Content, ctl *Control)

	// LessonCompleted is called once when the active lesson reaches full progress.
	LessonCompleted(id string, snap state.Snapshot)
}

// BaseHandler implements Handler with no-ops.
type BaseHandler struct{}

func (BaseHandler) HandleInput(window.Input, *Control) {}
func (BaseHandler) HandleTick(float64, *Control) {}
func (BaseHandler) LessonLoaded(*content.Content, *Control) {}
func (BaseHandler) LessonCompleted(string, state.Snapshot) {}
