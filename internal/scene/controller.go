package scene

import (
	"fmt"

	"github.com/vovakirdan/learn-liberty/internal/app"
	"github.com/vovakirdan/learn-liberty/internal/content"
	"github.com/vovakirdan/learn-liberty/internal/state"
	"github.com/vovakirdan/learn-liberty/internal/window"
)

// PrefLastLesson is the preference key holding the most recently started lesson.
const PrefLastLesson = "last_lesson"

// CompletionFunc is notified when a lesson is completed.
type CompletionFunc func(id string, snap state.Snapshot)

// Controller is the default input handler. On the menu it picks a lesson; inside a
// lesson it selects elements and records evidence for them.
type Controller struct {
	app.BaseHandler

	store      *content.Store
	view       *LessonView
	onComplete CompletionFunc
	ctl        *app.Control

	lesson   *content.Content
	evidence []content.Evidence
	selected int
	status   string
	start    string // Lesson requested on the first tick
	started  bool
}

// NewController creates a controller drawing into view.
func NewController(store *content.Store, view *LessonView) *Controller {
	c := &Controller{
		store:  store,
		view:   view,
		status: "Welcome",
	}
	view.Bind(c.frame)
	return c
}

// StartWith requests lesson id on the first tick.
func (c *Controller) StartWith(id string) {
	c.start = id
}

// OnComplete registers a completion callback.
func (c *Controller) OnComplete(fn CompletionFunc) {
	c.onComplete = fn
}

// Selected returns the selected list index.
func (c *Controller) Selected() int {
	return c.selected
}

// Evidence returns the evidence recorded for element i of the active lesson.
func (c *Controller) Evidence(i int) (content.Evidence, bool) {
	if i < 0 || i >= len(c.evidence) {
		return content.Evidence{}, false
	}
	return c.evidence[i], true
}

// HandleInput implements app.Handler.
func (c *Controller) HandleInput(in window.Input, ctl *app.Control) {
	c.ctl = ctl
	switch in.Kind {
	case window.InputClick:
		i, ok := c.view.ItemAt(int(in.Y))
		if !ok {
			return
		}
		c.selected = i
		c.activate(ctl)
	case window.InputKey:
		c.handleKey(in.Key, ctl)
	}
}

func (c *Controller) handleKey(key string, ctl *app.Control) {
	switch key {
	case "up", "k":
		c.move(-1)
	case "down", "j":
		c.move(1)
	case "enter", " ":
		c.activate(ctl)
	case "l", "esc":
		if c.lesson != nil {
			ctl.LeaveLesson()
			c.clearLesson()
			c.status = "Left lesson"
		}
	case "n":
		next, ok := ctl.NextLessonID()
		if !ok {
			c.status = "No lessons available"
			return
		}
		ctl.RequestLesson(next)
	default:
		if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
			c.answer(int(key[0]-'0'), ctl)
		}
	}
}

// HandleTick implements app.Handler. Time accrues on the selected element.
func (c *Controller) HandleTick(delta float64, ctl *app.Control) {
	c.ctl = ctl
	if _, ok := ctl.Lesson(); !ok && c.lesson != nil {
		c.clearLesson() // Left by another handler
	}
	if !c.started {
		c.started = true
		if c.start != "" {
			ctl.RequestLesson(c.start)
		}
	}

	if c.lesson != nil && c.selected < len(c.evidence) && !ctl.Completed(c.selected) {
		ev := &c.evidence[c.selected]
		ev.TimeSpent += delta
		if _, ok := c.lesson.Elements[c.selected].Criteria.(content.TimeSpent); ok {
			ctl.SubmitEvidence(c.selected, *ev)
		}
	}
}

// LessonLoaded implements app.Handler.
func (c *Controller) LessonLoaded(lesson *content.Content, ctl *app.Control) {
	c.ctl = ctl
	c.lesson = lesson
	c.evidence = make([]content.Evidence, len(lesson.Elements))
	c.selected = 0
	c.status = "Started " + lesson.Title
	ctl.SetPreference(PrefLastLesson, lesson.ID)
}

// LessonCompleted implements app.Handler.
func (c *Controller) LessonCompleted(id string, snap state.Snapshot) {
	c.status = "Lesson complete! Press n for the next lesson"
	if c.onComplete != nil {
		c.onComplete(id, snap)
	}
}

func (c *Controller) move(d int) {
	n := c.listLen()
	if n == 0 {
		c.selected = 0
		return
	}
	c.selected = (c.selected + d + n) % n
}

func (c *Controller) listLen() int {
	if c.lesson != nil {
		return len(c.lesson.Elements)
	}
	return c.store.Len()
}

// activate interacts with the selected element, or starts the selected lesson.
func (c *Controller) activate(ctl *app.Control) {
	if c.lesson == nil {
		lessons := c.store.List()
		if c.selected < 0 || c.selected >= len(lessons) {
			return
		}
		ctl.RequestLesson(lessons[c.selected].ID)
		return
	}
	if c.selected < 0 || c.selected >= len(c.evidence) {
		return
	}

	el := c.lesson.Elements[c.selected]
	ev := c.evidence[c.selected]
	ev.Interactions++
	if el.Kind == content.KindReading || el.Kind == content.KindVideo {
		ev = ev.WithFlag(flagName(el))
	}
	c.evidence[c.selected] = ev
	ctl.SubmitEvidence(c.selected, ev)
	c.status = fmt.Sprintf("%s: %d interactions", elementName(el), ev.Interactions)
}

// answer records a quiz answer; 0 counts as full marks.
func (c *Controller) answer(digit int, ctl *app.Control) {
	if c.lesson == nil || c.selected < 0 || c.selected >= len(c.evidence) {
		return
	}
	el := c.lesson.Elements[c.selected]
	if el.Kind != content.KindQuiz {
		c.status = "Select a quiz to answer"
		return
	}

	score := float64(digit * 10)
	if digit == 0 {
		score = 100
	}
	ev := c.evidence[c.selected]
	ev.Score = score
	c.evidence[c.selected] = ev
	ctl.SubmitEvidence(c.selected, ev)
	c.status = fmt.Sprintf("%s: scored %.0f", elementName(el), score)
}

func (c *Controller) clearLesson() {
	c.lesson = nil
	c.evidence = nil
	c.selected = 0
}

// frame builds what the view shows. The view calls it while drawing, on the loop
// goroutine.
func (c *Controller) frame() Frame {
	f := Frame{Selected: c.selected, Status: c.status}
	if c.ctl == nil {
		f.Lessons = c.store.List()
		return f
	}

	ctl := c.ctl
	f.Snapshot = ctl.State()
	f.Loading = ctl.Loading()
	if lesson, ok := ctl.Lesson(); ok {
		f.Lesson = lesson
		f.Completed = make(map[int]bool, len(lesson.Elements))
		for i := range lesson.Elements {
			f.Completed[i] = ctl.Completed(i)
		}
	} else {
		f.Lessons = c.store.List()
	}
	return f
}

// flagName is the flag an interaction raises: the criterion's flag, or a default
// per kind.
func flagName(el content.Element) string {
	if f, ok := el.Criteria.(content.Flag); ok {
		return f.Name
	}
	if el.Kind == content.KindVideo {
		return "watched"
	}
	return "read"
}

func elementName(el content.Element) string {
	if el.Label != "" {
		return el.Label
	}
	return el.Kind.String()
}
