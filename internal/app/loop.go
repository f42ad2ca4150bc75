// Package app runs the cooperative application loop. One goroutine owns the event
// source, the state and the renderer; background lesson loads report back over a
// channel that is drained only at the start of a tick.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/learn-liberty/internal/clock"
	"github.com/vovakirdan/learn-liberty/internal/content"
	"github.com/vovakirdan/learn-liberty/internal/render"
	"github.com/vovakirdan/learn-liberty/internal/state"
	"github.com/vovakirdan/learn-liberty/internal/window"
)

// Phase is the loop's lifecycle state.
type Phase int

const (
	Running Phase = iota
	ShuttingDown
	Stopped
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case Running:
		return "running"
	case ShuttingDown:
		return "shutting down"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// LoadFunc fetches a lesson by id. It runs on a background goroutine and must not
// touch loop state.
type LoadFunc func(ctx context.Context, id string) (content.Content, error)

// resultBuffer sizes the one results channel shared by all loads. Superseded loads
// give up sending once their context is cancelled, so only the current load can block
// on a full buffer, and the next tick drains it.
const resultBuffer = 8

// LoadResult carries a finished lesson load back to the loop.
type LoadResult struct {
	Generation uint64
	LessonID   string
	Content    content.Content
	Err        error
}

// Options configures a Loop. Source, State, Store and Renderer are required.
type Options struct {
	Source   window.Source
	Clock    *clock.Clock
	State    *state.State
	Store    *content.Store
	Renderer *render.Renderer
	Logger   *log.Logger

	// Load fetches lessons for RequestLesson. Defaults to looking the id up in Store.
	Load LoadFunc
}

// Stats counts loop activity.
type Stats struct {
	Phase      Phase
	Ticks      uint64
	Dropped    int // Frames dropped after recoverable errors
	Discarded  int // Malformed events and stale load results discarded
	Generation uint64
}

// Loop coordinates one cooperative tick per RedrawRequested event.
type Loop struct {
	src      window.Source
	clock    *clock.Clock
	state    *state.State
	store    *content.Store
	renderer *render.Renderer
	logger   *log.Logger
	load     LoadFunc
	handlers []Handler
	ctl      *Control

	phase          Phase
	closeRequested bool
	fatalErr       error
	baseCtx        context.Context

	// Lesson loading
	generation uint64
	results    chan LoadResult
	cancelLoad context.CancelFunc
	loading    string

	// Active lesson bookkeeping
	pending   map[int]content.Evidence
	completed map[int]bool
	notified  bool

	stats Stats
}

// New creates a loop in the Running phase.
func New(opts Options) (*Loop, error) {
	if opts.Source == nil || opts.State == nil || opts.Store == nil || opts.Renderer == nil {
		return nil, errors.New("app: source, state, store and renderer are required")
	}
	if opts.Clock == nil {
		opts.Clock = clock.New(clock.SystemTime{}, clock.DefaultMaxDelta)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	l := &Loop{
		src:       opts.Source,
		clock:     opts.Clock,
		state:     opts.State,
		store:     opts.Store,
		renderer:  opts.Renderer,
		logger:    opts.Logger,
		load:      opts.Load,
		phase:     Running,
		baseCtx:   context.Background(),
		results:   make(chan LoadResult, resultBuffer),
		pending:   make(map[int]content.Evidence),
		completed: make(map[int]bool),
	}
	if l.load == nil {
		l.load = l.loadFromStore
	}
	l.ctl = &Control{loop: l}
	return l, nil
}

// Register adds a handler. Handlers are invoked in registration order.
func (l *Loop) Register(h Handler) {
	l.handlers = append(l.handlers, h)
}

// Control returns the loop's control handle for use on the loop goroutine.
func (l *Loop) Control() *Control {
	return l.ctl
}

// Phase returns the current lifecycle phase.
func (l *Loop) Phase() Phase {
	return l.phase
}

// Stats returns loop counters.
func (l *Loop) Stats() Stats {
	s := l.stats
	s.Phase = l.phase
	s.Generation = l.generation
	return s
}

// Run consumes events until the loop stops. It returns nil after a normal close,
// the fatal render error after unrecoverable device loss, or ctx's error when
// cancelled.
func (l *Loop) Run(ctx context.Context) error {
	l.baseCtx = ctx
	l.logger.Info("loop started", "lessons", l.store.Len())
	l.src.RequestRedraw()

	for l.phase == Running {
		ev, err := l.src.Next(ctx)
		if err != nil {
			l.shutdown("source ended")
			if errors.Is(err, window.ErrClosed) {
				return l.fatalErr
			}
			return err
		}
		l.Handle(ev)
	}
	return l.fatalErr
}

// Handle processes a single event. Events arriving after the loop left Running are
// ignored.
func (l *Loop) Handle(ev window.Event) {
	if l.phase != Running {
		return
	}
	if err := window.Validate(ev); err != nil {
		l.stats.Discarded++
		l.logger.Warn("discarding event", "error", err)
		return
	}

	switch e := ev.(type) {
	case window.RedrawRequested:
		l.tick()
	case window.Resize:
		l.renderer.Resize(e.Width, e.Height)
		l.logger.Debug("resize", "width", e.Width, "height", e.Height)
	case window.CloseRequested:
		l.shutdown("close requested")
	case window.Input:
		for _, h := range l.handlers {
			h.HandleInput(e, l.ctl)
		}
	default:
		l.stats.Discarded++
		l.logger.Warn("discarding unknown event", "event", window.Name(ev))
	}

	if l.closeRequested && l.phase == Running {
		l.shutdown("handler requested close")
	}
}

// tick runs one frame: drain loads, advance time, fold evidence, render.
func (l *Loop) tick() {
	l.drainResults()

	delta := l.clock.Tick()
	if err := l.state.Update(delta); err != nil {
		l.logger.Error("state update failed", "delta", delta, "error", err)
	}
	l.stats.Ticks++

	for _, h := range l.handlers {
		h.HandleTick(delta, l.ctl)
	}

	l.foldEvidence()
	l.checkCompletion()

	if err := l.renderer.Render(); err != nil {
		if render.IsFatal(err) {
			l.logger.Error("renderer failed", "error", err)
			l.fatalErr = err
			l.shutdown("fatal render error")
			return
		}
		l.stats.Dropped++
		l.logger.Warn("frame dropped", "frame", l.state.FrameCount, "error", err)
	}

	if !l.closeRequested {
		l.src.RequestRedraw()
	}
}

// drainResults applies every finished load without blocking.
func (l *Loop) drainResults() {
	for {
		select {
		case res := <-l.results:
			l.applyResult(res)
		default:
			return
		}
	}
}

func (l *Loop) applyResult(res LoadResult) {
	if res.Generation != l.generation {
		l.stats.Discarded++
		l.logger.Debug("discarding stale lesson load",
			"lesson", res.LessonID,
			"generation", res.Generation,
			"current", l.generation,
		)
		return
	}

	l.loading = ""
	l.cancelLoad = nil

	if res.Err != nil {
		l.logger.Error("lesson load failed", "lesson", res.LessonID, "error", res.Err)
		return
	}
	if err := l.store.Register(res.Content); err != nil {
		l.logger.Error("lesson rejected", "lesson", res.LessonID, "error", err)
		return
	}

	l.state.LeaveLesson()
	if err := l.state.AdvanceLesson(l.store, res.Content.ID, 0); err != nil {
		l.logger.Error("cannot activate lesson", "lesson", res.Content.ID, "error", err)
		return
	}
	l.resetLessonBookkeeping()

	c, _ := l.store.Get(res.Content.ID)
	l.logger.Info("lesson started", "lesson", c.ID, "title", c.Title, "elements", len(c.Elements))
	for _, h := range l.handlers {
		h.LessonLoaded(c, l.ctl)
	}
}

// foldEvidence evaluates pending evidence for the active lesson. Each element counts
// once; completing it adds an equal share of the lesson's progress.
func (l *Loop) foldEvidence() {
	if len(l.pending) == 0 {
		return
	}
	defer clear(l.pending)

	if !l.state.LessonActive() {
		return
	}
	id := l.state.CurrentLessonID
	c, ok := l.store.Get(id)
	if !ok {
		l.logger.Error("active lesson missing from store", "lesson", id)
		return
	}

	indexes := make([]int, 0, len(l.pending))
	for i := range l.pending {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	n := len(c.Elements)
	for _, i := range indexes {
		if i < 0 || i >= n {
			l.logger.Warn("evidence for unknown element", "lesson", id, "element", i)
			continue
		}
		if l.completed[i] {
			continue
		}

		done, err := l.store.Evaluate(c.Elements[i], l.pending[i])
		if err != nil {
			l.logger.Error("cannot evaluate element", "lesson", id, "element", i, "error", err)
			continue
		}
		if !done {
			continue
		}

		l.completed[i] = true
		share := 1 / float64(n)
		if len(l.completed) == n {
			share = 1 // Last element: land exactly on full progress
		}
		if err := l.state.AdvanceLesson(l.store, id, share); err != nil {
			l.logger.Error("cannot advance lesson", "lesson", id, "error", err)
			continue
		}
		l.logger.Info("element complete",
			"lesson", id,
			"element", i,
			"label", c.Elements[i].Label,
			"progress", fmt.Sprintf("%.2f", l.state.LessonProgress),
		)
	}
}

// checkCompletion notifies handlers once per lesson activation.
func (l *Loop) checkCompletion() {
	if l.notified || !l.state.LessonComplete() {
		return
	}
	l.notified = true
	snap := l.state.Snapshot()
	l.logger.Info("lesson complete", "lesson", snap.CurrentLessonID, "elapsed", snap.ElapsedTime)
	for _, h := range l.handlers {
		h.LessonCompleted(snap.CurrentLessonID, snap)
	}
}

func (l *Loop) requestLesson(id string) {
	l.supersedeLoad()
	gen := l.generation
	ctx, cancel := context.WithCancel(l.baseCtx)
	l.cancelLoad = cancel
	l.loading = id
	l.logger.Debug("loading lesson", "lesson", id, "generation", gen)

	load, results := l.load, l.results
	go func() {
		c, err := load(ctx, id)
		select {
		case results <- LoadResult{Generation: gen, LessonID: id, Content: c, Err: err}:
		case <-ctx.Done():
		}
	}()
}

func (l *Loop) leaveLesson() {
	l.supersedeLoad()
	if l.state.LessonActive() {
		l.logger.Info("lesson left", "lesson", l.state.CurrentLessonID, "progress", l.state.LessonProgress)
	}
	l.state.LeaveLesson()
	l.resetLessonBookkeeping()
}

func (l *Loop) addProgress(delta float64) error {
	return l.state.AdvanceLesson(l.store, l.state.CurrentLessonID, delta)
}

// supersedeLoad bumps the generation so any in-flight result is discarded on arrival.
func (l *Loop) supersedeLoad() {
	l.generation++
	if l.cancelLoad != nil {
		l.cancelLoad()
		l.cancelLoad = nil
	}
	l.loading = ""
}

func (l *Loop) resetLessonBookkeeping() {
	clear(l.pending)
	clear(l.completed)
	l.notified = false
}

func (l *Loop) loadFromStore(_ context.Context, id string) (content.Content, error) {
	c, ok := l.store.Get(id)
	if !ok {
		return content.Content{}, fmt.Errorf("load %q: %w", id, content.ErrNotFound)
	}
	return *c, nil
}

// shutdown moves through ShuttingDown to Stopped, releasing the renderer.
func (l *Loop) shutdown(reason string) {
	if l.phase != Running {
		return
	}
	l.phase = ShuttingDown
	l.logger.Info("shutting down", "reason", reason, "frames", l.state.FrameCount)

	l.supersedeLoad()
	l.renderer.Release()

	l.phase = Stopped
}
