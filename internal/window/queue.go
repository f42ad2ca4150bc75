package window

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Next once the queue is closed and drained.
var ErrClosed = errors.New("window: event source closed")

// Source delivers platform events to the single loop goroutine.
type Source interface {
	// Next blocks until the next event is available or ctx is done.
	Next(ctx context.Context) (Event, error)

	// RequestRedraw asks the platform for one RedrawRequested event.
	// Repeated calls before the event is delivered have no further effect.
	RequestRedraw()
}

// Queue is an unbounded, ordered event queue. Producers may push from any goroutine;
// a single consumer receives events with Next. No event is ever dropped.
type Queue struct {
	mu       sync.Mutex
	events   []Event
	signal   chan struct{} // Buffered(1); pinged when events are appended
	closed   bool
	pending  bool // A RedrawRequested is queued or has been requested
	onRedraw func()
}

// NewQueue creates an empty event queue.
func NewQueue() *Queue {
	return &Queue{
		signal: make(chan struct{}, 1),
	}
}

// OnRedraw installs a hook called when a redraw is requested, instead of queueing
// RedrawRequested immediately. Hosts that pace frames use it to emit the event on
// their own schedule via Redraw.
func (q *Queue) OnRedraw(fn func()) {
	q.mu.Lock()
	q.onRedraw = fn
	q.mu.Unlock()
}

// Push appends an event. Pushing to a closed queue is a no-op.
func (q *Queue) Push(ev Event) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.events = append(q.events, ev)
	q.mu.Unlock()
	q.notify()
}

// RequestRedraw implements Source.
func (q *Queue) RequestRedraw() {
	q.mu.Lock()
	if q.closed || q.pending {
		q.mu.Unlock()
		return
	}
	q.pending = true
	hook := q.onRedraw
	if hook == nil {
		q.events = append(q.events, RedrawRequested{})
	}
	q.mu.Unlock()

	if hook != nil {
		hook()
		return
	}
	q.notify()
}

// Redraw delivers the requested RedrawRequested event. It does nothing when no redraw
// is outstanding, so frame pacing never queues more than one frame.
func (q *Queue) Redraw() bool {
	q.mu.Lock()
	if q.closed || !q.pending || q.onRedraw == nil {
		q.mu.Unlock()
		return false
	}
	for _, ev := range q.events {
		if _, ok := ev.(RedrawRequested); ok {
			q.mu.Unlock()
			return false
		}
	}
	q.events = append(q.events, RedrawRequested{})
	q.mu.Unlock()
	q.notify()
	return true
}

// Close stops accepting events. Events already queued are still delivered.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.notify()
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Next implements Source.
func (q *Queue) Next(ctx context.Context) (Event, error) {
	for {
		q.mu.Lock()
		if len(q.events) > 0 {
			ev := q.events[0]
			q.events[0] = nil
			q.events = q.events[1:]
			if _, ok := ev.(RedrawRequested); ok {
				q.pending = false
			}
			q.mu.Unlock()
			return ev, nil
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return nil, ErrClosed
		}

		select {
		case <-q.signal:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (q *Queue) notify() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}
