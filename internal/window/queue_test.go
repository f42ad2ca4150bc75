package window

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestQueueOrder(t *testing.T) {
	q := NewQueue()
	q.Push(Resize{Width: 800, Height: 600})
	q.Push(Input{Kind: InputKey, Key: "a"})
	q.Push(CloseRequested{})

	ctx := context.Background()
	expected := []Event{
		Resize{Width: 800, Height: 600},
		Input{Kind: InputKey, Key: "a"},
		CloseRequested{},
	}
	for i, want := range expected {
		got, err := q.Next(ctx)
		if err != nil {
			t.Fatalf("Next() #%d failed: %v", i, err)
		}
		if got != want {
			t.Errorf("Next() #%d = %v, expected %v", i, got, want)
		}
	}
}

func TestQueueNoDrop(t *testing.T) {
	q := NewQueue()
	const n = 1000

	go func() {
		for i := 0; i < n; i++ {
			q.Push(Resize{Width: i + 1, Height: 1})
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for i := 0; i < n; i++ {
		ev, err := q.Next(ctx)
		if err != nil {
			t.Fatalf("Next() failed after %d events: %v", i, err)
		}
		r, ok := ev.(Resize)
		if !ok || r.Width != i+1 {
			t.Fatalf("event %d = %v, expected width %d", i, ev, i+1)
		}
	}
}

func TestQueueNextBlocksUntilContextDone(t *testing.T) {
	q := NewQueue()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Next(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Next() error = %v, expected deadline exceeded", err)
	}
}

func TestQueueClose(t *testing.T) {
	q := NewQueue()
	q.Push(CloseRequested{})
	q.Close()
	q.Push(RedrawRequested{}) // ignored after close

	ctx := context.Background()
	if ev, err := q.Next(ctx); err != nil || ev != (CloseRequested{}) {
		t.Fatalf("Next() = %v, %v; expected queued close event", ev, err)
	}
	if _, err := q.Next(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("Next() error = %v, expected ErrClosed", err)
	}
}

func TestQueueRedrawCoalesces(t *testing.T) {
	q := NewQueue()
	q.RequestRedraw()
	q.RequestRedraw()
	q.RequestRedraw()

	if q.Len() != 1 {
		t.Fatalf("Len() = %d, expected 1 outstanding redraw", q.Len())
	}

	ctx := context.Background()
	if _, err := q.Next(ctx); err != nil {
		t.Fatalf("Next() failed: %v", err)
	}

	// Delivered; a new request is accepted again.
	q.RequestRedraw()
	if q.Len() != 1 {
		t.Errorf("Len() = %d after second request, expected 1", q.Len())
	}
}

func TestQueueRedrawHook(t *testing.T) {
	q := NewQueue()
	calls := 0
	q.OnRedraw(func() { calls++ })

	if q.Redraw() {
		t.Error("Redraw() without a request should not queue an event")
	}

	q.RequestRedraw()
	q.RequestRedraw()
	if calls != 1 {
		t.Errorf("hook calls = %d, expected 1", calls)
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d, expected hook to defer the event", q.Len())
	}

	if !q.Redraw() {
		t.Fatal("Redraw() should queue the requested event")
	}
	if q.Redraw() {
		t.Error("second Redraw() should not queue another frame")
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d, expected 1", q.Len())
	}
}
