package render

import (
	"errors"
	"fmt"
)

var (
	// ErrSurfaceLost is returned by a Surface that is temporarily unavailable.
	ErrSurfaceLost = errors.New("render: surface lost")

	// ErrDeviceLost is returned by a Surface whose device has gone away.
	ErrDeviceLost = errors.New("render: device lost")

	// ErrReleased is returned when rendering after Release.
	ErrReleased = errors.New("render: renderer released")
)

// Drawable draws itself into the target each frame.
type Drawable interface {
	Draw(t *Target)
}

// DrawFunc adapts a function to Drawable.
type DrawFunc func(t *Target)

// Draw calls f(t).
func (f DrawFunc) Draw(t *Target) { f(t) }

// Surface presents finished frames to the platform.
type Surface interface {
	Present(t *Target) error
}

// Error is a failed frame. Recoverable errors drop one frame; fatal errors end the loop.
type Error struct {
	Err   error
	fatal bool
}

func (e *Error) Error() string {
	if e.fatal {
		return fmt.Sprintf("render: fatal: %v", e.Err)
	}
	return fmt.Sprintf("render: frame dropped: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Fatal reports whether the renderer cannot continue.
func (e *Error) Fatal() bool { return e.fatal }

// IsFatal reports whether err is a fatal render error.
func IsFatal(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.fatal
}

// Handle identifies a registered drawable.
type Handle uint64

type entry struct {
	handle Handle
	d      Drawable
}

// Stats counts renderer activity.
type Stats struct {
	Presented int // Frames presented successfully
	Dropped   int // Frames skipped after a recoverable error
	Recreated int // Render targets allocated
	Retries   int // Device-loss retries attempted
	Width     int
	Height    int
}

// Renderer draws registered objects in registration order and presents them.
type Renderer struct {
	surface   Surface
	target    *Target
	drawables []entry
	nextID    Handle

	pendingW   int
	pendingH   int
	hasPending bool
	released   bool

	stats Stats
}

// New creates a renderer for a surface of the given size. The target is allocated
// lazily by the first Render.
func New(surface Surface, width, height int) *Renderer {
	return &Renderer{
		surface:    surface,
		pendingW:   width,
		pendingH:   height,
		hasPending: true,
	}
}

// Register adds a drawable after all previously registered ones.
func (r *Renderer) Register(d Drawable) Handle {
	r.nextID++
	r.drawables = append(r.drawables, entry{handle: r.nextID, d: d})
	return r.nextID
}

// Unregister removes a drawable. Unknown handles are ignored.
func (r *Renderer) Unregister(h Handle) {
	for i, e := range r.drawables {
		if e.handle == h {
			r.drawables = append(r.drawables[:i], r.drawables[i+1:]...)
			return
		}
	}
}

// Resize schedules the target to be recreated at the new size before the next Render.
// Only the most recent size is kept.
func (r *Renderer) Resize(width, height int) {
	r.pendingW = width
	r.pendingH = height
	r.hasPending = true
}

// Size returns the dimensions the next frame will use.
func (r *Renderer) Size() (int, int) {
	if r.hasPending || r.target == nil {
		return r.pendingW, r.pendingH
	}
	return r.target.Width(), r.target.Height()
}

// Render clears the target, draws every registered object and presents the frame.
// A lost surface drops the frame and recreates the target next time. A lost device is
// retried once with a fresh target; a second failure is fatal.
func (r *Renderer) Render() error {
	if r.released {
		return &Error{Err: ErrReleased, fatal: true}
	}

	err := r.frame()
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrSurfaceLost):
		r.invalidate()
		r.stats.Dropped++
		return &Error{Err: err}

	case errors.Is(err, ErrDeviceLost):
		r.invalidate()
		r.stats.Retries++
		retryErr := r.frame()
		if retryErr == nil {
			return nil
		}
		r.invalidate()
		r.stats.Dropped++
		if errors.Is(retryErr, ErrDeviceLost) {
			return &Error{Err: retryErr, fatal: true}
		}
		return &Error{Err: retryErr}

	default:
		r.stats.Dropped++
		return &Error{Err: err}
	}
}

// frame draws and presents once.
func (r *Renderer) frame() error {
	r.ensureTarget()
	r.target.Clear()
	for _, e := range r.drawables {
		e.d.Draw(r.target)
	}
	if err := r.surface.Present(r.target); err != nil {
		return err
	}
	r.stats.Presented++
	return nil
}

// ensureTarget allocates the target when missing or when a resize is pending.
func (r *Renderer) ensureTarget() {
	if r.target != nil && !r.hasPending {
		return
	}
	r.target = NewTarget(r.pendingW, r.pendingH)
	r.hasPending = false
	r.stats.Recreated++
}

// invalidate drops the target so the next frame recreates it at the current size.
func (r *Renderer) invalidate() {
	if r.target != nil && !r.hasPending {
		r.pendingW, r.pendingH = r.target.Width(), r.target.Height()
	}
	r.target = nil
	r.hasPending = true
}

// Release frees the target and drawables. The renderer cannot be used afterwards.
func (r *Renderer) Release() {
	r.released = true
	r.target = nil
	r.drawables = nil
}

// Released reports whether Release has been called.
func (r *Renderer) Released() bool {
	return r.released
}

// Target returns the most recently drawn target, or nil before the first frame.
func (r *Renderer) Target() *Target {
	return r.target
}

// Stats returns renderer counters.
func (r *Renderer) Stats() Stats {
	s := r.stats
	s.Width, s.Height = r.Size()
	return s
}
