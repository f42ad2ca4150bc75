package render

import (
	"errors"
	"testing"
)

// fakeSurface records presented frames and returns scripted errors.
type fakeSurface struct {
	errs      []error // Returned in order, then nil
	presented []*Target
	calls     int
}

func (s *fakeSurface) Present(t *Target) error {
	s.calls++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return err
		}
	}
	s.presented = append(s.presented, t.Clone())
	return nil
}

func (s *fakeSurface) last() *Target {
	if len(s.presented) == 0 {
		return nil
	}
	return s.presented[len(s.presented)-1]
}

func TestRenderPresentsAtInitialSize(t *testing.T) {
	surf := &fakeSurface{}
	r := New(surf, 80, 24)

	if err := r.Render(); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	got := surf.last()
	if got.Width() != 80 || got.Height() != 24 {
		t.Errorf("presented %dx%d, expected 80x24", got.Width(), got.Height())
	}
}

func TestResizeCoalesces(t *testing.T) {
	surf := &fakeSurface{}
	r := New(surf, 100, 100)
	if err := r.Render(); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	r.Resize(800, 600)
	r.Resize(1920, 1080)
	r.Resize(640, 480)

	if err := r.Render(); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	got := surf.last()
	if got.Width() != 640 || got.Height() != 480 {
		t.Errorf("presented %dx%d, expected 640x480", got.Width(), got.Height())
	}
	if st := r.Stats(); st.Recreated != 2 {
		t.Errorf("Recreated = %d, expected 2 (initial + one coalesced resize)", st.Recreated)
	}
}

func TestResizeBeforeFirstRender(t *testing.T) {
	surf := &fakeSurface{}
	r := New(surf, 10, 10)
	r.Resize(800, 600)
	r.Resize(1920, 1080)
	r.Resize(640, 480)

	if w, h := r.Size(); w != 640 || h != 480 {
		t.Errorf("Size() = %dx%d, expected 640x480", w, h)
	}
	if err := r.Render(); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if got := surf.last(); got.Width() != 640 || got.Height() != 480 {
		t.Errorf("presented %dx%d, expected 640x480", got.Width(), got.Height())
	}
	if st := r.Stats(); st.Recreated != 1 {
		t.Errorf("Recreated = %d, expected 1", st.Recreated)
	}
}

func TestDrawOrder(t *testing.T) {
	surf := &fakeSurface{}
	r := New(surf, 5, 1)

	r.Register(DrawFunc(func(t *Target) { t.DrawText(0, 0, "aaaaa", ColorDefault) }))
	h := r.Register(DrawFunc(func(t *Target) { t.DrawText(1, 0, "bbb", ColorDefault) }))
	r.Register(DrawFunc(func(t *Target) { t.DrawText(2, 0, "c", ColorDefault) }))

	if err := r.Render(); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if got := surf.last().Row(0); got != "abcba" {
		t.Errorf("frame = %q, expected %q", got, "abcba")
	}

	r.Unregister(h)
	if err := r.Render(); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if got := surf.last().Row(0); got != "aacaa" {
		t.Errorf("frame after unregister = %q, expected %q", got, "aacaa")
	}
}

func TestRenderClearsTarget(t *testing.T) {
	surf := &fakeSurface{}
	r := New(surf, 3, 1)
	drawn := false
	r.Register(DrawFunc(func(t *Target) {
		if !drawn {
			t.DrawText(0, 0, "xyz", ColorDefault)
			drawn = true
		}
	}))

	_ = r.Render()
	_ = r.Render()
	if got := surf.last().Row(0); got != "   " {
		t.Errorf("second frame = %q, expected cleared target", got)
	}
}

func TestSurfaceLostDropsFrame(t *testing.T) {
	surf := &fakeSurface{errs: []error{ErrSurfaceLost}}
	r := New(surf, 4, 4)

	err := r.Render()
	if err == nil {
		t.Fatal("Render() should report the lost surface")
	}
	if !errors.Is(err, ErrSurfaceLost) {
		t.Errorf("Render() error = %v, expected ErrSurfaceLost", err)
	}
	if IsFatal(err) {
		t.Error("surface loss should be recoverable")
	}

	if err := r.Render(); err != nil {
		t.Fatalf("Render() after surface loss failed: %v", err)
	}
	st := r.Stats()
	if st.Dropped != 1 || st.Presented != 1 {
		t.Errorf("Stats() = %+v, expected 1 dropped and 1 presented", st)
	}
	if st.Recreated != 2 {
		t.Errorf("Recreated = %d, expected target recreated after loss", st.Recreated)
	}
	if st.Width != 4 || st.Height != 4 {
		t.Errorf("size after recreate = %dx%d, expected 4x4", st.Width, st.Height)
	}
}

func TestDeviceLostRetriesOnce(t *testing.T) {
	surf := &fakeSurface{errs: []error{ErrDeviceLost}}
	r := New(surf, 4, 4)

	if err := r.Render(); err != nil {
		t.Fatalf("Render() should recover after one retry, got %v", err)
	}
	st := r.Stats()
	if st.Retries != 1 || st.Presented != 1 {
		t.Errorf("Stats() = %+v, expected 1 retry and 1 presented", st)
	}
	if surf.calls != 2 {
		t.Errorf("Present calls = %d, expected 2", surf.calls)
	}
}

func TestDeviceLostFatalAfterRetry(t *testing.T) {
	surf := &fakeSurface{errs: []error{ErrDeviceLost, ErrDeviceLost}}
	r := New(surf, 4, 4)

	err := r.Render()
	if !IsFatal(err) {
		t.Fatalf("Render() error = %v, expected fatal", err)
	}
	if !errors.Is(err, ErrDeviceLost) {
		t.Errorf("Render() error = %v, expected ErrDeviceLost", err)
	}
	if surf.calls != 2 {
		t.Errorf("Present calls = %d, expected exactly one retry", surf.calls)
	}
}

func TestDeviceLostRetryHitsSurfaceLoss(t *testing.T) {
	surf := &fakeSurface{errs: []error{ErrDeviceLost, ErrSurfaceLost}}
	r := New(surf, 4, 4)

	err := r.Render()
	if err == nil || IsFatal(err) {
		t.Errorf("Render() error = %v, expected recoverable", err)
	}
}

func TestRelease(t *testing.T) {
	surf := &fakeSurface{}
	r := New(surf, 4, 4)
	r.Register(DrawFunc(func(*Target) {}))
	_ = r.Render()

	r.Release()
	if !r.Released() || r.Target() != nil {
		t.Error("Release() should drop the target")
	}
	err := r.Render()
	if !errors.Is(err, ErrReleased) || !IsFatal(err) {
		t.Errorf("Render() after Release = %v, expected fatal ErrReleased", err)
	}
}

func BenchmarkRender(b *testing.B) {
	r := New(&discardSurface{}, 120, 40)
	r.Register(DrawFunc(func(t *Target) {
		t.DrawBox(0, 0, t.Width(), t.Height(), ColorCyan)
		t.DrawTextCentered(t.Height()/2, "benchmark", ColorYellow)
	}))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.Render()
	}
}

type discardSurface struct{}

func (discardSurface) Present(*Target) error { return nil }
