// Package scene draws lessons and turns player input into evidence.
package scene

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vovakirdan/learn-liberty/internal/content"
	"github.com/vovakirdan/learn-liberty/internal/render"
	"github.com/vovakirdan/learn-liberty/internal/state"
)

// Layout constants
const (
	listTop      = 4  // First row of the element or lesson list
	barWidth     = 30 // Progress bar width in cells
	minViewW     = 24 // Below this the view only shows a notice
	minViewH     = 10
	markDone     = "[x]"
	markOpen     = "[ ]"
	cursorPrefix = "> "
)

// Frame is everything the view shows for one tick.
type Frame struct {
	Snapshot  state.Snapshot
	Lesson    *content.Content   // Nil on the lesson menu
	Lessons   []*content.Content // Menu entries
	Completed map[int]bool
	Selected  int
	Loading   string
	Status    string
}

// LessonView draws the active lesson, or the lesson menu when none is active.
type LessonView struct {
	frame  Frame
	source func() Frame
	rows   map[int]int // Screen row to list index, from the last draw
}

// NewLessonView creates an empty view.
func NewLessonView() *LessonView {
	return &LessonView{rows: make(map[int]int)}
}

// Update replaces the frame drawn on the next Draw.
func (v *LessonView) Update(f Frame) {
	v.frame = f
}

// Bind makes Draw pull a fresh frame from fn.
func (v *LessonView) Bind(fn func() Frame) {
	v.source = fn
}

// Frame returns the current frame.
func (v *LessonView) Frame() Frame {
	return v.frame
}

// ItemAt returns the list index drawn on screen row y.
func (v *LessonView) ItemAt(y int) (int, bool) {
	i, ok := v.rows[y]
	return i, ok
}

// Draw implements render.Drawable.
func (v *LessonView) Draw(t *render.Target) {
	clear(v.rows)
	if v.source != nil {
		v.frame = v.source()
	}
	w, h := t.Width(), t.Height()
	if w < minViewW || h < minViewH {
		t.DrawText(0, 0, "Window too small", render.ColorYellow)
		return
	}

	t.DrawBox(0, 0, w, h, render.ColorGray)

	f := v.frame
	if f.Lesson == nil {
		v.drawMenu(t)
	} else {
		v.drawLesson(t)
	}

	// Status line
	status := f.Status
	if f.Loading != "" {
		status = "Loading " + f.Loading + "..."
	}
	t.DrawText(2, h-2, clip(status, w-4), render.ColorYellow)
	clock := fmt.Sprintf(" frame %d  %.1fs ", f.Snapshot.FrameCount, f.Snapshot.ElapsedTime)
	if len(clock)+2 < w {
		t.DrawText(w-len(clock)-1, 0, clock, render.ColorGray)
	}
}

func (v *LessonView) drawMenu(t *render.Target) {
	w, h := t.Width(), t.Height()
	f := v.frame

	t.DrawTextCentered(1, "Learn Liberty", render.ColorCyan)
	t.DrawText(2, 2, clip("Choose a lesson and press enter", w-4), render.ColorGray)

	if len(f.Lessons) == 0 {
		t.DrawText(2, listTop, "No lessons available", render.ColorRed)
		return
	}
	for i, c := range f.Lessons {
		y := listTop + i
		if y >= h-3 {
			break
		}
		line := fmt.Sprintf("%s (%d elements)", c.Title, len(c.Elements))
		v.drawItem(t, y, i, i == f.Selected, line, render.ColorWhite)
	}
}

func (v *LessonView) drawLesson(t *render.Target) {
	w, h := t.Width(), t.Height()
	f := v.frame
	c := f.Lesson

	t.DrawTextCentered(1, clip(c.Title, w-4), render.ColorCyan)
	t.DrawText(2, 2, clip(c.Description, w-4), render.ColorGray)

	for i, el := range c.Elements {
		y := listTop + i
		if y >= h-5 {
			break
		}
		mark, color := markOpen, render.ColorWhite
		if f.Completed[i] {
			mark, color = markDone, render.ColorGreen
		}
		label := el.Label
		if label == "" {
			label = el.Kind.String()
		}
		line := fmt.Sprintf("%s %-10s %s  (%s)", mark, el.Kind, label, el.Criteria)
		v.drawItem(t, y, i, i == f.Selected, line, color)
	}

	// Progress bar
	y := h - 4
	filled := int(f.Snapshot.LessonProgress*barWidth + 0.5)
	bar := "[" + strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled) + "]"
	line := fmt.Sprintf("Progress %s %3.0f%%", bar, f.Snapshot.LessonProgress*100)
	color := render.ColorBlue
	if f.Snapshot.LessonProgress >= 1 {
		color = render.ColorGreen
	}
	t.DrawText(2, y, clip(line, w-4), color)

	if meta := metadataLine(c.Metadata); meta != "" {
		t.DrawText(2, h-3, clip(meta, w-4), render.ColorGray)
	}
}

// metadataLine formats lesson metadata as "key: value" pairs sorted by key.
func metadataLine(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + m[k]
	}
	return strings.Join(parts, "  ")
}

func (v *LessonView) drawItem(t *render.Target, y, index int, selected bool, line string, color render.Color) {
	prefix := "  "
	if selected {
		prefix = cursorPrefix
		color = render.ColorMagenta
	}
	t.DrawText(2, y, clip(prefix+line, t.Width()-4), color)
	v.rows[y] = index
}

// clip flattens s to one line and truncates it to n runes.
func clip(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(s, "\n", " "))
	if len(r) <= n {
		return string(r)
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
