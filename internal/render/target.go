// Package render owns the render target lifecycle: it draws registered objects into a
// cell buffer and presents the result to a platform surface.
package render

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Color is a foreground color for a target cell, as an ANSI palette slot.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorGray
)

// ANSI returns the terminal palette index for c, or "" for the terminal default.
// ColorRed through ColorWhite share their value with the ANSI index.
func (c Color) ANSI() string {
	switch {
	case c >= ColorRed && c <= ColorWhite:
		return strconv.Itoa(int(c))
	case c == ColorGray:
		return "245"
	default:
		return ""
	}
}

// Cell is one character position of the target.
type Cell struct {
	Rune  rune
	Color Color
}

var blank = Cell{Rune: ' ', Color: ColorDefault}

// Target is a width x height grid of cells that a frame is drawn into.
type Target struct {
	width  int
	height int
	cells  []Cell // Row-major
}

// NewTarget allocates a cleared target.
func NewTarget(width, height int) *Target {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	t := &Target{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
	t.Clear()
	return t
}

// Width returns the target width in cells.
func (t *Target) Width() int {
	return t.width
}

// Height returns the target height in cells.
func (t *Target) Height() int {
	return t.height
}

// Clear fills the target with blank cells.
func (t *Target) Clear() {
	for i := range t.cells {
		t.cells[i] = blank
	}
}

// Set places a rune with the default color. Out-of-bounds writes are ignored.
func (t *Target) Set(x, y int, r rune) {
	t.SetCell(x, y, Cell{Rune: r})
}

// SetCell places a cell. Out-of-bounds writes are ignored.
func (t *Target) SetCell(x, y int, c Cell) {
	if x < 0 || x >= t.width || y < 0 || y >= t.height {
		return
	}
	t.cells[y*t.width+x] = c
}

// Cell returns the cell at (x, y), or a blank cell when out of bounds.
func (t *Target) Cell(x, y int) Cell {
	if x < 0 || x >= t.width || y < 0 || y >= t.height {
		return blank
	}
	return t.cells[y*t.width+x]
}

// DrawText writes text starting at (x, y), clipped to the target.
func (t *Target) DrawText(x, y int, text string, color Color) {
	i := 0
	for _, r := range text {
		t.SetCell(x+i, y, Cell{Rune: r, Color: color})
		i++
	}
}

// DrawTextCentered writes text centered horizontally on row y.
func (t *Target) DrawTextCentered(y int, text string, color Color) {
	x := (t.width - utf8.RuneCountInString(text)) / 2
	t.DrawText(x, y, text, color)
}

// DrawHLine draws a horizontal run of r starting at (x, y).
func (t *Target) DrawHLine(x, y, length int, r rune, color Color) {
	for i := 0; i < length; i++ {
		t.SetCell(x+i, y, Cell{Rune: r, Color: color})
	}
}

// DrawBox outlines the rectangle with box-drawing characters.
func (t *Target) DrawBox(x, y, w, h int, color Color) {
	if w < 2 || h < 2 {
		return
	}
	right, bottom := x+w-1, y+h-1

	t.SetCell(x, y, Cell{'┌', color})
	t.SetCell(right, y, Cell{'┐', color})
	t.SetCell(x, bottom, Cell{'└', color})
	t.SetCell(right, bottom, Cell{'┘', color})

	t.DrawHLine(x+1, y, w-2, '─', color)
	t.DrawHLine(x+1, bottom, w-2, '─', color)
	for row := y + 1; row < bottom; row++ {
		t.SetCell(x, row, Cell{'│', color})
		t.SetCell(right, row, Cell{'│', color})
	}
}

// Row returns row y as plain text.
func (t *Target) Row(y int) string {
	if y < 0 || y >= t.height {
		return strings.Repeat(" ", t.width)
	}
	var sb strings.Builder
	for _, c := range t.cells[y*t.width : (y+1)*t.width] {
		sb.WriteRune(c.Rune)
	}
	return sb.String()
}

// Run is a horizontal span of same-colored cells.
type Run struct {
	Text  string
	Color Color
}

// Runs splits row y into maximal spans of one color, left to right.
func (t *Target) Runs(y int) []Run {
	if y < 0 || y >= t.height || t.width == 0 {
		return nil
	}
	row := t.cells[y*t.width : (y+1)*t.width]

	var (
		runs []Run
		sb   strings.Builder
	)
	start := row[0].Color
	for _, c := range row {
		if c.Color != start {
			runs = append(runs, Run{Text: sb.String(), Color: start})
			sb.Reset()
			start = c.Color
		}
		sb.WriteRune(c.Rune)
	}
	return append(runs, Run{Text: sb.String(), Color: start})
}

// String returns the target as plain text, rows joined with newlines.
func (t *Target) String() string {
	var sb strings.Builder
	sb.Grow(t.width*t.height + t.height)
	for y := 0; y < t.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		sb.WriteString(t.Row(y))
	}
	return sb.String()
}

// Clone returns an independent copy of the target.
func (t *Target) Clone() *Target {
	out := &Target{width: t.width, height: t.height, cells: make([]Cell, len(t.cells))}
	copy(out.cells, t.cells)
	return out
}
