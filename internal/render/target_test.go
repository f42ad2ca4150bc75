package render

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewTarget(t *testing.T) {
	tg := NewTarget(10, 3)
	if tg.Width() != 10 || tg.Height() != 3 {
		t.Fatalf("size = %dx%d, expected 10x3", tg.Width(), tg.Height())
	}
	for y := 0; y < 3; y++ {
		if tg.Row(y) != strings.Repeat(" ", 10) {
			t.Errorf("Row(%d) = %q, expected blanks", y, tg.Row(y))
		}
	}

	neg := NewTarget(-1, -1)
	if neg.Width() != 0 || neg.Height() != 0 {
		t.Errorf("negative size should clamp to 0x0")
	}
}

func TestTargetBounds(t *testing.T) {
	tg := NewTarget(4, 4)
	tg.Set(-1, 0, 'x')
	tg.Set(4, 0, 'x')
	tg.Set(0, 4, 'x')
	if strings.ContainsRune(tg.String(), 'x') {
		t.Error("out-of-bounds writes should be ignored")
	}
	if c := tg.Cell(10, 10); c.Rune != ' ' {
		t.Errorf("Cell(out of bounds) = %q, expected blank", c.Rune)
	}
}

func TestDrawTextCentered(t *testing.T) {
	tg := NewTarget(9, 1)
	tg.DrawTextCentered(0, "abc", ColorGreen)
	if got := tg.Row(0); got != "   abc   " {
		t.Errorf("Row(0) = %q, expected centered text", got)
	}
	if c := tg.Cell(3, 0); c.Color != ColorGreen {
		t.Errorf("Cell color = %v, expected green", c.Color)
	}
}

func TestDrawBox(t *testing.T) {
	tg := NewTarget(4, 3)
	tg.DrawBox(0, 0, 4, 3, ColorDefault)
	expected := "┌──┐\n│  │\n└──┘"
	if got := tg.String(); got != expected {
		t.Errorf("String() =\n%s\nexpected\n%s", got, expected)
	}
}

func TestWritePNG(t *testing.T) {
	tg := NewTarget(5, 2)
	tg.DrawText(0, 0, "hello", ColorYellow)

	var buf bytes.Buffer
	if err := WritePNG(&buf, tg); err != nil {
		t.Fatalf("WritePNG() failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 35 || b.Dy() != 26 {
		t.Errorf("image size = %dx%d, expected 35x26", b.Dx(), b.Dy())
	}
}

func TestSaveSnapshot(t *testing.T) {
	dir := t.TempDir()
	tg := NewTarget(3, 1)
	tg.DrawText(0, 0, "hey", ColorDefault)

	path, err := SaveSnapshot(dir, "shot", tg)
	if err != nil {
		t.Fatalf("SaveSnapshot() failed: %v", err)
	}
	if filepath.Base(path) != "shot.png" {
		t.Errorf("path = %s, expected shot.png", path)
	}
	data, err := os.ReadFile(filepath.Join(dir, "shot.txt"))
	if err != nil {
		t.Fatalf("reading text snapshot: %v", err)
	}
	if string(data) != "hey\n" {
		t.Errorf("text snapshot = %q, expected %q", data, "hey\n")
	}

	if _, err := SaveSnapshot(dir, "none", nil); err == nil {
		t.Error("SaveSnapshot(nil) should fail")
	}
}

func TestTargetRuns(t *testing.T) {
	tg := NewTarget(6, 2)
	tg.DrawText(0, 0, "ab", ColorRed)
	tg.DrawText(2, 0, "cd", ColorGreen)

	tests := []struct {
		name     string
		y        int
		expected []Run
	}{
		{"mixed", 0, []Run{{"ab", ColorRed}, {"cd", ColorGreen}, {"  ", ColorDefault}}},
		{"blank", 1, []Run{{"      ", ColorDefault}}},
		{"out of range", 2, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tg.Runs(tc.y)
			if len(got) != len(tc.expected) {
				t.Fatalf("Runs(%d) = %v, expected %v", tc.y, got, tc.expected)
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("Runs(%d)[%d] = %+v, expected %+v", tc.y, i, got[i], tc.expected[i])
				}
			}
		})
	}

	if runs := NewTarget(0, 1).Runs(0); runs != nil {
		t.Errorf("Runs() on a zero-width target = %v, expected nil", runs)
	}
}

func TestColorANSI(t *testing.T) {
	tests := []struct {
		c        Color
		expected string
	}{
		{ColorDefault, ""},
		{ColorRed, "1"},
		{ColorCyan, "6"},
		{ColorWhite, "7"},
		{ColorGray, "245"},
		{Color(200), ""},
	}

	for _, tc := range tests {
		if got := tc.c.ANSI(); got != tc.expected {
			t.Errorf("Color(%d).ANSI() = %q, expected %q", tc.c, got, tc.expected)
		}
	}
}
