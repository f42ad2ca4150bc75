package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleLesson = `
id: lesson_x
title: Sample
description: A sample lesson.
media: [a.png, b.mp4]
elements:
  - kind: quiz
    label: Q1
    criteria:
      score: 80
  - kind: reading
    label: R1
    position: {x: 1, y: 2}
    criteria:
      flag: read
`

func TestParseYAML(t *testing.T) {
	c, err := ParseYAML([]byte(sampleLesson))
	if err != nil {
		t.Fatalf("ParseYAML() failed: %v", err)
	}

	if c.ID != "lesson_x" || c.Title != "Sample" {
		t.Errorf("ParseYAML() id/title = %q/%q", c.ID, c.Title)
	}
	if len(c.Media) != 2 || c.Media[1] != "b.mp4" {
		t.Errorf("Media = %v, expected [a.png b.mp4]", c.Media)
	}
	if len(c.Elements) != 2 {
		t.Fatalf("Elements = %d, expected 2", len(c.Elements))
	}
	if c.Elements[0].Criteria != (ScoreThreshold{Threshold: 80}) {
		t.Errorf("element 0 criteria = %v, expected score>=80", c.Elements[0].Criteria)
	}
	if c.Elements[1].Position != (Position{X: 1, Y: 2}) {
		t.Errorf("element 1 position = %v", c.Elements[1].Position)
	}
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown kind", "id: a\ntitle: A\nelements:\n  - kind: dance\n    criteria: {flag: x}\n"},
		{"no criteria", "id: a\ntitle: A\nelements:\n  - kind: quiz\n"},
		{"two criteria", "id: a\ntitle: A\nelements:\n  - kind: quiz\n    criteria: {score: 1, flag: x}\n"},
		{"bad yaml", "id: [unterminated"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseYAML([]byte(tc.data)); err == nil {
				t.Error("ParseYAML() should fail")
			}
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b.yaml":        "id: b\ntitle: B\nelements: []\n",
		"nested/a.yml":  "id: a\ntitle: A\nelements: []\n",
		"notes.txt":     "ignored",
		"nested/c.yaml": "id: c\ntitle: C\nelements: []\n",
	}
	for name, data := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	lessons, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() failed: %v", err)
	}
	if len(lessons) != 3 {
		t.Fatalf("LoadDir() returned %d lessons, expected 3", len(lessons))
	}
	for i, id := range []string{"a", "b", "c"} {
		if lessons[i].ID != id {
			t.Errorf("lessons[%d].ID = %q, expected %q", i, lessons[i].ID, id)
		}
	}
}

func TestLoadDirInvalidFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("id: [oops"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDir(dir); err == nil {
		t.Error("LoadDir() should fail on an invalid lesson file")
	}
}

func TestLoadEmbedded(t *testing.T) {
	lessons, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded() failed: %v", err)
	}
	if len(lessons) < 2 {
		t.Fatalf("LoadEmbedded() returned %d lessons, expected at least 2", len(lessons))
	}

	s := NewStore()
	if err := RegisterAll(s, lessons); err != nil {
		t.Fatalf("embedded lessons should register cleanly: %v", err)
	}
	if !s.Has("lesson_1") {
		t.Error("embedded set should contain lesson_1")
	}
}

func TestFind(t *testing.T) {
	c, err := Find(context.Background(), "", "lesson_2")
	if err != nil {
		t.Fatalf("Find() failed: %v", err)
	}
	if c.Title != "Building a Shelter" {
		t.Errorf("Find() title = %q", c.Title)
	}

	if _, err := Find(context.Background(), "", "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Find(nope) error = %v, expected ErrNotFound", err)
	}
}

func TestFindInDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, data string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0o600); err != nil {
			t.Fatalf("WriteFile() failed: %v", err)
		}
	}
	write("good.yaml", "id: good\ntitle: Good\nelements:\n  - kind: reading\n    criteria:\n      flag: read\n")
	write("broken.yaml", "id: broken\ntitle: [unclosed\n")

	ctx := context.Background()

	c, err := Find(ctx, dir, "good")
	if err != nil {
		t.Fatalf("Find(good) with a broken sibling failed: %v", err)
	}
	if c.Title != "Good" {
		t.Errorf("Find(good) title = %q, expected Good", c.Title)
	}

	if _, err := Find(ctx, dir, "broken"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Find(broken) error = %v, expected the parse error", err)
	}

	_, err = Find(ctx, dir, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Find(missing) error = %v, expected ErrNotFound", err)
	}
	if err != nil && !strings.Contains(err.Error(), "broken.yaml") {
		t.Errorf("Find(missing) error = %v, expected it to mention the skipped file", err)
	}
}

func TestFindCancelled(t *testing.T) {
	dir := t.TempDir()
	data := "id: good\ntitle: Good\nelements: []\n"
	if err := os.WriteFile(filepath.Join(dir, "good.yaml"), []byte(data), 0o600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Find(ctx, dir, "good"); !errors.Is(err, context.Canceled) {
		t.Errorf("Find() with a cancelled context error = %v, expected context.Canceled", err)
	}
}
