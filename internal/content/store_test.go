package content

import (
	"errors"
	"testing"
)

func quizLesson(id string, threshold float64) Content {
	return Content{
		ID:    id,
		Title: "Lesson " + id,
		Elements: []Element{
			{Kind: KindQuiz, Label: "quiz", Criteria: ScoreThreshold{Threshold: threshold}},
		},
	}
}

func TestRegisterEmptyTitle(t *testing.T) {
	s := NewStore()
	err := s.Register(Content{ID: "lesson_1", Title: ""})
	if !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("Register() error = %v, expected ErrEmptyTitle", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, expected store unchanged", s.Len())
	}
	if s.Has("lesson_1") {
		t.Error("rejected content should not be registered")
	}
}

func TestRegisterRejectsBadElements(t *testing.T) {
	tests := []struct {
		name     string
		el       Element
		expected error
	}{
		{"no criteria", Element{Kind: KindQuiz}, ErrNoCriteria},
		{"video with score", Element{Kind: KindVideo, Criteria: ScoreThreshold{Threshold: 1}}, ErrCriteriaMismatch},
		{"reading with score", Element{Kind: KindReading, Criteria: ScoreThreshold{Threshold: 1}}, ErrCriteriaMismatch},
		{"quiz with time", Element{Kind: KindQuiz, Criteria: TimeSpent{Seconds: 1}}, ErrCriteriaMismatch},
		{"unknown kind", Element{Kind: 99, Criteria: Flag{Name: "x"}}, ErrCriteriaMismatch},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewStore()
			err := s.Register(Content{ID: "l", Title: "L", Elements: []Element{tc.el}})
			if !errors.Is(err, tc.expected) {
				t.Errorf("Register() error = %v, expected %v", err, tc.expected)
			}
			if s.Len() != 0 {
				t.Errorf("Len() = %d, expected 0", s.Len())
			}
		})
	}
}

func TestRegisterReplaceKeepsOrder(t *testing.T) {
	s := NewStore()
	for _, id := range []string{"a", "b", "c"} {
		if err := s.Register(quizLesson(id, 50)); err != nil {
			t.Fatalf("Register(%s) failed: %v", id, err)
		}
	}

	replacement := quizLesson("b", 90)
	replacement.Title = "Replaced"
	if err := s.Register(replacement); err != nil {
		t.Fatalf("Register(replacement) failed: %v", err)
	}

	list := s.List()
	if len(list) != 3 {
		t.Fatalf("List() returned %d entries, expected 3", len(list))
	}
	order := []string{list[0].ID, list[1].ID, list[2].ID}
	if order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Errorf("List() order = %v, expected [a b c]", order)
	}
	if list[1].Title != "Replaced" {
		t.Errorf("replaced title = %q, expected %q", list[1].Title, "Replaced")
	}
}

func TestRegisterCopiesInput(t *testing.T) {
	s := NewStore()
	c := quizLesson("a", 50)
	c.Media = []string{"one.png"}
	if err := s.Register(c); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	c.Media[0] = "changed.png"
	c.Elements[0].Label = "changed"

	got, _ := s.Get("a")
	if got.Media[0] != "one.png" || got.Elements[0].Label != "quiz" {
		t.Error("stored content was mutated through the caller's slices")
	}
}

func TestGet(t *testing.T) {
	s := NewStore()
	if _, ok := s.Get("missing"); ok {
		t.Error("Get() on empty store should report missing")
	}
	if err := s.Register(quizLesson("lesson_1", 80)); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	c, ok := s.Get("lesson_1")
	if !ok || c.ID != "lesson_1" {
		t.Errorf("Get() = %v, %v; expected lesson_1", c, ok)
	}
}

func TestNext(t *testing.T) {
	s := NewStore()
	if _, ok := s.Next(""); ok {
		t.Error("Next() on empty store should fail")
	}
	for _, id := range []string{"a", "b"} {
		if err := s.Register(quizLesson(id, 10)); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct{ from, expected string }{
		{"", "a"},
		{"a", "b"},
		{"b", "a"},
		{"zzz", "a"},
	}
	for _, tc := range tests {
		if got, _ := s.Next(tc.from); got != tc.expected {
			t.Errorf("Next(%q) = %q, expected %q", tc.from, got, tc.expected)
		}
	}
}

func TestProgress(t *testing.T) {
	s := NewStore()
	c := Content{
		ID:    "l",
		Title: "L",
		Elements: []Element{
			{Kind: KindReading, Criteria: Flag{Name: "read"}},
			{Kind: KindVideo, Criteria: TimeSpent{Seconds: 5}},
			{Kind: KindQuiz, Criteria: ScoreThreshold{Threshold: 80}},
			{Kind: KindSimulation, Criteria: Interactions{Required: 2}},
		},
	}
	if err := s.Register(c); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	got, err := s.Progress("l", map[int]bool{0: true, 2: true})
	if err != nil {
		t.Fatalf("Progress() failed: %v", err)
	}
	if got != 0.5 {
		t.Errorf("Progress() = %v, expected 0.5", got)
	}

	if _, err := s.Progress("missing", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("Progress(missing) error = %v, expected ErrNotFound", err)
	}
}
