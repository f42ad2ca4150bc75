package content

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrEmptyTitle is returned when registering content without a title.
	ErrEmptyTitle = errors.New("content: empty title")

	// ErrEmptyID is returned when registering content without an id.
	ErrEmptyID = errors.New("content: empty id")

	// ErrNotFound is returned for lookups of unregistered ids.
	ErrNotFound = errors.New("content: not found")
)

// Store holds registered lessons. Reads are safe while a background loader registers.
type Store struct {
	mu    sync.RWMutex
	byID  map[string]*Content
	order []string // Insertion order of ids
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		byID: make(map[string]*Content),
	}
}

// Register validates and inserts content, replacing any entry with the same id.
// A replaced entry keeps its original position. On error the store is unchanged.
func (s *Store) Register(c Content) error {
	if c.Title == "" {
		return fmt.Errorf("register %q: %w", c.ID, ErrEmptyTitle)
	}
	if c.ID == "" {
		return fmt.Errorf("register %q: %w", c.Title, ErrEmptyID)
	}
	for i, el := range c.Elements {
		if err := checkElement(el); err != nil {
			return fmt.Errorf("register %q element %d: %w", c.ID, i, err)
		}
	}

	stored := clone(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[c.ID]; !exists {
		s.order = append(s.order, c.ID)
	}
	s.byID[c.ID] = stored
	return nil
}

// Get returns the content registered under id.
// The returned value must be treated as read-only.
func (s *Store) Get(id string) (*Content, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[id]
	return c, ok
}

// Has reports whether id is registered.
func (s *Store) Has(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// List returns all content in insertion order.
func (s *Store) List() []*Content {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Content, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.byID[id])
	}
	return result
}

// Len returns the number of registered lessons.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Next returns the id registered after id, or the first id when id is empty or last.
func (s *Store) Next(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.order) == 0 {
		return "", false
	}
	for i, cur := range s.order {
		if cur == id && i+1 < len(s.order) {
			return s.order[i+1], true
		}
	}
	return s.order[0], true
}

// Evaluate judges one element of a registered lesson.
func (s *Store) Evaluate(el Element, ev Evidence) (bool, error) {
	return Evaluate(el, ev)
}

// Progress returns the fraction of a lesson's elements marked complete.
// A lesson without elements has progress 0.
func (s *Store) Progress(id string, completed map[int]bool) (float64, error) {
	c, ok := s.Get(id)
	if !ok {
		return 0, fmt.Errorf("progress %q: %w", id, ErrNotFound)
	}
	if len(c.Elements) == 0 {
		return 0, nil
	}

	done := 0
	for i := range c.Elements {
		if completed[i] {
			done++
		}
	}
	return float64(done) / float64(len(c.Elements)), nil
}

// clone copies the slices and maps of c so the caller cannot mutate the stored entry.
func clone(c Content) *Content {
	out := c
	out.Media = append([]string(nil), c.Media...)
	out.Elements = append([]Element(nil), c.Elements...)
	if c.Metadata != nil {
		out.Metadata = make(map[string]string, len(c.Metadata))
		for k, v := range c.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}
