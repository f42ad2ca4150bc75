package content

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yaml
var defaultLessons embed.FS

// yamlLesson is the on-disk layout of a lesson file.
type yamlLesson struct {
	ID          string            `yaml:"id"`
	Title       string            `yaml:"title"`
	Description string            `yaml:"description"`
	Media       []string          `yaml:"media,omitempty"`
	Elements    []yamlElement     `yaml:"elements"`
	Metadata    map[string]string `yaml:"metadata,omitempty"`
}

type yamlElement struct {
	Kind     string       `yaml:"kind"`
	Label    string       `yaml:"label"`
	Data     string       `yaml:"data,omitempty"`
	Position yamlPosition `yaml:"position,omitempty"`
	Criteria yamlCriteria `yaml:"criteria"`
}

type yamlPosition struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// yamlCriteria sets exactly one field.
type yamlCriteria struct {
	Score        *float64 `yaml:"score,omitempty"`
	Flag         *string  `yaml:"flag,omitempty"`
	Interactions *int     `yaml:"interactions,omitempty"`
	Time         *float64 `yaml:"time,omitempty"`
}

func (y yamlCriteria) toCriteria() (Criteria, error) {
	var found []Criteria
	if y.Score != nil {
		found = append(found, ScoreThreshold{Threshold: *y.Score})
	}
	if y.Flag != nil {
		found = append(found, Flag{Name: *y.Flag})
	}
	if y.Interactions != nil {
		found = append(found, Interactions{Required: *y.Interactions})
	}
	if y.Time != nil {
		found = append(found, TimeSpent{Seconds: *y.Time})
	}

	switch len(found) {
	case 0:
		return nil, ErrNoCriteria
	case 1:
		return found[0], nil
	default:
		return nil, errors.New("content: criteria must set exactly one rule")
	}
}

// ParseYAML parses a single lesson file. It does not validate titles; Register does.
func ParseYAML(data []byte) (Content, error) {
	var yl yamlLesson
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Content{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	c := Content{
		ID:          yl.ID,
		Title:       yl.Title,
		Description: strings.TrimSpace(yl.Description),
		Media:       yl.Media,
		Metadata:    yl.Metadata,
		Elements:    make([]Element, 0, len(yl.Elements)),
	}

	for i, ye := range yl.Elements {
		kind, ok := ParseKind(ye.Kind)
		if !ok {
			return Content{}, fmt.Errorf("element %d: unknown kind %q", i, ye.Kind)
		}
		crit, err := ye.Criteria.toCriteria()
		if err != nil {
			return Content{}, fmt.Errorf("element %d: %w", i, err)
		}
		c.Elements = append(c.Elements, Element{
			Kind:     kind,
			Label:    ye.Label,
			Data:     ye.Data,
			Position: Position{X: ye.Position.X, Y: ye.Position.Y},
			Criteria: crit,
		})
	}

	return c, nil
}

// LoadFile reads and parses one lesson file.
func LoadFile(path string) (Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Content{}, fmt.Errorf("reading file %s: %w", path, err)
	}
	c, err := ParseYAML(data)
	if err != nil {
		return Content{}, fmt.Errorf("parsing file %s: %w", path, err)
	}
	return c, nil
}

// LoadDir recursively loads every lesson file under root, parsing files concurrently.
// Returns lessons sorted by id for deterministic ordering. Any invalid file fails the load.
func LoadDir(root string) ([]Content, error) {
	paths, err := lessonFiles(root)
	if err != nil {
		return nil, err
	}

	lessons := make([]Content, len(paths))
	var g errgroup.Group
	g.SetLimit(4)
	for i, path := range paths {
		g.Go(func() error {
			c, err := LoadFile(path)
			if err != nil {
				return err
			}
			lessons[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortByID(lessons)
	return lessons, nil
}

// LoadEmbedded parses the sample lessons bundled with the binary.
func LoadEmbedded() ([]Content, error) {
	entries, err := defaultLessons.ReadDir("defaults")
	if err != nil {
		return nil, fmt.Errorf("reading embedded lessons: %w", err)
	}

	lessons := make([]Content, 0, len(entries))
	for _, e := range entries {
		data, err := defaultLessons.ReadFile("defaults/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("reading embedded %s: %w", e.Name(), err)
		}
		c, err := ParseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("parsing embedded %s: %w", e.Name(), err)
		}
		lessons = append(lessons, c)
	}

	sortByID(lessons)
	return lessons, nil
}

// Find loads the lesson with the given id from dir, or from the embedded set when dir
// is empty. Files that fail to parse are skipped unless they are named after id, so
// one broken file does not hide the other lessons. The search stops as soon as id is
// found or ctx is done.
func Find(ctx context.Context, dir, id string) (Content, error) {
	if dir == "" {
		lessons, err := LoadEmbedded()
		if err != nil {
			return Content{}, err
		}
		for _, c := range lessons {
			if c.ID == id {
				return c, nil
			}
		}
		return Content{}, fmt.Errorf("lesson %q: %w", id, ErrNotFound)
	}

	paths, err := lessonFiles(dir)
	if err != nil {
		return Content{}, err
	}

	var (
		mu      sync.Mutex
		found   Content
		skipped []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c, err := LoadFile(path)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil && lessonName(path) == id:
				return err
			case err != nil:
				skipped = append(skipped, err)
			case c.ID == id:
				found = c
				return errFound
			}
			return nil
		})
	}

	switch err := g.Wait(); {
	case errors.Is(err, errFound):
		return found, nil
	case err != nil:
		return Content{}, err
	}
	if len(skipped) > 0 {
		return Content{}, fmt.Errorf("lesson %q: %w", id, errors.Join(append([]error{ErrNotFound}, skipped...)...))
	}
	return Content{}, fmt.Errorf("lesson %q: %w", id, ErrNotFound)
}

// errFound stops the remaining Find workers once the lesson is parsed.
var errFound = errors.New("content: lesson found")

// lessonFiles returns every lesson file under root in walk order.
func lessonFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isLessonFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", root, err)
	}
	return paths, nil
}

// lessonName returns the file name of path without its extension.
func lessonName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// RegisterAll registers lessons in order, stopping at the first failure.
func RegisterAll(s *Store, lessons []Content) error {
	for _, c := range lessons {
		if err := s.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func isLessonFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func sortByID(lessons []Content) {
	sort.Slice(lessons, func(i, j int) bool {
		return lessons[i].ID < lessons[j].ID
	})
}
