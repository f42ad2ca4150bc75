package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/vovakirdan/learn-liberty/internal/app"
	"github.com/vovakirdan/learn-liberty/internal/clock"
	"github.com/vovakirdan/learn-liberty/internal/config"
	"github.com/vovakirdan/learn-liberty/internal/content"
	"github.com/vovakirdan/learn-liberty/internal/platform/tui"
	"github.com/vovakirdan/learn-liberty/internal/render"
	"github.com/vovakirdan/learn-liberty/internal/scene"
	"github.com/vovakirdan/learn-liberty/internal/state"
	"github.com/vovakirdan/learn-liberty/internal/storage"
	"github.com/vovakirdan/learn-liberty/internal/window"
)

var (
	flagLesson string
	flagResume bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the app",
	Long: `Start the app in the terminal.

Controls:
  Up/Down, k/j   - Select a lesson or element
  Enter/Space    - Start a lesson, or interact with the selected element
  0-9            - Answer the selected quiz (0 scores 100)
  n              - Next lesson
  l/Esc          - Leave the lesson
  Ctrl+S         - Save a screenshot to ~/.liberty/screenshots
  ?              - Toggle help
  Q/Ctrl+C       - Quit

Examples:
  liberty run
  liberty run --lesson lesson_2
  liberty run --resume
  liberty run --config ./my-liberty.yaml`,
	Run: runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagLesson, "lesson", "", "Lesson to open at startup")
	runCmd.Flags().BoolVar(&flagResume, "resume", false, "Reopen the most recently started lesson")
}

func runRun(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()

	logger, closeLog, err := openLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	logger.Info("starting", "config", cfg.Source, "fps", cfg.FPS, "max_delta", cfg.MaxDelta)

	lessons, err := loadLessons(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	st := state.New()

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open database", "path", cfg.DBPath, "error", err)
		// Continue without storage - lessons still work
		store = nil
	}
	if store != nil {
		defer store.Close()
		if prefs, prefErr := store.LoadPreferences(); prefErr == nil {
			st.LoadPreferences(prefs)
		} else {
			logger.Warn("could not load preferences", "error", prefErr)
		}
	}

	// Size the first frame; Bubble Tea reports resizes afterwards
	width, height := terminalSize(int(os.Stdout.Fd()), cfg.Window)
	frameW, frameH := tui.FrameSize(width, height, 1)

	host := tui.NewHost(tui.HostConfig{Window: cfg.Window, FPS: cfg.FPS, Logger: logger})
	renderer := render.New(host, frameW, frameH)

	view := scene.NewLessonView()
	renderer.Register(view)

	ctl := scene.NewController(lessons, view)
	ctl.StartWith(startLesson(cfg, st))

	session := storage.NewSessionID()
	ctl.OnComplete(func(id string, snap state.Snapshot) {
		if store == nil {
			return
		}
		_, saveErr := store.SaveCompletion(storage.Completion{
			SessionID: session,
			LessonID:  id,
			Elapsed:   snap.ElapsedTime,
			Frames:    int64(snap.FrameCount),
		})
		if saveErr != nil {
			logger.Error("could not record completion", "lesson", id, "error", saveErr)
		}
	})

	loop, err := app.New(app.Options{
		Source:   host,
		Clock:    clock.New(clock.SystemTime{}, cfg.MaxDelta),
		State:    st,
		Store:    lessons,
		Renderer: renderer,
		Logger:   logger,
		Load:     lessonLoader(cfg.ContentDir, lessons),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	loop.Register(ctl)

	// The loop owns the state; the terminal program runs beside it.
	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		defer host.Quit()
		return loop.Run(ctx)
	})
	g.Go(host.Run)
	runErr := g.Wait()

	stats := loop.Stats()
	logger.Info("stopped",
		"session", session,
		"ticks", stats.Ticks,
		"dropped", stats.Dropped,
		"discarded", stats.Discarded,
	)

	if store != nil {
		if err := store.SavePreferences(st.Preferences()); err != nil {
			logger.Error("could not save preferences", "error", err)
		}
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", runErr)
		os.Exit(1)
	}
}

// terminalSize returns the size of the terminal on fd, or the configured window size
// when fd is not a terminal.
func terminalSize(fd int, win window.Config) (int, int) {
	if w, h, err := term.GetSize(fd); err == nil {
		return w, h
	}
	win = win.Normalize()
	return win.Width, win.Height
}

// startLesson picks the lesson opened at startup: the flag, then --resume, then config.
func startLesson(cfg config.Config, st *state.State) string {
	if flagLesson != "" {
		return flagLesson
	}
	if flagResume {
		if id, ok := st.Preference(scene.PrefLastLesson); ok {
			return id
		}
	}
	return cfg.StartLesson
}

// lessonLoader re-reads lessons from the content directory on every request, so an
// edited file takes effect the next time its lesson is opened. Lessons missing from
// the directory come from the store. Returns nil without a content directory.
func lessonLoader(dir string, lessons *content.Store) app.LoadFunc {
	if dir == "" {
		return nil
	}
	dir = config.ExpandHome(dir)
	return func(ctx context.Context, id string) (content.Content, error) {
		c, err := content.Find(ctx, dir, id)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, content.ErrNotFound) {
			return content.Content{}, err
		}
		if stored, ok := lessons.Get(id); ok {
			return *stored, nil
		}
		return content.Content{}, err
	}
}

// openLogger logs to the configured file so output does not corrupt the terminal UI.
func openLogger(cfg config.Config) (*log.Logger, func(), error) {
	path := config.ExpandHome(cfg.LogFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file %s: %w", path, err)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "liberty",
		Level:           cfg.Level(),
	})
	return logger, func() { f.Close() }, nil
}
