package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/docsync/internal/logfields"
	"git.home.luguber.info/inful/docsync/internal/observability"
	"git.home.luguber.info/inful/docsync/internal/util/sets"
)

// Triggers recorded in the log context of each run.
const (
	TriggerFilesystem = "fsnotify"
	TriggerPoll       = "poll"
)

const defaultDebounce = 300 * time.Millisecond

// RunFunc performs one sync run.
type RunFunc func(ctx context.Context) error

// Options configures a Watcher.
type Options struct {
	// Dirs are the source directories to watch. A directory missing at
	// startup is picked up when it is created in its (existing) parent.
	Dirs []string
	// Ignore lists base names whose events never trigger a run.
	Ignore []string
	// Debounce is the quiet window after the last event before a run starts.
	Debounce time.Duration
	// PollInterval enables an additional periodic run when > 0.
	PollInterval time.Duration
}

// Watcher coalesces source changes into serialized pipeline runs.
type Watcher struct {
	run  RunFunc
	opts Options

	fsw       *fsnotify.Watcher
	scheduler gocron.Scheduler
	polls     chan struct{}

	// Owned by the Run goroutine.
	sources sets.Set[string]
	missing sets.Set[string]

	readyOnce sync.Once
	ready     chan struct{}
	mu        sync.Mutex
	runs      int
}

// New creates a watcher. Nothing is watched until Run is called.
func New(run RunFunc, opts Options) (*Watcher, error) {
	if run == nil {
		return nil, errors.New("run function is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	return &Watcher{
		run:     run,
		opts:    opts,
		polls:   make(chan struct{}, 1),
		ready:   make(chan struct{}),
		sources: sets.New[string](),
		missing: sets.New[string](),
	}, nil
}

// Ready is closed once Run watches every directory and the poll job is scheduled.
func (w *Watcher) Ready() <-chan struct{} { return w.ready }

// Runs reports how many runs have completed, failed runs included.
func (w *Watcher) Runs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runs
}

// Run blocks until ctx is cancelled. A failing run is logged and does not
// stop the watcher; only setup errors are returned.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	w.fsw = fsw
	defer func() {
		if err := fsw.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	if err := w.addDirs(); err != nil {
		return err
	}

	if w.opts.PollInterval > 0 {
		if err := w.startScheduler(); err != nil {
			return err
		}
		defer func() {
			if err := w.scheduler.Shutdown(); err != nil {
				slog.Error("Error stopping scheduler", logfields.Error(err))
			}
		}()
	}

	w.readyOnce.Do(func() { close(w.ready) })
	return w.loop(ctx)
}

func (w *Watcher) addDirs() error {
	parents := sets.New[string]()
	for _, dir := range w.opts.Dirs {
		dir = filepath.Clean(dir)
		info, err := os.Stat(dir)
		if errors.Is(err, fs.ErrNotExist) {
			parent := filepath.Dir(dir)
			if _, err := os.Stat(parent); err != nil {
				slog.Warn("Source directory and its parent missing, not watching", logfields.Path(dir))
				continue
			}
			if !parents.Has(parent) {
				if err := w.fsw.Add(parent); err != nil {
					return fmt.Errorf("failed to watch directory %s: %w", parent, err)
				}
				parents.Add(parent)
			}
			w.missing.Add(dir)
			slog.Warn("Source directory missing, waiting for it to be created", logfields.Path(dir))
			continue
		}
		if err != nil {
			return fmt.Errorf("stat %s: %w", dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("watch %s: not a directory", dir)
		}
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		w.sources.Add(dir)
		slog.Info("Watching source directory", logfields.Path(dir))
	}
	return nil
}

func (w *Watcher) startScheduler() error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(w.opts.PollInterval),
		gocron.NewTask(w.requestPoll),
		gocron.WithName("docsync-poll"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return fmt.Errorf("failed to create poll job: %w", err)
	}
	w.scheduler = s
	s.Start()
	slog.Info("Polling for changes", slog.Duration("interval", w.opts.PollInterval))
	return nil
}

// requestPoll is called by gocron; a pending poll absorbs further ticks.
func (w *Watcher) requestPoll() {
	select {
	case w.polls <- struct{}{}:
	default:
	}
}

func (w *Watcher) loop(ctx context.Context) error {
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()
	var quietC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			slog.Debug("Source change detected", logfields.File(event.Name), slog.String("op", event.Op.String()))
			timer.Reset(w.opts.Debounce)
			quietC = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Error("File watcher error", logfields.Error(err))

		case <-quietC:
			quietC = nil
			w.runOnce(ctx, TriggerFilesystem)

		case <-w.polls:
			w.runOnce(ctx, TriggerPoll)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if w.missing.Has(event.Name) {
		return w.adopt(event)
	}
	if !w.sources.Has(filepath.Dir(event.Name)) {
		// Sibling of a missing source in a watched parent.
		return false
	}
	if event.Op == fsnotify.Chmod {
		return false
	}
	return !slices.Contains(w.opts.Ignore, filepath.Base(event.Name))
}

// adopt starts watching a source directory that appeared after startup.
func (w *Watcher) adopt(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) {
		return false
	}
	if info, err := os.Stat(event.Name); err != nil || !info.IsDir() {
		return false
	}
	if err := w.fsw.Add(event.Name); err != nil {
		slog.Error("Failed to watch new source directory", logfields.Path(event.Name), logfields.Error(err))
		return false
	}
	w.missing.Delete(event.Name)
	w.sources.Add(event.Name)
	slog.Info("Source directory created, watching it", logfields.Path(event.Name))
	return true
}

func (w *Watcher) runOnce(ctx context.Context, trigger string) {
	ctx = observability.WithTrigger(ctx, trigger)
	if err := w.run(ctx); err != nil {
		observability.ErrorContext(ctx, "Sync run failed", logfields.Error(err))
	}
	w.mu.Lock()
	w.runs++
	w.mu.Unlock()
}
