package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	derrors "git.home.luguber.info/inful/docsync/internal/errors"
	"git.home.luguber.info/inful/docsync/internal/observability"
	"git.home.luguber.info/inful/docsync/internal/pipeline"
	"git.home.luguber.info/inful/docsync/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Debounce     time.Duration `help:"Quiet period after the last change before syncing (overrides config)"`
	PollInterval time.Duration `name:"poll-interval" help:"Also sync on this interval, for filesystems without change events"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if w.Debounce > 0 {
		cfg.Watch.Debounce = w.Debounce
	}
	if w.PollInterval > 0 {
		cfg.Watch.PollInterval = w.PollInterval
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	recorder, flush := newRecorder(cfg)
	p := pipeline.New(cfg, pipeline.WithRecorder(recorder))
	run := func(ctx context.Context) error {
		defer flush()
		_, err := p.Run(ctx)
		return err
	}

	// A broken initial state is reported the same way as for 'sync'.
	if err := run(observability.WithTrigger(ctx, "cli")); err != nil {
		return err
	}

	dirs := make([]string, 0, len(cfg.Mappings))
	for _, m := range cfg.Mappings {
		dirs = append(dirs, cfg.SourcePath(m))
	}
	watcher, err := watch.New(run, watch.Options{
		Dirs:         dirs,
		Ignore:       cfg.Ignore,
		Debounce:     cfg.Watch.Debounce,
		PollInterval: cfg.Watch.PollInterval,
	})
	if err != nil {
		return derrors.WatchFailed(err)
	}

	slog.Info("Watching for changes, press Ctrl+C to stop")
	if err := watcher.Run(ctx); err != nil {
		return derrors.WatchFailed(err)
	}
	slog.Info("Watch stopped")
	return nil
}
