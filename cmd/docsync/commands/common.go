package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsync/internal/config"
	derrors "git.home.luguber.info/inful/docsync/internal/errors"
	"git.home.luguber.info/inful/docsync/internal/logfields"
	"git.home.luguber.info/inful/docsync/internal/metrics"
)

// Global carries state shared by all subcommands.
type Global struct {
	// Stdout receives command output; nil means os.Stdout.
	Stdout io.Writer
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docsync.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Sync  SyncCmd  `cmd:"" default:"1" help:"Mirror sources, rebuild the navigation and update mkdocs.yml"`
	Nav   NavCmd   `cmd:"" help:"Print the navigation generated from the current docs tree"`
	Watch WatchCmd `cmd:"" help:"Sync, then re-sync whenever a source directory changes"`
	Init  InitCmd  `cmd:"" help:"Write the default configuration file"`
}

// AfterApply runs after flag parsing; it installs a logger until the
// configuration is loaded and can refine it.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig loads the configuration and applies its logging settings.
// --verbose always wins over the configured level.
func loadConfig(root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		if _, ok := derrors.As(err); ok {
			return nil, err
		}
		return nil, derrors.ConfigInvalid(root.Config, err)
	}

	level := config.NormalizeLogLevel(cfg.Logging.Level).SlogLevel()
	if root.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if config.NormalizeLogFormat(cfg.Logging.Format) == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))

	slog.Debug("Configuration loaded", logfields.Path(root.Config), slog.String("root", cfg.Root))
	return cfg, nil
}

// newRecorder returns the metrics recorder for cfg and a flush function that
// exports the current values. Without a textfile both are no-ops.
func newRecorder(cfg *config.Config) (metrics.Recorder, func()) {
	path := cfg.MetricsPath()
	if path == "" {
		return metrics.NoopRecorder{}, func() {}
	}
	rec := metrics.NewPrometheusRecorder(nil)
	return rec, func() {
		if err := rec.WriteTextfile(path); err != nil {
			slog.Warn("Failed to write metrics textfile", logfields.Path(path), logfields.Error(err))
		}
	}
}
