package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsync/internal/git"
	"git.home.luguber.info/inful/docsync/internal/mirror"
	"git.home.luguber.info/inful/docsync/internal/nav"
)

// Config represents the docsync configuration.
type Config struct {
	// Root is the repository root every other path is relative to. Empty
	// means the enclosing git worktree of the config file.
	Root       string        `yaml:"root,omitempty"`
	DocsDir    string        `yaml:"docs_dir"`
	Manifest   string        `yaml:"manifest"`
	Mode       mirror.Mode   `yaml:"mode"`
	Extensions []string      `yaml:"extensions"`
	Ignore     []string      `yaml:"ignore"`
	Home       nav.Entry     `yaml:"home"`
	Mappings   []Mapping     `yaml:"mappings"`
	Logging    LoggingConfig `yaml:"logging"`
	Metrics    MetricsConfig `yaml:"metrics"`
	Watch      WatchConfig   `yaml:"watch"`
}

// Mapping mirrors one source directory into the docs tree.
type Mapping struct {
	Source      string    `yaml:"source"`
	Destination string    `yaml:"destination"`
	Extensions  []string  `yaml:"extensions,omitempty"` // Defaults to the top-level extensions
	Nav         NavConfig `yaml:"nav"`
}

// NavConfig controls how a mapping shows up in the generated navigation.
type NavConfig struct {
	Disabled  bool        `yaml:"disabled,omitempty"`
	Label     string      `yaml:"label"`
	Order     nav.Order   `yaml:"order"`
	Priority  []nav.Entry `yaml:"priority,omitempty"`
	Guide     nav.Entry   `yaml:"guide,omitempty"`
	Prefix    string      `yaml:"prefix,omitempty"`
	Positions int         `yaml:"positions,omitempty"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// MetricsConfig holds optional metrics export settings.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"` // Prometheus textfile path, relative to root
}

// WatchConfig holds settings for the watch command.
type WatchConfig struct {
	Debounce     time.Duration `yaml:"debounce,omitempty"`
	PollInterval time.Duration `yaml:"poll_interval,omitempty"`
}

// Load loads configuration from the specified file. A missing file yields
// the defaults, so a repository laid out like the defaults needs no config.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cfg := layout()
	baseDir := filepath.Dir(configPath)

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("Configuration file not found, using defaults", "path", configPath)
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		// Expand environment variables in the YAML content
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	root, err := resolveRoot(cfg.Root, baseDir)
	if err != nil {
		return nil, err
	}
	cfg.Root = root

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveRoot(root, baseDir string) (string, error) {
	if root == "" {
		return git.RootOrDir(baseDir)
	}
	if !filepath.IsAbs(root) {
		root = filepath.Join(baseDir, root)
	}
	return filepath.Abs(root)
}

// Init writes the default configuration to configPath.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	data, err := yaml.Marshal(layout())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	header := "# docsync configuration. Paths are relative to the repository root.\n"
	if err := os.WriteFile(configPath, append([]byte(header), data...), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DocsPath is the absolute docs staging directory.
func (c *Config) DocsPath() string { return filepath.Join(c.Root, c.DocsDir) }

// ManifestPath is the absolute path of the site configuration document.
func (c *Config) ManifestPath() string { return filepath.Join(c.Root, c.Manifest) }

// SourcePath is the absolute source directory of m. Relative sources are
// resolved against Root.
func (c *Config) SourcePath(m Mapping) string {
	if filepath.IsAbs(m.Source) {
		return filepath.Clean(m.Source)
	}
	return filepath.Join(c.Root, m.Source)
}

// DestinationPath is the absolute destination directory of m.
func (c *Config) DestinationPath(m Mapping) string {
	return filepath.Join(c.DocsPath(), filepath.FromSlash(m.Destination))
}

// MetricsPath is the absolute metrics textfile path, empty when disabled.
func (c *Config) MetricsPath() string {
	if c.Metrics.Textfile == "" {
		return ""
	}
	if filepath.IsAbs(c.Metrics.Textfile) {
		return c.Metrics.Textfile
	}
	return filepath.Join(c.Root, c.Metrics.Textfile)
}

// MirrorMappings converts the configured mappings for the mirror step, in order.
func (c *Config) MirrorMappings() []mirror.Mapping {
	out := make([]mirror.Mapping, 0, len(c.Mappings))
	for _, m := range c.Mappings {
		out = append(out, mirror.Mapping{
			Name:        m.Source,
			Source:      c.SourcePath(m),
			Destination: c.DestinationPath(m),
			Extensions:  c.extensionsFor(m),
			Ignore:      c.Ignore,
		})
	}
	return out
}

// NavSections converts the configured mappings for the navigation builder, in order.
func (c *Config) NavSections() []nav.Section {
	out := make([]nav.Section, 0, len(c.Mappings))
	for _, m := range c.Mappings {
		if m.Nav.Disabled {
			continue
		}
		out = append(out, nav.Section{
			Label:      m.Nav.Label,
			Dir:        m.Destination,
			Order:      m.Nav.Order,
			Priority:   m.Nav.Priority,
			Guide:      m.Nav.Guide,
			Prefix:     m.Nav.Prefix,
			Positions:  m.Nav.Positions,
			Extensions: c.extensionsFor(m),
		})
	}
	return out
}

// extensionsFor returns the allow-list of m, falling back to the top-level one.
func (c *Config) extensionsFor(m Mapping) []string {
	if len(m.Extensions) > 0 {
		return m.Extensions
	}
	return c.Extensions
}

// HomeNode is the fixed first navigation entry.
func (c *Config) HomeNode() nav.Node {
	return nav.NewLeaf(c.Home.Label, c.Home.File)
}
