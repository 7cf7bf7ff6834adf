package config

import (
	"path"
	"strings"
	"time"

	"git.home.luguber.info/inful/docsync/internal/mirror"
	"git.home.luguber.info/inful/docsync/internal/nav"
)

// Default returns the configuration for the standard layout:
// architecture/ and Templates/ mirrored under docs/, nav written to mkdocs.yml.
// Every mapping is fully populated and ready for the pipeline.
func Default() *Config {
	cfg := layout()
	applyDefaults(cfg)
	return cfg
}

// layout is the standard layout before per-mapping defaults are derived.
// Load decodes over it so top-level settings in the file still flow into
// the default mappings; Init writes it so the file stays short.
func layout() *Config {
	return &Config{
		DocsDir:    "docs",
		Manifest:   "mkdocs.yml",
		Mode:       mirror.ModeHardlink,
		Extensions: []string{".md", ".yaml", ".yml"},
		Ignore:     []string{".DS_Store", "__pycache__", "Archive"},
		Home:       nav.Entry{File: "index.md", Label: "Home"},
		Mappings: []Mapping{
			{
				Source:      "architecture",
				Destination: "architecture",
				Nav: NavConfig{
					Label: "Architecture",
					Order: nav.OrderPriority,
					Priority: []nav.Entry{
						{File: "NORTH_STAR.md", Label: "NORTH STAR — Read This First"},
						{File: "BUILDER_SPEC.md", Label: "BUILDER SPEC — Assembly Instructions"},
						{File: "OPERATIONAL_SPEC.md", Label: "OPERATIONAL SPEC — How DoPeJarMo Runs"},
						{File: "SAWMILL_ANALYSIS.md", Label: "Sawmill Analysis"},
					},
				},
			},
			{
				Source:      "Templates",
				Destination: "sawmill-templates",
				Nav: NavConfig{
					Label:     "Templates",
					Order:     nav.OrderPositional,
					Guide:     nav.Entry{File: "GUIDE.md", Label: "Guide"},
					Prefix:    "D",
					Positions: 10,
				},
			},
		},
		Logging: LoggingConfig{Level: string(LogLevelInfo), Format: string(LogFormatText)},
		Watch:   WatchConfig{Debounce: 300 * time.Millisecond},
	}
}

// applyDefaults fills fields a partial config file leaves empty.
func applyDefaults(cfg *Config) {
	if cfg.Mode == "" {
		cfg.Mode = mirror.ModeHardlink
	}
	if cfg.Home.File == "" {
		cfg.Home.File = "index.md"
	}
	if cfg.Home.Label == "" {
		cfg.Home.Label = "Home"
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 300 * time.Millisecond
	}

	for i := range cfg.Mappings {
		m := &cfg.Mappings[i]
		if m.Destination == "" {
			m.Destination = path.Base(m.Source)
		}
		if len(m.Extensions) == 0 {
			m.Extensions = cfg.Extensions
		}
		if m.Nav.Label == "" {
			m.Nav.Label = nav.WordLabel(path.Base(m.Destination))
		}
		if m.Nav.Order == "" {
			m.Nav.Order = nav.OrderPriority
		}
		m.Nav.Order = nav.Order(strings.ToLower(string(m.Nav.Order)))
		if m.Nav.Order == nav.OrderPositional {
			if m.Nav.Prefix == "" {
				m.Nav.Prefix = "D"
			}
			if m.Nav.Positions == 0 {
				m.Nav.Positions = 10
			}
			if m.Nav.Guide.File != "" && m.Nav.Guide.Label == "" {
				m.Nav.Guide.Label = "Guide"
			}
		}
	}
}
