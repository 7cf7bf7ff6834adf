package config

import (
	"path/filepath"
	"strings"

	derrors "git.home.luguber.info/inful/docsync/internal/errors"
	"git.home.luguber.info/inful/docsync/internal/mirror"
	"git.home.luguber.info/inful/docsync/internal/nav"
	"git.home.luguber.info/inful/docsync/internal/util/sets"
)

// Validate checks the configuration for values the pipeline cannot work with.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.DocsDir) == "" {
		return derrors.ValidationFailed("docs_dir", "must not be empty")
	}
	if strings.TrimSpace(cfg.Manifest) == "" {
		return derrors.ValidationFailed("manifest", "must not be empty")
	}
	switch cfg.Mode {
	case mirror.ModeHardlink, mirror.ModeCopy:
	default:
		return derrors.ValidationFailed("mode", "must be hardlink or copy, got "+string(cfg.Mode))
	}
	if err := validateExtensions("extensions", cfg.Extensions); err != nil {
		return err
	}

	destinations := sets.New[string]()
	for _, m := range cfg.Mappings {
		field := "mappings[" + m.Source + "]"
		if strings.TrimSpace(m.Source) == "" {
			return derrors.ValidationFailed("mappings.source", "must not be empty")
		}
		if filepath.IsAbs(m.Destination) || escapes(m.Destination) {
			return derrors.ValidationFailed(field+".destination", "must stay inside docs_dir")
		}
		dest := filepath.Clean(m.Destination)
		if destinations.Has(dest) {
			return derrors.ValidationFailed(field+".destination", "duplicate destination "+m.Destination)
		}
		destinations.Add(dest)
		if err := validateExtensions(field+".extensions", m.Extensions); err != nil {
			return err
		}
		switch m.Nav.Order {
		case nav.OrderPriority, nav.OrderPositional:
		default:
			return derrors.ValidationFailed(field+".nav.order", "must be priority or positional, got "+string(m.Nav.Order))
		}
		if m.Nav.Positions < 0 {
			return derrors.ValidationFailed(field+".nav.positions", "must not be negative")
		}
	}
	return nil
}

func validateExtensions(field string, exts []string) error {
	if len(exts) == 0 {
		return derrors.ValidationFailed(field, "at least one extension is required")
	}
	for _, e := range exts {
		if !strings.HasPrefix(e, ".") || len(e) < 2 {
			return derrors.ValidationFailed(field, "extensions must start with a dot, got "+e)
		}
	}
	return nil
}

func escapes(rel string) bool {
	clean := filepath.Clean(rel)
	return clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator))
}
