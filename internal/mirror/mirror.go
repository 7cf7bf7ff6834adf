package mirror

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/docsync/internal/logfields"
	"git.home.luguber.info/inful/docsync/internal/util/sets"
)

// Mode selects how destination files are materialized.
type Mode string

const (
	ModeHardlink Mode = "hardlink"
	ModeCopy     Mode = "copy"
)

// Mapping is one source directory mirrored into one destination directory.
type Mapping struct {
	Name        string
	Source      string
	Destination string
	Extensions  []string
	Ignore      []string
}

func (m Mapping) label() string {
	if m.Name != "" {
		return m.Name
	}
	return filepath.Base(m.Source)
}

// Result counts what a Sync changed. Added includes re-links.
type Result struct {
	Added    int
	Relinked int
	Removed  int
	Skipped  bool
}

// Changed reports whether the destination was touched.
func (r Result) Changed() bool { return r.Added > 0 || r.Removed > 0 }

// Syncer mirrors mappings with a fixed identity/linker pair.
type Syncer struct {
	identity Identity
	linker   Linker
	logger   *slog.Logger
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithMode selects the identity and linker for mode. Unknown modes keep the hardlink default.
func WithMode(mode Mode) Option {
	return func(s *Syncer) {
		if mode == ModeCopy {
			s.identity = ContentIdentity{}
			s.linker = CopyLinker{}
			return
		}
		s.identity = StorageIdentity{}
		s.linker = HardLinker{}
	}
}

// WithIdentity overrides the identity check.
func WithIdentity(id Identity) Option {
	return func(s *Syncer) { s.identity = id }
}

// WithLinker overrides how files are materialized.
func WithLinker(l Linker) Option {
	return func(s *Syncer) { s.linker = l }
}

// WithLogger sets the logger used for per-file lines.
func WithLogger(l *slog.Logger) Option {
	return func(s *Syncer) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a Syncer in hardlink mode unless options say otherwise.
func New(opts ...Option) *Syncer {
	s := &Syncer{
		identity: StorageIdentity{},
		linker:   HardLinker{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync mirrors a single mapping with a default Syncer.
func Sync(m Mapping, opts ...Option) (Result, error) {
	return New(opts...).Sync(m)
}

// Sync makes the qualifying files of m.Destination equal those of m.Source.
// A missing source directory is skipped without error.
func (s *Syncer) Sync(m Mapping) (Result, error) {
	var res Result
	logger := s.logger.With(logfields.Mapping(m.label()))

	info, err := os.Stat(m.Source)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("Source directory absent, skipping", logfields.Source(m.Source))
		res.Skipped = true
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("stat source %s: %w", m.Source, err)
	}
	if !info.IsDir() {
		return res, fmt.Errorf("source %s is not a directory", m.Source)
	}

	if err := os.MkdirAll(m.Destination, 0o755); err != nil {
		return res, fmt.Errorf("create destination %s: %w", m.Destination, err)
	}

	sources, err := qualifyingSources(m)
	if err != nil {
		return res, err
	}

	for _, name := range slices.Sorted(maps.Keys(sources)) {
		relinked, linked, err := s.ensureLinked(sources[name], filepath.Join(m.Destination, name))
		if err != nil {
			return res, err
		}
		switch {
		case relinked:
			logger.Info("Re-linked", logfields.File(name))
			res.Added++
			res.Relinked++
		case linked:
			logger.Info("Linked", logfields.File(name))
			res.Added++
		}
	}

	entries, err := os.ReadDir(m.Destination)
	if err != nil {
		return res, fmt.Errorf("read destination %s: %w", m.Destination, err)
	}
	ignore := sets.New(m.Ignore...)
	exts := sets.New(m.Extensions...)
	for _, e := range entries {
		name := e.Name()
		if ignore.Has(name) || !e.Type().IsRegular() || !exts.Has(Ext(name)) {
			continue
		}
		if _, ok := sources[name]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(m.Destination, name)); err != nil {
			return res, fmt.Errorf("remove stale %s: %w", name, err)
		}
		logger.Info("Removed stale", logfields.File(name))
		res.Removed++
	}

	return res, nil
}

// ensureLinked links src to dst. A directory at dst is left untouched.
func (s *Syncer) ensureLinked(src, dst string) (relinked, linked bool, err error) {
	info, err := os.Lstat(dst)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.linker.Link(src, dst); err != nil {
			return false, false, fmt.Errorf("link %s: %w", dst, err)
		}
		return false, true, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("stat %s: %w", dst, err)
	}
	if info.IsDir() {
		s.logger.Debug("Destination entry is a directory, leaving it alone", logfields.Path(dst))
		return false, false, nil
	}

	// Only a regular file can share storage with its source; a symlink at
	// dst is replaced even when it points at src.
	if info.Mode().IsRegular() {
		same, err := s.identity.Same(src, dst)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return false, false, fmt.Errorf("compare %s: %w", dst, err)
		}
		if same {
			return false, false, nil
		}
	}
	if err := os.Remove(dst); err != nil {
		return false, false, fmt.Errorf("remove replaced %s: %w", dst, err)
	}
	if err := s.linker.Link(src, dst); err != nil {
		return false, false, fmt.Errorf("re-link %s: %w", dst, err)
	}
	return true, false, nil
}

// qualifyingSources maps each qualifying file name to the path that should
// be linked (symlinks resolved to their target).
func qualifyingSources(m Mapping) (map[string]string, error) {
	entries, err := os.ReadDir(m.Source)
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", m.Source, err)
	}
	ignore := sets.New(m.Ignore...)
	exts := sets.New(m.Extensions...)

	out := make(map[string]string, len(entries))
	for _, e := range entries {
		name := e.Name()
		if ignore.Has(name) || !exts.Has(Ext(name)) {
			continue
		}
		path := filepath.Join(m.Source, name)
		switch {
		case e.Type().IsRegular():
			out[name] = path
		case e.Type()&fs.ModeSymlink != 0:
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				continue
			}
			if ti, err := os.Stat(target); err == nil && ti.Mode().IsRegular() {
				out[name] = target
			}
		}
	}
	return out, nil
}

// Ext returns the final extension of name including the dot. Names that
// start with a dot and have no other dot (".DS_Store") and names ending in a
// dot have no extension.
func Ext(name string) string {
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return name[i:]
}
