package nav

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"git.home.luguber.info/inful/docsync/internal/mirror"
	"git.home.luguber.info/inful/docsync/internal/util/sets"
)

// Order selects how a section arranges its pages.
type Order string

const (
	// OrderPriority lists priority files first, then remaining markdown alphabetically.
	OrderPriority Order = "priority"
	// OrderPositional lists the guide, then numbered D<n>_ files, then the rest alphabetically.
	OrderPositional Order = "positional"
)

// Entry pins a file name to a fixed label.
type Entry struct {
	File  string `yaml:"file"`
	Label string `yaml:"label"`
}

// Section describes how one mirrored directory appears in the navigation.
type Section struct {
	Label string
	// Dir is the directory relative to the docs root, slash separated.
	Dir        string
	Order      Order
	Priority   []Entry
	Guide      Entry
	Prefix     string
	Positions  int
	Extensions []string
}

const markdownExt = ".md"

// Build produces the navigation for the current contents of docsDir. The
// result depends only on what is on disk: listings are sorted and every
// ordering rule is explicit.
func Build(docsDir string, home Node, sections []Section) (Nav, error) {
	out := Nav{home}
	for _, sec := range sections {
		children, err := buildSection(docsDir, sec)
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			continue
		}
		out = append(out, NewSection(sec.Label, children...))
	}
	return out, nil
}

func buildSection(docsDir string, sec Section) (Nav, error) {
	dir := filepath.Join(docsDir, filepath.FromSlash(sec.Dir))
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read nav section %s: %w", sec.Label, err)
	}

	l := listing{dir: dir, rel: sec.Dir}
	for _, e := range entries {
		l.names = append(l.names, e.Name())
		if isRegular(dir, e) {
			l.files = append(l.files, e.Name())
		}
	}

	switch sec.Order {
	case OrderPositional:
		return l.positional(sec), nil
	case OrderPriority, "":
		return l.priority(sec), nil
	}
	return nil, fmt.Errorf("nav section %s: unknown order %q", sec.Label, sec.Order)
}

// listing is a sorted snapshot of one section directory.
type listing struct {
	dir   string
	rel   string
	names []string // every entry, sorted
	files []string // regular files only, sorted
}

func (l listing) exists(name string) bool {
	_, err := os.Stat(filepath.Join(l.dir, name))
	return err == nil
}

func (l listing) leaf(label, name string) Node {
	return NewLeaf(label, path.Join(l.rel, name))
}

func (l listing) priority(sec Section) Nav {
	var out Nav
	seen := sets.New[string]()
	for _, p := range sec.Priority {
		if l.exists(p.File) {
			out = append(out, l.leaf(p.Label, p.File))
			seen.Add(p.File)
		}
	}
	for _, name := range l.files {
		if mirror.Ext(name) != markdownExt || seen.Has(name) {
			continue
		}
		out = append(out, l.leaf(WordLabel(name), name))
	}
	return out
}

func (l listing) positional(sec Section) Nav {
	var out Nav
	seen := sets.New[string]()
	if sec.Guide.File != "" {
		seen.Add(sec.Guide.File)
		if l.exists(sec.Guide.File) {
			out = append(out, l.leaf(sec.Guide.Label, sec.Guide.File))
		}
	}

	// Every position rescans the sorted listing, so two files sharing a
	// position are both emitted in name order.
	for i := 1; i <= sec.Positions; i++ {
		token := sec.Prefix + strconv.Itoa(i) + "_"
		for _, name := range l.files {
			if strings.HasPrefix(name, token) && mirror.Ext(name) == markdownExt {
				out = append(out, l.leaf(PositionalLabel(name), name))
			}
		}
	}

	for _, name := range l.names {
		if hasPositionToken(name, sec.Prefix) {
			seen.Add(name)
		}
	}

	exts := sets.New(sec.Extensions...)
	for _, name := range l.files {
		if seen.Has(name) || !exts.Has(mirror.Ext(name)) {
			continue
		}
		out = append(out, l.leaf(UnderscoreLabel(name), name))
	}
	return out
}

// hasPositionToken reports whether name looks like <prefix><digits>[_...].
// Such names belong to the numbered block even when their number is out of
// range or their extension is not markdown, and are then left out entirely.
func hasPositionToken(name, prefix string) bool {
	if prefix == "" || !strings.HasPrefix(name, prefix) {
		return false
	}
	token, _, _ := strings.Cut(name[len(prefix):], "_")
	if token == "" {
		return false
	}
	for _, r := range token {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isRegular(dir string, e fs.DirEntry) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && info.Mode().IsRegular()
}
