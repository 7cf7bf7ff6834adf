package nav

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

// Node is one navigation entry: a label mapped either to a page path (leaf)
// or to an ordered list of child nodes (section).
type Node struct {
	Label    string
	Path     string
	Children Nav
}

// Nav is an ordered list of navigation nodes. Order is display order.
type Nav []Node

// NewLeaf returns a node pointing at a page.
func NewLeaf(label, path string) Node {
	return Node{Label: label, Path: path}
}

// NewSection returns a node grouping children under label.
func NewSection(label string, children ...Node) Node {
	return Node{Label: label, Children: Nav(children)}
}

// IsSection reports whether n groups other nodes.
func (n Node) IsSection() bool { return n.Children != nil }

// MarshalYAML renders the node as a single-key mapping.
func (n Node) MarshalYAML() (any, error) {
	if n.IsSection() {
		return map[string]Nav{n.Label: n.Children}, nil
	}
	if n.Label == "" {
		return n.Path, nil
	}
	return map[string]string{n.Label: n.Path}, nil
}

// UnmarshalYAML accepts the shapes MkDocs allows in nav: `Label: path`,
// `Label: [children]` and a bare `path`.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*n = Node{Path: value.Value}
		return nil
	case yaml.MappingNode:
		if len(value.Content) != 2 {
			return fmt.Errorf("line %d: nav entry must have exactly one key, got %d", value.Line, len(value.Content)/2)
		}
		key, val := value.Content[0], value.Content[1]
		switch val.Kind {
		case yaml.ScalarNode:
			*n = NewLeaf(key.Value, val.Value)
			return nil
		case yaml.SequenceNode:
			children := Nav{}
			if err := val.Decode(&children); err != nil {
				return err
			}
			*n = Node{Label: key.Value, Children: children}
			return nil
		}
		return fmt.Errorf("line %d: nav entry %q has unsupported value", val.Line, key.Value)
	}
	return fmt.Errorf("line %d: unsupported nav entry", value.Line)
}

// Equal reports whether two navigation trees are structurally identical.
// A section with no children and a leaf are never equal.
func Equal(a, b Nav) bool {
	return cmp.Equal(a, b)
}

// Diff returns a human readable diff (-old +new), empty when equal.
func Diff(old, updated Nav) string {
	return cmp.Diff(old, updated)
}
