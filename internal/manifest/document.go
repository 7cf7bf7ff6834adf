package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsync/internal/nav"
)

// NavKey is the top-level key holding the navigation.
const NavKey = "nav"

// Document is a parsed configuration document. It is the in-memory
// configuration handed between the pipeline and its host.
type Document struct {
	root yaml.Node
	mode os.FileMode
}

// Load parses the document at path. An empty file yields an empty mapping.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if info, err := os.Stat(path); err == nil {
		doc.mode = info.Mode().Perm()
	}
	return doc, nil
}

// Parse parses a document from memory.
func Parse(data []byte) (*Document, error) {
	doc := &Document{mode: 0o644}
	if len(bytes.TrimSpace(data)) == 0 {
		doc.root = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc.root); err != nil {
		return nil, err
	}
	if doc.mapping() == nil {
		return nil, errors.New("top level is not a mapping")
	}
	return doc, nil
}

func (d *Document) mapping() *yaml.Node {
	if d.root.Kind != yaml.DocumentNode || len(d.root.Content) == 0 {
		return nil
	}
	if m := d.root.Content[0]; m.Kind == yaml.MappingNode {
		return m
	}
	return nil
}

// lookup returns the value node for key, or nil.
func (d *Document) lookup(key string) *yaml.Node {
	m := d.mapping()
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// Keys returns the top-level keys in document order.
func (d *Document) Keys() []string {
	m := d.mapping()
	out := make([]string, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		out = append(out, m.Content[i].Value)
	}
	return out
}

// Nav returns the current navigation. ok is false when the key is absent or null.
func (d *Document) Nav() (nav.Nav, bool, error) {
	v := d.lookup(NavKey)
	if v == nil || v.Tag == "!!null" {
		return nil, false, nil
	}
	var out nav.Nav
	if err := v.Decode(&out); err != nil {
		return nil, true, fmt.Errorf("decode %s: %w", NavKey, err)
	}
	return out, true, nil
}

// SetNav replaces the navigation value in place, appending the key when it
// is missing. Other keys are not touched.
func (d *Document) SetNav(n nav.Nav) error {
	var value yaml.Node
	if err := value.Encode(n); err != nil {
		return fmt.Errorf("encode %s: %w", NavKey, err)
	}
	m := d.mapping()
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == NavKey {
			// Keep comments attached to the old value.
			value.HeadComment = m.Content[i+1].HeadComment
			value.LineComment = m.Content[i+1].LineComment
			m.Content[i+1] = &value
			return nil
		}
	}
	key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: NavKey}
	m.Content = append(m.Content, key, &value)
	return nil
}

// Get decodes the value of a top-level key into out. It reports whether the key exists.
func (d *Document) Get(key string, out any) (bool, error) {
	v := d.lookup(key)
	if v == nil {
		return false, nil
	}
	return true, v.Decode(out)
}

// Marshal renders the whole document in block style with two space indentation.
func (d *Document) Marshal() ([]byte, error) {
	blockStyle(&d.root)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&d.root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the document to path, keeping the permission bits it was loaded with.
func (d *Document) Save(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, d.mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// blockStyle clears flow style on every collection so nested structures are
// written as indented blocks.
func blockStyle(n *yaml.Node) {
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style &^= yaml.FlowStyle
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}
