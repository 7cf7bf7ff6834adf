package nav

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNodeYAMLShape(t *testing.T) {
	n := Nav{
		NewLeaf("Home", "index.md"),
		NewSection("Templates", NewLeaf("D1 — Setup", "sawmill-templates/D1_setup.md")),
	}
	out, err := yaml.Marshal(n)
	require.NoError(t, err)

	want := strings.Join([]string{
		"- Home: index.md",
		"- Templates:",
		"    - D1 — Setup: sawmill-templates/D1_setup.md",
		"",
	}, "\n")
	assert.Equal(t, want, string(out))

	var back Nav
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.True(t, Equal(n, back), Diff(n, back))
}

func TestNodeUnmarshal_MkDocsShapes(t *testing.T) {
	src := `
- index.md
- About: about.md
- Guides:
    - Intro: guides/intro.md
`
	var got Nav
	require.NoError(t, yaml.Unmarshal([]byte(src), &got))
	want := Nav{
		{Path: "index.md"},
		NewLeaf("About", "about.md"),
		NewSection("Guides", NewLeaf("Intro", "guides/intro.md")),
	}
	assert.True(t, Equal(want, got), Diff(want, got))
}

func TestNodeUnmarshal_RejectsMultiKeyEntries(t *testing.T) {
	var got Nav
	err := yaml.Unmarshal([]byte("- A: a.md\n  B: b.md\n"), &got)
	require.Error(t, err)
}

func TestEqual_LeafAndEmptySectionDiffer(t *testing.T) {
	a := Nav{NewLeaf("X", "")}
	b := Nav{{Label: "X", Children: Nav{}}}
	assert.False(t, Equal(a, b))
	assert.NotEmpty(t, Diff(a, b))
}
