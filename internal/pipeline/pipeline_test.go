package pipeline

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsync/internal/config"
	derrors "git.home.luguber.info/inful/docsync/internal/errors"
	"git.home.luguber.info/inful/docsync/internal/manifest"
	"git.home.luguber.info/inful/docsync/internal/metrics"
	"git.home.luguber.info/inful/docsync/internal/nav"
	"git.home.luguber.info/inful/docsync/internal/testutil"
)

const siteConfig = `site_name: Sawmill
theme:
  name: material
nav:
  - Home: index.md
`

func setupRepo(t *testing.T) (*config.Config, *testutil.Tree) {
	t.Helper()
	tree := testutil.NewTree(t).
		WriteFile("architecture/NORTH_STAR.md", "# north\n").
		WriteFile("architecture/zebra.md", "# zebra\n").
		WriteFile("Templates/GUIDE.md", "# guide\n").
		WriteFile("Templates/D1_intake.md", "# d1\n").
		WriteFile("docs/index.md", "# home\n").
		WriteFile("mkdocs.yml", siteConfig)

	cfg := config.Default()
	cfg.Root = tree.Root()
	return cfg, tree
}

func expectedNav() nav.Nav {
	return nav.Nav{
		nav.NewLeaf("Home", "index.md"),
		nav.NewSection("Architecture",
			nav.NewLeaf("NORTH STAR — Read This First", "architecture/NORTH_STAR.md"),
			nav.NewLeaf("Zebra", "architecture/zebra.md"),
		),
		nav.NewSection("Templates",
			nav.NewLeaf("Guide", "sawmill-templates/GUIDE.md"),
			nav.NewLeaf("D1 — Intake", "sawmill-templates/D1_intake.md"),
		),
	}
}

type countingRecorder struct {
	metrics.NoopRecorder
	added, removed int
	writes         map[bool]int
	outcomes       map[metrics.RunOutcome]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{writes: map[bool]int{}, outcomes: map[metrics.RunOutcome]int{}}
}

func (r *countingRecorder) AddMirrorResult(_ string, added, _, removed int) {
	r.added += added
	r.removed += removed
}

func (r *countingRecorder) IncManifestWrite(changed bool)           { r.writes[changed]++ }
func (r *countingRecorder) IncRunOutcome(outcome metrics.RunOutcome) { r.outcomes[outcome]++ }

func TestRun_MirrorsAndWritesNav(t *testing.T) {
	cfg, tree := setupRepo(t)
	rec := newCountingRecorder()
	p := New(cfg, WithRecorder(rec), WithRunIDs(func() string { return "run-1" }))

	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, 4, report.Added)
	assert.Equal(t, 0, report.Removed)
	assert.True(t, report.ManifestChanged)
	require.Len(t, report.Mappings, 2)
	assert.Equal(t, "architecture", report.Mappings[0].Mapping)

	tree.Assert().
		AssertLinked("architecture/NORTH_STAR.md", "docs/architecture/NORTH_STAR.md").
		AssertLinked("architecture/zebra.md", "docs/architecture/zebra.md").
		AssertLinked("Templates/GUIDE.md", "docs/sawmill-templates/GUIDE.md").
		AssertLinked("Templates/D1_intake.md", "docs/sawmill-templates/D1_intake.md")

	doc, err := manifest.Load(cfg.ManifestPath())
	require.NoError(t, err)
	got, ok, err := doc.Nav()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, nav.Equal(got, expectedNav()), nav.Diff(got, expectedNav()))
	assert.Equal(t, []string{"site_name", "theme", "nav"}, doc.Keys())

	assert.Equal(t, 4, rec.added)
	assert.Equal(t, 1, rec.writes[true])
	assert.Equal(t, 1, rec.outcomes[metrics.OutcomeSuccess])
}

func TestRun_Idempotent(t *testing.T) {
	cfg, tree := setupRepo(t)
	p := New(cfg)

	first, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, first.Added, "first run must mirror every source file")
	require.True(t, first.ManifestChanged, "first run must write the navigation")

	before, err := os.Stat(cfg.ManifestPath())
	require.NoError(t, err)
	past := before.ModTime().Add(-time.Hour)
	require.NoError(t, os.Chtimes(cfg.ManifestPath(), past, past))

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Added)
	assert.Zero(t, report.Removed)
	assert.False(t, report.ManifestChanged)

	tree.Assert().AssertModTime("mkdocs.yml", past)
}

func TestRun_RemovesStaleAfterSourceDeletion(t *testing.T) {
	cfg, tree := setupRepo(t)
	p := New(cfg)

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	tree.Remove("architecture/zebra.md")

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Removed)
	assert.True(t, report.ManifestChanged)
	tree.Assert().AssertFileNotExists("docs/architecture/zebra.md")

	section := report.Nav[1]
	require.Len(t, section.Children, 1)
	assert.Equal(t, "architecture/NORTH_STAR.md", section.Children[0].Path)
}

func TestOnConfig_UpdatesDocumentEvenWithoutWrite(t *testing.T) {
	cfg, _ := setupRepo(t)
	p := New(cfg)

	_, err := p.Run(context.Background())
	require.NoError(t, err)

	// Stale in-memory view: the host loaded the document before the first run.
	doc, err := manifest.Parse([]byte(siteConfig))
	require.NoError(t, err)

	out, err := p.OnConfig(context.Background(), doc)
	require.NoError(t, err)
	require.Same(t, doc, out)

	got, ok, err := out.Nav()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, nav.Equal(got, expectedNav()), nav.Diff(got, expectedNav()))
}

func TestRun_MissingManifestFails(t *testing.T) {
	cfg, tree := setupRepo(t)
	tree.Remove("mkdocs.yml")
	rec := newCountingRecorder()

	_, err := New(cfg, WithRecorder(rec)).Run(context.Background())
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryManifest))
	assert.Equal(t, 1, rec.outcomes[metrics.OutcomeFailed])
}

func TestRun_SourceNotDirectoryFails(t *testing.T) {
	cfg, tree := setupRepo(t)
	tree.Remove("Templates").WriteFile("Templates", "not a directory")

	_, err := New(cfg).Run(context.Background())
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryFileSystem))
}

func TestRun_MissingSourceSkipped(t *testing.T) {
	cfg, tree := setupRepo(t)
	tree.Remove("Templates")

	report, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Mappings[1].Skipped)
	tree.Assert().AssertFileNotExists("docs/sawmill-templates")
	require.Len(t, report.Nav, 2, "templates section omitted")
}

func TestRun_DefaultConfigMirrorsEveryExtension(t *testing.T) {
	cfg, tree := setupRepo(t)
	tree.WriteFile("Templates/sawmill_config.yaml", "name: x\n").
		WriteFile("Templates/notes.txt", "not mirrored\n")

	report, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	for _, m := range report.Mappings {
		assert.NotZero(t, m.Added, m.Mapping)
	}
	tree.Assert().
		AssertLinked("Templates/sawmill_config.yaml", "docs/sawmill-templates/sawmill_config.yaml").
		AssertFileNotExists("docs/sawmill-templates/notes.txt")

	templates := report.Nav[2]
	require.Len(t, templates.Children, 3)
	assert.Equal(t, nav.NewLeaf("Sawmill Config", "sawmill-templates/sawmill_config.yaml"), templates.Children[2])
}
