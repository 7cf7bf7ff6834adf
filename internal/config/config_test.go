package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/docsync/internal/errors"
	"git.home.luguber.info/inful/docsync/internal/mirror"
	"git.home.luguber.info/inful/docsync/internal/nav"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "docsync.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "docs", cfg.DocsDir)
	assert.Equal(t, "mkdocs.yml", cfg.Manifest)
	assert.Equal(t, mirror.ModeHardlink, cfg.Mode)
	require.Len(t, cfg.Mappings, 2)
	assert.Equal(t, "architecture", cfg.Mappings[0].Source)
	assert.Equal(t, "sawmill-templates", cfg.Mappings[1].Destination)
	assert.Equal(t, []string{".md", ".yaml", ".yml"}, cfg.Mappings[1].Extensions)
	assert.True(t, filepath.IsAbs(cfg.Root))
}

func TestLoad_PartialFileFillsDefaults(t *testing.T) {
	path := writeConfig(t, `
root: site
mode: copy
mappings:
  - source: specs
    nav:
      order: Positional
watch:
  poll_interval: 5s
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(path), "site"), cfg.Root)
	assert.Equal(t, mirror.ModeCopy, cfg.Mode)
	require.Len(t, cfg.Mappings, 1)
	m := cfg.Mappings[0]
	assert.Equal(t, "specs", m.Destination)
	assert.Equal(t, "Specs", m.Nav.Label)
	assert.Equal(t, nav.OrderPositional, m.Nav.Order)
	assert.Equal(t, "D", m.Nav.Prefix)
	assert.Equal(t, 10, m.Nav.Positions)
	assert.Equal(t, 5*time.Second, cfg.Watch.PollInterval)
	assert.Equal(t, 300*time.Millisecond, cfg.Watch.Debounce)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("DOCSYNC_TEST_DOCS", "site-docs")
	path := writeConfig(t, "docs_dir: ${DOCSYNC_TEST_DOCS}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "site-docs", cfg.DocsDir)
}

func TestLoad_LogLevelEnvOverride(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	cfg, err := Load(writeConfig(t, "logging:\n  level: error\n"))
	require.NoError(t, err)
	assert.Equal(t, LogLevelDebug, NormalizeLogLevel(cfg.Logging.Level))
}

func TestLoad_MalformedFileFails(t *testing.T) {
	_, err := Load(writeConfig(t, "mappings: [\n"))
	require.Error(t, err)
}

func TestLoad_InvalidValuesFail(t *testing.T) {
	cases := map[string]string{
		"bad mode":       "mode: symlink\n",
		"bad order":      "mappings:\n  - source: a\n    nav:\n      order: random\n",
		"duplicate dest": "mappings:\n  - source: a\n    destination: x\n  - source: b\n    destination: x\n",
		"escaping dest":  "mappings:\n  - source: a\n    destination: ../outside\n",
		"bad extension":  "extensions: [md]\n",
		"empty source":   "mappings:\n  - destination: x\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			require.Error(t, err)
			assert.True(t, derrors.IsCategory(err, derrors.CategoryValidation), "got %v", err)
		})
	}
}

func TestConfigPathsAndConversions(t *testing.T) {
	cfg := Default()
	cfg.Root = "/repo"
	cfg.Mappings[1].Nav.Disabled = true
	applyDefaults(cfg)

	assert.Equal(t, filepath.Join("/repo", "docs"), cfg.DocsPath())
	assert.Equal(t, filepath.Join("/repo", "mkdocs.yml"), cfg.ManifestPath())
	assert.Empty(t, cfg.MetricsPath())
	cfg.Metrics.Textfile = "build/docsync.prom"
	assert.Equal(t, filepath.Join("/repo", "build", "docsync.prom"), cfg.MetricsPath())

	mappings := cfg.MirrorMappings()
	require.Len(t, mappings, 2)
	assert.Equal(t, filepath.Join("/repo", "Templates"), mappings[1].Source)
	assert.Equal(t, filepath.Join("/repo", "docs", "sawmill-templates"), mappings[1].Destination)
	assert.Equal(t, []string{".DS_Store", "__pycache__", "Archive"}, mappings[1].Ignore)

	sections := cfg.NavSections()
	require.Len(t, sections, 1, "disabled nav sections are skipped")
	assert.Equal(t, "architecture", sections[0].Dir)
	assert.Len(t, sections[0].Priority, 4)

	assert.Equal(t, nav.NewLeaf("Home", "index.md"), cfg.HomeNode())
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docsync.yaml")
	require.NoError(t, Init(path, false))
	require.Error(t, Init(path, false), "existing file must not be overwritten without force")
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	def := Default()
	applyDefaults(def)
	assert.Equal(t, def.Mappings, cfg.Mappings)
	assert.Equal(t, def.Watch, cfg.Watch)
}

func TestNormalizeLogging(t *testing.T) {
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel(" WARNING "))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("loud"))
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat("JSON"))
	assert.Equal(t, LogFormatText, NormalizeLogFormat(""))
}

func TestDefault_MappingsAreReadyForTheMirror(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))

	for _, m := range cfg.Mappings {
		assert.Equal(t, []string{".md", ".yaml", ".yml"}, m.Extensions, m.Source)
	}
	for _, m := range cfg.MirrorMappings() {
		assert.NotEmpty(t, m.Extensions, m.Name)
	}
	for _, s := range cfg.NavSections() {
		assert.NotEmpty(t, s.Extensions, s.Label)
	}
}

func TestLoad_TopLevelExtensionsReachDefaultMappings(t *testing.T) {
	cfg, err := Load(writeConfig(t, "extensions: [.md]\n"))
	require.NoError(t, err)

	require.Len(t, cfg.Mappings, 2)
	assert.Equal(t, []string{".md"}, cfg.Mappings[0].Extensions)
	assert.Equal(t, []string{".md"}, cfg.Mappings[1].Extensions)
}

func TestMirrorMappings_FallsBackToTopLevelExtensions(t *testing.T) {
	cfg := Default()
	cfg.Mappings[0].Extensions = nil

	assert.Equal(t, cfg.Extensions, cfg.MirrorMappings()[0].Extensions)
	assert.Equal(t, cfg.Extensions, cfg.NavSections()[0].Extensions)
}

func TestValidate_RejectsMappingWithoutExtensions(t *testing.T) {
	cfg := Default()
	cfg.Mappings[1].Extensions = []string{}

	err := Validate(cfg)
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryValidation))
}

func TestSourcePath(t *testing.T) {
	cfg := Default()
	cfg.Root = "/repo"

	assert.Equal(t, filepath.Join("/repo", "architecture"), cfg.SourcePath(Mapping{Source: "architecture"}))
	assert.Equal(t, filepath.Clean("/shared/specs"), cfg.SourcePath(Mapping{Source: "/shared/specs/"}))
}
