package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docsync/internal/config"
	derrors "git.home.luguber.info/inful/docsync/internal/errors"
	"git.home.luguber.info/inful/docsync/internal/logfields"
	"git.home.luguber.info/inful/docsync/internal/manifest"
	"git.home.luguber.info/inful/docsync/internal/metrics"
	"git.home.luguber.info/inful/docsync/internal/mirror"
	"git.home.luguber.info/inful/docsync/internal/nav"
	"git.home.luguber.info/inful/docsync/internal/observability"
)

// Pipeline runs mirror, navigation and manifest steps for one configuration.
// It is not safe for concurrent use; callers serialize runs.
type Pipeline struct {
	cfg      *config.Config
	recorder metrics.Recorder
	newRunID func() string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithRunIDs overrides run id generation.
func WithRunIDs(gen func() string) Option {
	return func(p *Pipeline) { p.newRunID = gen }
}

// New creates a pipeline for cfg.
func New(cfg *config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:      cfg,
		recorder: metrics.NoopRecorder{},
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// MappingResult is the mirror outcome for one configured mapping.
type MappingResult struct {
	Mapping string
	mirror.Result
}

// Report summarizes one run.
type Report struct {
	RunID           string
	Mappings        []MappingResult
	Added           int
	Relinked        int
	Removed         int
	Nav             nav.Nav
	ManifestChanged bool
	Duration        time.Duration
}

// Mirror syncs every configured mapping in order.
func (p *Pipeline) Mirror(ctx context.Context) ([]MappingResult, error) {
	ctx = observability.WithStage(ctx, "mirror")
	syncer := mirror.New(
		mirror.WithMode(p.cfg.Mode),
		mirror.WithLogger(observability.Logger(ctx)),
	)

	var out []MappingResult
	for _, m := range p.cfg.MirrorMappings() {
		res, err := syncer.Sync(m)
		if err != nil {
			return out, derrors.MirrorFailed(m.Name, err)
		}
		p.recorder.AddMirrorResult(m.Name, res.Added, res.Relinked, res.Removed)
		out = append(out, MappingResult{Mapping: m.Name, Result: res})
	}
	return out, nil
}

// BuildNav builds the navigation from the docs tree as it is now.
func (p *Pipeline) BuildNav() (nav.Nav, error) {
	n, err := nav.Build(p.cfg.DocsPath(), p.cfg.HomeNode(), p.cfg.NavSections())
	if err != nil {
		return nil, derrors.NavigationFailed(err)
	}
	return n, nil
}

// Run mirrors, rebuilds the navigation and reconciles the manifest on disk.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	report := Report{RunID: p.newRunID()}
	ctx = observability.WithRunID(ctx, report.RunID)

	err := p.run(ctx, &report)
	report.Duration = time.Since(start)
	p.recorder.ObserveRunDuration(report.Duration)
	if err != nil {
		p.recorder.IncRunOutcome(metrics.OutcomeFailed)
		return report, err
	}
	p.recorder.IncRunOutcome(metrics.OutcomeSuccess)
	observability.DebugContext(ctx, "Run finished", logfields.DurationMS(float64(report.Duration.Microseconds())/1000))
	return report, nil
}

func (p *Pipeline) run(ctx context.Context, report *Report) error {
	results, err := p.Mirror(ctx)
	report.Mappings = results
	for _, r := range results {
		report.Added += r.Added
		report.Relinked += r.Relinked
		report.Removed += r.Removed
	}
	if err != nil {
		return err
	}
	if report.Added > 0 || report.Removed > 0 {
		observability.InfoContext(ctx, "Sync complete", logfields.Added(report.Added), logfields.Removed(report.Removed))
	}

	n, err := p.BuildNav()
	if err != nil {
		return err
	}
	report.Nav = n

	path := p.cfg.ManifestPath()
	changed, err := manifest.Reconcile(path, n)
	if err != nil {
		return derrors.ManifestFailed(path, err)
	}
	report.ManifestChanged = changed
	p.recorder.IncManifestWrite(changed)
	return nil
}

// OnConfig is the host entry point: it runs the pipeline and stores the new
// navigation in doc. doc always receives the navigation, even when the file
// on disk already matched and was left alone.
func (p *Pipeline) OnConfig(ctx context.Context, doc *manifest.Document) (*manifest.Document, error) {
	report, err := p.Run(ctx)
	if err != nil {
		return doc, err
	}
	if err := doc.SetNav(report.Nav); err != nil {
		return doc, derrors.InternalError("update in-memory configuration", err)
	}
	return doc, nil
}
