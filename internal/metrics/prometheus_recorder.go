package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry       *prom.Registry
	linked         *prom.CounterVec
	relinked       *prom.CounterVec
	removed        *prom.CounterVec
	manifestWrites *prom.CounterVec
	runDuration    prom.Histogram
	runOutcome     *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the docsync metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		linked: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsync",
			Name:      "files_linked_total",
			Help:      "Files linked into a destination, re-links included",
		}, []string{"mapping"}),
		relinked: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsync",
			Name:      "files_relinked_total",
			Help:      "Destination files replaced because their source was replaced",
		}, []string{"mapping"}),
		removed: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsync",
			Name:      "files_removed_total",
			Help:      "Stale destination files removed",
		}, []string{"mapping"}),
		manifestWrites: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsync",
			Name:      "manifest_writes_total",
			Help:      "Manifest reconciliations by whether the file was rewritten",
		}, []string{"changed"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docsync",
			Name:      "run_duration_seconds",
			Help:      "Duration of a full mirror, nav and manifest run",
			Buckets:   prom.DefBuckets,
		}),
		runOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsync",
			Name:      "run_outcomes_total",
			Help:      "Runs by final status",
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.linked, pr.relinked, pr.removed, pr.manifestWrites, pr.runDuration, pr.runOutcome)
	return pr
}

// Registry exposes the underlying registry.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.registry }

func (p *PrometheusRecorder) AddMirrorResult(mapping string, added, relinked, removed int) {
	if p == nil {
		return
	}
	p.linked.WithLabelValues(mapping).Add(float64(added))
	p.relinked.WithLabelValues(mapping).Add(float64(relinked))
	p.removed.WithLabelValues(mapping).Add(float64(removed))
}

func (p *PrometheusRecorder) IncManifestWrite(changed bool) {
	if p == nil {
		return
	}
	p.manifestWrites.WithLabelValues(fmt.Sprint(changed)).Inc()
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome RunOutcome) {
	if p == nil {
		return
	}
	p.runOutcome.WithLabelValues(string(outcome)).Inc()
}

// WriteTextfile writes the current metric values to path in the Prometheus
// text exposition format. The parent directory is created when missing.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prom.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
