package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, reg *prom.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matchLabels(m, labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	t.Fatalf("metric %s%v not found", name, labels)
	return 0
}

func matchLabels(m *dto.Metric, want map[string]string) bool {
	for _, lp := range m.GetLabel() {
		if v, ok := want[lp.GetName()]; ok && v != lp.GetValue() {
			return false
		}
	}
	return true
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.AddMirrorResult("architecture", 3, 1, 2)
	pr.AddMirrorResult("architecture", 1, 0, 0)
	pr.IncManifestWrite(true)
	pr.ObserveRunDuration(20 * time.Millisecond)
	pr.IncRunOutcome(OutcomeSuccess)

	if got := counterValue(t, reg, "docsync_files_linked_total", map[string]string{"mapping": "architecture"}); got != 4 {
		t.Errorf("linked = %v, want 4", got)
	}
	if got := counterValue(t, reg, "docsync_files_removed_total", map[string]string{"mapping": "architecture"}); got != 2 {
		t.Errorf("removed = %v, want 2", got)
	}
	if got := counterValue(t, reg, "docsync_manifest_writes_total", map[string]string{"changed": "true"}); got != 1 {
		t.Errorf("manifest writes = %v, want 1", got)
	}
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.AddMirrorResult("templates", 2, 0, 0)

	path := filepath.Join(t.TempDir(), "textfile", "docsync.prom")
	if err := pr.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), `docsync_files_linked_total{mapping="templates"} 2`) {
		t.Errorf("unexpected textfile content:\n%s", data)
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.AddMirrorResult("x", 1, 1, 1)
	r.IncManifestWrite(false)
	r.ObserveRunDuration(time.Second)
	r.IncRunOutcome(OutcomeFailed)
}
