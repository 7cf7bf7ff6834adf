package metrics

import "time"

// RunOutcome labels the final state of a pipeline run.
type RunOutcome string

const (
	OutcomeSuccess RunOutcome = "success"
	OutcomeFailed  RunOutcome = "failed"
)

// Recorder defines observability hooks for sync runs.
type Recorder interface {
	AddMirrorResult(mapping string, added, relinked, removed int)
	IncManifestWrite(changed bool)
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome RunOutcome)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) AddMirrorResult(string, int, int, int) {}
func (NoopRecorder) IncManifestWrite(bool)                 {}
func (NoopRecorder) ObserveRunDuration(time.Duration)      {}
func (NoopRecorder) IncRunOutcome(RunOutcome)              {}
