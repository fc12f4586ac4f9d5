package metrics

import "time"

// ResultLabel enumerates step result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// Update check outcomes.
const (
	UpdateUpToDate   = "up_to_date"
	UpdateAvailable  = "available"
	UpdateDownloaded = "downloaded"
	UpdateFailed     = "failed"
)

// Recorder defines observability hooks for sequences and the supervised child.
// All implementations must be safe for concurrent use.
type Recorder interface {
	ObserveStepDuration(step string, d time.Duration)
	IncStepResult(step string, result ResultLabel)
	ObserveSequenceDuration(d time.Duration)
	IncSequenceOutcome(trigger, outcome string) // outcome: running|installed|failed|cancelled|skipped
	IncChildStart()
	IncChildExit(exitCode int)
	SetChildRunning(running bool)
	IncUpdateCheck(outcome string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStepDuration(string, time.Duration) {}
func (NoopRecorder) IncStepResult(string, ResultLabel)         {}
func (NoopRecorder) ObserveSequenceDuration(time.Duration)     {}
func (NoopRecorder) IncSequenceOutcome(string, string)         {}
func (NoopRecorder) IncChildStart()                            {}
func (NoopRecorder) IncChildExit(int)                          {}
func (NoopRecorder) SetChildRunning(bool)                      {}
func (NoopRecorder) IncUpdateCheck(string)                     {}
