package metrics

import (
	"strconv"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "dsmodinstaller"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once             sync.Once
	stepDuration     *prom.HistogramVec
	stepResults      *prom.CounterVec
	sequenceDuration prom.Histogram
	sequenceOutcome  *prom.CounterVec
	childStarts      prom.Counter
	childExits       *prom.CounterVec
	childRunning     prom.Gauge
	updateChecks     *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		// npm installs routinely take minutes.
		buckets := []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 600}
		pr.stepDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Duration of individual sequence steps",
			Buckets:   buckets,
		}, []string{"step"})
		pr.stepResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "step_results_total",
			Help:      "Step result counts by outcome",
		}, []string{"step", "result"})
		pr.sequenceDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "sequence_duration_seconds",
			Help:      "Total sync, install and launch sequence duration",
			Buckets:   buckets,
		})
		pr.sequenceOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "sequence_outcomes_total",
			Help:      "Sequence outcomes by trigger and final state",
		}, []string{"trigger", "outcome"})
		pr.childStarts = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "child_starts_total",
			Help:      "Supervised child processes started",
		})
		pr.childExits = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "child_exits_total",
			Help:      "Supervised child process exits by exit code",
		}, []string{"code"})
		pr.childRunning = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "child_running",
			Help:      "1 while a supervised child process is running",
		})
		pr.updateChecks = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "update_checks_total",
			Help:      "Self-update checks by outcome",
		}, []string{"outcome"})
		reg.MustRegister(pr.stepDuration, pr.stepResults, pr.sequenceDuration, pr.sequenceOutcome,
			pr.childStarts, pr.childExits, pr.childRunning, pr.updateChecks)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveStepDuration(step string, d time.Duration) {
	if p == nil || p.stepDuration == nil {
		return
	}
	p.stepDuration.WithLabelValues(step).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStepResult(step string, result ResultLabel) {
	if p == nil || p.stepResults == nil {
		return
	}
	p.stepResults.WithLabelValues(step, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveSequenceDuration(d time.Duration) {
	if p == nil || p.sequenceDuration == nil {
		return
	}
	p.sequenceDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncSequenceOutcome(trigger, outcome string) {
	if p == nil || p.sequenceOutcome == nil {
		return
	}
	p.sequenceOutcome.WithLabelValues(trigger, outcome).Inc()
}

func (p *PrometheusRecorder) IncChildStart() {
	if p == nil || p.childStarts == nil {
		return
	}
	p.childStarts.Inc()
}

func (p *PrometheusRecorder) IncChildExit(exitCode int) {
	if p == nil || p.childExits == nil {
		return
	}
	p.childExits.WithLabelValues(strconv.Itoa(exitCode)).Inc()
}

func (p *PrometheusRecorder) SetChildRunning(running bool) {
	if p == nil || p.childRunning == nil {
		return
	}
	if running {
		p.childRunning.Set(1)
	} else {
		p.childRunning.Set(0)
	}
}

func (p *PrometheusRecorder) IncUpdateCheck(outcome string) {
	if p == nil || p.updateChecks == nil {
		return
	}
	p.updateChecks.WithLabelValues(outcome).Inc()
}
