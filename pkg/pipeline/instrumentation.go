package pipeline

import (
	"sort"
	"sync"
	"time"
)

// PhaseRecorder accumulates one phase's instrumentation: item
// durations (for the latency histogram), warnings, errors, and anomaly
// flags, guarded by a mutex since Phase 2's workers record concurrently.
type PhaseRecorder struct {
	phase      string
	startedAt  time.Time
	itemsTotal int

	mu        sync.Mutex
	durations []time.Duration
	warnings  []string
	errs      []string
	anomalies []string
}

// NewPhaseRecorder starts recording for phase with itemsTotal expected
// items (0 for phases without a natural per-item count).
func NewPhaseRecorder(phase string, itemsTotal int) *PhaseRecorder {
	return &PhaseRecorder{phase: phase, startedAt: time.Now(), itemsTotal: itemsTotal}
}

// RecordItem logs one completed item's duration.
func (r *PhaseRecorder) RecordItem(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.durations = append(r.durations, d)
}

// Warn appends a warning to the phase record.
func (r *PhaseRecorder) Warn(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, msg)
}

// Error appends an error to the phase record.
func (r *PhaseRecorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, msg)
}

// Anomaly flags an out-of-band condition (e.g. a worker downscale, a
// validation rate spike) without aborting the phase.
func (r *PhaseRecorder) Anomaly(flag string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.anomalies = append(r.anomalies, flag)
}

// Finish closes out the recorder and produces the phase's PhaseMetrics,
// computing the p50/p95/p99 latency histogram over recorded durations.
func (r *PhaseRecorder) Finish() PhaseMetrics {
	r.mu.Lock()
	defer r.mu.Unlock()

	duration := time.Since(r.startedAt)
	itemsProcessed := len(r.durations)

	var throughput float64
	if duration > 0 {
		throughput = float64(itemsProcessed) / duration.Seconds()
	}

	return PhaseMetrics{
		Phase:            r.phase,
		StartedAt:        r.startedAt,
		Duration:         duration,
		ItemsProcessed:   itemsProcessed,
		ItemsTotal:       r.itemsTotal,
		ThroughputPerSec: throughput,
		Latency:          histogram(r.durations),
		Warnings:         append([]string{}, r.warnings...),
		Errors:           append([]string{}, r.errs...),
		AnomalyFlags:     append([]string{}, r.anomalies...),
	}
}

// histogram computes the p50/p95/p99 percentiles of a duration sample
// by taking the element at index floor(p*(n-1)) of a sorted copy, with
// no interpolation.
func histogram(samples []time.Duration) LatencyHistogram {
	if len(samples) == 0 {
		return LatencyHistogram{}
	}
	sorted := append([]time.Duration{}, samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	return LatencyHistogram{
		P50: percentile(sorted, 0.50),
		P95: percentile(sorted, 0.95),
		P99: percentile(sorted, 0.99),
	}
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 1 {
		return sorted[0]
	}
	idx := int(p * float64(len(sorted)-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
