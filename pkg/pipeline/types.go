// Package pipeline implements the Pipeline Driver: the
// top-level phase sequencer that owns instrumentation, the adaptive
// worker pool, the cooperative abort signal, phase timeouts, and
// post-run metrics persistence.
package pipeline

import "time"

// LatencyHistogram is the per-phase p50/p95/p99 summary, computed
// from the phase's recorded item durations.
type LatencyHistogram struct {
	P50 time.Duration `json:"p50_ms"`
	P95 time.Duration `json:"p95_ms"`
	P99 time.Duration `json:"p99_ms"`
}

// PhaseMetrics is one phase's full instrumentation record:
// start time, duration, items processed/total, throughput, latency
// histogram, warnings, errors, and anomaly flags. Resource snapshots
// are not part of it; the sampler keeps them separately.
type PhaseMetrics struct {
	Phase            string           `json:"phase"`
	StartedAt        time.Time        `json:"started_at"`
	Duration         time.Duration    `json:"duration_ms"`
	ItemsProcessed   int              `json:"items_processed"`
	ItemsTotal       int              `json:"items_total"`
	ThroughputPerSec float64          `json:"throughput_per_sec"`
	Latency          LatencyHistogram `json:"latency"`
	Warnings         []string         `json:"warnings,omitempty"`
	Errors           []string         `json:"errors,omitempty"`
	AnomalyFlags     []string         `json:"anomaly_flags,omitempty"`
}

// ResourceSnapshot is one resource-sampler reading.
type ResourceSnapshot struct {
	Timestamp    time.Time `json:"timestamp"`
	CPUPercent   float64   `json:"cpu_percent"`
	MemoryBytes  uint64    `json:"memory_bytes"`
	WorkerTarget int       `json:"worker_target"`
}

// AbortReason is the closed set of reasons the abort signal can carry.
type AbortReason string

const (
	AbortReasonTimeout          AbortReason = "timeout"
	AbortReasonFatalValidation  AbortReason = "fatal_validation"
	AbortReasonExternalRequest  AbortReason = "external_request"
	AbortReasonAggregationFault AbortReason = "aggregation_invariant_violation"
)

// RunMetrics is everything the driver persists after a run completes
// or aborts.
type RunMetrics struct {
	Phases          []PhaseMetrics              `json:"phases"`
	ResourceSamples []ResourceSnapshot          `json:"-"` // written separately, one per line (resource_usage.jsonl)
	Histograms      map[string]LatencyHistogram `json:"histograms"`
}
