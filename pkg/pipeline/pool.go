package pipeline

import "sync/atomic"

// Worker pool bounds and the CPU/memory down-scale thresholds: the
// adaptive pool sits in [4,64], starts at 32, and backs off when
// CPU exceeds 85% or memory exceeds 4 GB.
const (
	MinWorkers = 4
	MaxWorkers = 64

	DefaultWorkers = 32

	downscaleCPUPercent  = 85.0
	downscaleMemoryBytes = 4 << 30 // 4 GB
	downscaleStep        = 4
	upscaleStep          = 2
)

// ClampWorkers bounds n to [MinWorkers, MaxWorkers], the rule applied
// to both the configured starting size and the MAX_WORKERS environment
// override.
func ClampWorkers(n int) int {
	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}

// WorkerPoolSizer tracks the pipeline's current adaptive worker
// target. It is read by Phase 2's fan-out to size its semaphore and
// adjusted after each resource sample.
type WorkerPoolSizer struct {
	target atomic.Int64
}

// NewWorkerPoolSizer starts at the clamped requested size (the
// MAX_WORKERS override, or DefaultWorkers if unset).
func NewWorkerPoolSizer(requested int) *WorkerPoolSizer {
	s := &WorkerPoolSizer{}
	s.target.Store(int64(ClampWorkers(requested)))
	return s
}

// Target returns the current worker pool target size.
func (s *WorkerPoolSizer) Target() int {
	return int(s.target.Load())
}

// Adjust reacts to one resource snapshot: down-scales by downscaleStep
// when CPU or memory exceeds the down-scale thresholds, otherwise up-scales
// by upscaleStep back toward MaxWorkers, always staying within bounds.
func (s *WorkerPoolSizer) Adjust(snap ResourceSnapshot) int {
	current := s.Target()
	var next int
	if snap.CPUPercent > downscaleCPUPercent || snap.MemoryBytes > downscaleMemoryBytes {
		next = ClampWorkers(current - downscaleStep)
	} else {
		next = ClampWorkers(current + upscaleStep)
	}
	s.target.Store(int64(next))
	return next
}
