package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// sampleBufferSize is the fixed ring-buffer depth: sampled at a fixed
// interval, the last 120 samples are retained.
const sampleBufferSize = 120

// ResourceSampler is a gopsutil-backed background goroutine: a
// ticker-driven sampler with a bounded ring buffer, a stop channel,
// and a mutex-guarded state struct.
type ResourceSampler struct {
	interval time.Duration

	mu      sync.Mutex
	samples []ResourceSnapshot

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewResourceSampler constructs a sampler that fires every interval.
// The worker-target callback is supplied later, to Start.
func NewResourceSampler(interval time.Duration) *ResourceSampler {
	return &ResourceSampler{
		interval: interval,
		samples:  make([]ResourceSnapshot, 0, sampleBufferSize),
		stopCh:   make(chan struct{}),
	}
}

// Start begins sampling in a background goroutine. workerTarget is
// called on each tick to capture the pool's current target size.
func (s *ResourceSampler) Start(ctx context.Context, workerTarget func() int) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case <-ticker.C:
				snap := s.take(workerTarget())
				s.mu.Lock()
				s.samples = append(s.samples, snap)
				if len(s.samples) > sampleBufferSize {
					s.samples = s.samples[len(s.samples)-sampleBufferSize:]
				}
				s.mu.Unlock()
			}
		}
	}()
}

// take reads one CPU/memory snapshot via gopsutil. Failures are logged
// and reported as zero-valued so a sampling hiccup never aborts the run.
func (s *ResourceSampler) take(workerTarget int) ResourceSnapshot {
	snap := ResourceSnapshot{Timestamp: time.Now(), WorkerTarget: workerTarget}

	percents, err := cpu.Percent(0, false)
	if err != nil {
		slog.Warn("pipeline: cpu sample failed", "error", err)
	} else if len(percents) > 0 {
		snap.CPUPercent = percents[0]
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		slog.Warn("pipeline: memory sample failed", "error", err)
	} else {
		snap.MemoryBytes = vm.Used
	}

	return snap
}

// Stop halts sampling and waits for the goroutine to exit.
func (s *ResourceSampler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}

// Samples returns a copy of the retained ring buffer, oldest first.
func (s *ResourceSampler) Samples() []ResourceSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ResourceSnapshot, len(s.samples))
	copy(out, s.samples)
	return out
}

// Latest returns the most recent snapshot and whether one exists.
func (s *ResourceSampler) Latest() (ResourceSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.samples) == 0 {
		return ResourceSnapshot{}, false
	}
	return s.samples[len(s.samples)-1], true
}
