package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbortSignalFirstReasonWins(t *testing.T) {
	a := NewAbortSignal()
	assert.False(t, a.IsSet())

	a.Set(AbortReasonTimeout)
	a.Set(AbortReasonExternalRequest)

	assert.True(t, a.IsSet())
	reason, _, ok := a.Reason()
	require.True(t, ok)
	assert.Equal(t, AbortReasonTimeout, reason)
}

func TestClampWorkers(t *testing.T) {
	assert.Equal(t, MinWorkers, ClampWorkers(0))
	assert.Equal(t, MaxWorkers, ClampWorkers(1000))
	assert.Equal(t, 10, ClampWorkers(10))
}

func TestWorkerPoolSizerDownscalesOnHighCPU(t *testing.T) {
	s := NewWorkerPoolSizer(32)
	next := s.Adjust(ResourceSnapshot{CPUPercent: 90})
	assert.Equal(t, 28, next)
	assert.Equal(t, 28, s.Target())
}

func TestWorkerPoolSizerUpscalesWhenHealthy(t *testing.T) {
	s := NewWorkerPoolSizer(32)
	next := s.Adjust(ResourceSnapshot{CPUPercent: 10, MemoryBytes: 1 << 20})
	assert.Equal(t, 34, next)
}

func TestWorkerPoolSizerStaysWithinBounds(t *testing.T) {
	s := NewWorkerPoolSizer(MaxWorkers)
	next := s.Adjust(ResourceSnapshot{CPUPercent: 10})
	assert.Equal(t, MaxWorkers, next)

	s2 := NewWorkerPoolSizer(MinWorkers)
	next2 := s2.Adjust(ResourceSnapshot{CPUPercent: 99})
	assert.Equal(t, MinWorkers, next2)
}

func TestPhaseRecorderHistogram(t *testing.T) {
	rec := NewPhaseRecorder("phase2", 3)
	rec.RecordItem(10 * time.Millisecond)
	rec.RecordItem(20 * time.Millisecond)
	rec.RecordItem(30 * time.Millisecond)
	rec.Warn("slow question")

	metrics := rec.Finish()
	assert.Equal(t, "phase2", metrics.Phase)
	assert.Equal(t, 3, metrics.ItemsProcessed)
	assert.Equal(t, 3, metrics.ItemsTotal)
	assert.Len(t, metrics.Warnings, 1)
	assert.True(t, metrics.Latency.P50 > 0)
	assert.True(t, metrics.Latency.P99 >= metrics.Latency.P50)
}

func TestRunPhaseSucceeds(t *testing.T) {
	d := NewDriver(16, time.Hour, nil)
	err := d.RunPhase(context.Background(), "phase0", 0, func(ctx context.Context, rec *PhaseRecorder) error {
		rec.RecordItem(time.Millisecond)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, d.Metrics(), 1)
	assert.Equal(t, "phase0", d.Metrics()[0].Phase)
}

func TestRunPhaseTimeoutSetsAbort(t *testing.T) {
	d := NewDriver(16, time.Hour, map[string]time.Duration{"slow": 10 * time.Millisecond})
	err := d.RunPhase(context.Background(), "slow", 0, func(ctx context.Context, rec *PhaseRecorder) error {
		<-ctx.Done()
		return ctx.Err()
	})
	require.Error(t, err)
	assert.True(t, d.Abort.IsSet())
	reason, _, ok := d.Abort.Reason()
	require.True(t, ok)
	assert.Equal(t, AbortReasonTimeout, reason)
}

func TestRunPhase2ProcessesAllItemsConcurrently(t *testing.T) {
	d := NewDriver(8, time.Hour, nil)
	items := []int{1, 2, 3, 4, 5}

	var processed atomic.Int64
	err := RunPhase2(context.Background(), d, "phase2.2", items, func(ctx context.Context, item int) error {
		processed.Add(1)
		return nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, 5, processed.Load())
}

func TestRunPhase2PropagatesItemError(t *testing.T) {
	d := NewDriver(8, time.Hour, nil)
	items := []int{1, 2, 3}
	sentinel := errors.New("method execution failed")

	err := RunPhase2(context.Background(), d, "phase2.2", items, func(ctx context.Context, item int) error {
		if item == 2 {
			return sentinel
		}
		return nil
	})
	require.Error(t, err)
}

func TestRunPhase2RespectsAbort(t *testing.T) {
	d := NewDriver(8, time.Hour, nil)
	d.Abort.Set(AbortReasonExternalRequest)

	items := []int{1, 2, 3}
	var processed atomic.Int64
	err := RunPhase2(context.Background(), d, "phase2.2", items, func(ctx context.Context, item int) error {
		processed.Add(1)
		return nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, 0, processed.Load())
}

func TestResourceSamplerCollectsSamples(t *testing.T) {
	sampler := NewResourceSampler(5 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sampler.Start(ctx, func() int { return 16 })
	time.Sleep(30 * time.Millisecond)
	sampler.Stop()

	samples := sampler.Samples()
	assert.NotEmpty(t, samples)
	for _, s := range samples {
		assert.Equal(t, 16, s.WorkerTarget)
	}
}

func TestDriverPersistWritesAllThreeArtifacts(t *testing.T) {
	d := NewDriver(8, time.Hour, nil)
	require.NoError(t, d.RunPhase(context.Background(), "phase0", 1, func(ctx context.Context, rec *PhaseRecorder) error {
		rec.RecordItem(time.Millisecond)
		return nil
	}))

	dir := t.TempDir()
	require.NoError(t, d.Persist(dir))

	for _, name := range []string{filePhaseMetrics, fileResourceUsage, fileLatencyHistograms} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "missing %s", name)
	}
}
