package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/runtime"
)

// PhaseFunc is one sequential phase's body. It must check Driver.Abort
// at every internal loop boundary; cancellation is cooperative.
type PhaseFunc func(ctx context.Context, rec *PhaseRecorder) error

// ItemFunc is one Phase-2 per-question task body; tasks may suspend
// during I/O-bound method calls.
type ItemFunc[T any] func(ctx context.Context, item T) error

// Driver sequences phases 0, 1, 2.1, 2.2, 4, 5, 6, 7, 9, 10 and
// owns the cross-cutting concerns: instrumentation, the adaptive worker
// pool, the abort signal, phase timeouts, and metrics persistence.
type Driver struct {
	Abort    *AbortSignal
	Sizer    *WorkerPoolSizer
	Sampler  *ResourceSampler
	Timeouts map[string]time.Duration

	metrics []PhaseMetrics
}

// NewDriver builds a driver with the given worker count request (from
// MAX_WORKERS) and per-phase timeouts.
func NewDriver(requestedWorkers int, sampleInterval time.Duration, timeouts map[string]time.Duration) *Driver {
	return &Driver{
		Abort:    NewAbortSignal(),
		Sizer:    NewWorkerPoolSizer(requestedWorkers),
		Sampler:  NewResourceSampler(sampleInterval),
		Timeouts: timeouts,
	}
}

// Start begins background resource sampling, adjusting the worker pool
// target after every sample.
func (d *Driver) Start(ctx context.Context) {
	d.Sampler.Start(ctx, d.Sizer.Target)
	go d.adjustOnSample(ctx)
}

// adjustOnSample polls the latest sample once per interval and feeds it
// to the sizer; a separate loop from Sampler.Start keeps the sizer
// decoupled from the sampler's own storage lock.
func (d *Driver) adjustOnSample(ctx context.Context) {
	ticker := time.NewTicker(d.Sampler.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.Abort.Done():
			return
		case <-ticker.C:
			if snap, ok := d.Sampler.Latest(); ok {
				d.Sizer.Adjust(snap)
			}
		}
	}
}

// Stop halts the resource sampler. Callers invoke this once the final
// phase completes or the run aborts.
func (d *Driver) Stop() {
	d.Sampler.Stop()
}

// RunPhase executes one sequential phase under its declared timeout
// (exceeding it sets the abort signal with reason=timeout), records
// its metrics, and appends them to the driver's run history.
func (d *Driver) RunPhase(ctx context.Context, name string, itemsTotal int, fn PhaseFunc) error {
	if reason, _, ok := d.Abort.Reason(); ok {
		return fmt.Errorf("pipeline: phase %s not started, abort already set (reason=%s)", name, reason)
	}

	phaseCtx := ctx
	var cancel context.CancelFunc
	if timeout, ok := d.Timeouts[name]; ok && timeout > 0 {
		phaseCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	rec := NewPhaseRecorder(name, itemsTotal)
	err := fn(phaseCtx, rec)
	metrics := rec.Finish()
	d.metrics = append(d.metrics, metrics)

	if err != nil {
		if phaseCtx.Err() == context.DeadlineExceeded {
			d.Abort.Set(AbortReasonTimeout)
			return runtime.NewPhaseError(name, fmt.Errorf("%w: phase %s exceeded its timeout", runtime.ErrTimeout, name))
		}
		return runtime.NewPhaseError(name, err)
	}
	return nil
}

// RunPhase2 fans the per-question tasks out across the adaptive worker
// pool, bounded by a semaphore
// sized to the sizer's current target, and cancels the remainder on
// abort. Each task runs with its own recorder entry timed individually
// so the phase histogram reflects per-question latency.
func RunPhase2[T any](ctx context.Context, d *Driver, name string, items []T, fn ItemFunc[T]) error {
	rec := NewPhaseRecorder(name, len(items))

	eg, egCtx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, d.Sizer.Target())

	for _, item := range items {
		item := item
		if d.Abort.IsSet() {
			rec.Anomaly("abort signal set before all items dispatched")
			break
		}

		sem <- struct{}{}
		eg.Go(func() error {
			defer func() { <-sem }()

			select {
			case <-d.Abort.Done():
				return nil // in-flight ScoredMicroQuestions are discarded on abort
			default:
			}

			start := time.Now()
			err := fn(egCtx, item)
			rec.RecordItem(time.Since(start))
			if err != nil {
				rec.Error(err.Error())
				return err
			}
			return nil
		})
	}

	err := eg.Wait()
	metrics := rec.Finish()
	d.metrics = append(d.metrics, metrics)
	if err != nil {
		return runtime.NewPhaseError(name, fmt.Errorf("%w: %v", runtime.ErrMethodExecution, err))
	}
	return nil
}

// Metrics returns the accumulated per-phase metrics in run order.
func (d *Driver) Metrics() []PhaseMetrics {
	return append([]PhaseMetrics{}, d.metrics...)
}
