package jobs

import (
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/oxy-curve/engine/profiler"
)

// DispatcherBuilderOption is a functional option for configuring a Dispatcher.
// Use the With* functions to create options.
type DispatcherBuilderOption func(d *dispatcher)

// WithWorkers sets the number of worker goroutines the pool may run. Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - DispatcherBuilderOption: option function to apply
func WithWorkers(n int) DispatcherBuilderOption {
	return func(d *dispatcher) {
		if n < 1 {
			n = 1
		}
		d.workers = n
	}
}

// WithQueueSize sets the pool's task queue length. Together with the chunk size it bounds how many jobs
// one batch may hold. Defaults to 256.
//
// Parameters:
//   - n: the queue length (minimum 1)
//
// Returns:
//   - DispatcherBuilderOption: option function to apply
func WithQueueSize(n int) DispatcherBuilderOption {
	return func(d *dispatcher) {
		if n < 1 {
			n = 1
		}
		d.queueSize = n
	}
}

// WithIdleTimeout sets how long an idle worker waits for work before exiting. Defaults to 1 second.
//
// Parameters:
//   - timeout: the idle timeout, ignored if not positive
//
// Returns:
//   - DispatcherBuilderOption: option function to apply
func WithIdleTimeout(timeout time.Duration) DispatcherBuilderOption {
	return func(d *dispatcher) {
		if timeout > 0 {
			d.idleTimeout = timeout
		}
	}
}

// WithChunkSize sets how many jobs one pool task runs back to back. Curve jobs are small, so grouping
// them amortizes the per-task scheduling cost. Defaults to 64.
//
// Parameters:
//   - n: the jobs per task (minimum 1)
//
// Returns:
//   - DispatcherBuilderOption: option function to apply
func WithChunkSize(n int) DispatcherBuilderOption {
	return func(d *dispatcher) {
		if n < 1 {
			n = 1
		}
		d.chunkSize = n
	}
}

// WithMaxBatchSize caps the number of jobs one batch may hold below the queue capacity.
// Larger batches are rejected with ErrResourceExhausted.
//
// Parameters:
//   - n: the maximum jobs per batch, 0 for no cap beyond the queue capacity
//
// Returns:
//   - DispatcherBuilderOption: option function to apply
func WithMaxBatchSize(n int) DispatcherBuilderOption {
	return func(d *dispatcher) {
		d.maxBatchSize = max(n, 0)
	}
}

// WithLogger sets the logger used for misuse warnings and failure diagnostics. Defaults to slog.Default().
//
// Parameters:
//   - logger: the logger to use, ignored if nil
//
// Returns:
//   - DispatcherBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) DispatcherBuilderOption {
	return func(d *dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithProfiler attaches a Profiler that records every joined batch.
//
// Parameters:
//   - p: the profiler to record into
//
// Returns:
//   - DispatcherBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) DispatcherBuilderOption {
	return func(d *dispatcher) {
		d.profiler = p
	}
}
