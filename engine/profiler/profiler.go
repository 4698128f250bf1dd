package profiler

import (
	"log/slog"
	"runtime"
	"sync"
	"time"
)

// Stats is a snapshot of the counters a Profiler has accumulated since it was created.
type Stats struct {
	// Batches is the number of batches joined.
	Batches int
	// Jobs is the number of jobs across all joined batches.
	Jobs int
	// JoinWait is the total time callers spent blocked in Join.
	JoinWait time.Duration
}

// Profiler tracks dispatch throughput and memory statistics for performance monitoring.
// Outputs stats to the logger at a configurable interval. Recording is safe from any goroutine.
type Profiler struct {
	mu *sync.Mutex

	logger         *slog.Logger
	updateInterval time.Duration
	lastTime       time.Time

	// interval counters are reset by every logged Tick; totals are not.
	batches, jobs int
	joinWait      time.Duration
	totals        Stats

	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets how often Tick logs statistics. Defaults to 1 second.
//
// Parameters:
//   - interval: the logging interval, ignored if not positive
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithInterval(interval time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// WithLogger sets the logger statistics are written to. Defaults to slog.Default().
//
// Parameters:
//   - logger: the logger to use, ignored if nil
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) ProfilerBuilderOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		mu:             &sync.Mutex{},
		logger:         slog.Default(),
		updateInterval: time.Second,
		lastTime:       time.Now(),
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// RecordBatch adds one joined batch to the counters.
//
// Parameters:
//   - jobs: the number of jobs in the batch
//   - wait: how long Join blocked
func (p *Profiler) RecordBatch(jobs int, wait time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.batches++
	p.jobs += jobs
	p.joinWait += wait
	p.totals.Batches++
	p.totals.Jobs += jobs
	p.totals.JoinWait += wait
}

// Stats returns the counters accumulated since the profiler was created.
//
// Returns:
//   - Stats: a snapshot of the totals
func (p *Profiler) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totals
}

// Tick should be called once per evaluation tick, after Join.
// Logs statistics when the update interval has elapsed: batches and jobs per second,
// average join wait, heap usage, allocation rate and GC count.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	var avgWait time.Duration
	if p.batches > 0 {
		avgWait = p.joinWait / time.Duration(p.batches)
	}

	runtime.ReadMemStats(&p.memStats)
	heapMB := float64(p.memStats.Alloc) / 1024 / 1024
	allocRateMB := float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()

	p.logger.Info("profiler: dispatch stats",
		"batches_per_sec", float64(p.batches)/elapsed.Seconds(),
		"jobs_per_sec", float64(p.jobs)/elapsed.Seconds(),
		"avg_join_wait", avgWait,
		"heap_mb", heapMB,
		"alloc_rate_mb_per_sec", allocRateMB,
		"gc_cycles", p.memStats.NumGC-p.lastGCCount,
	)

	p.batches, p.jobs, p.joinWait = 0, 0, 0
	p.lastTime = currentTime
	p.lastGCCount = p.memStats.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
