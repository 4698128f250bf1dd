package jobs

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-curve/engine/profiler"
)

// DispatcherState is the submission state of a Dispatcher.
type DispatcherState int

const (
	// StateIdle means no batch is outstanding; Submit will accept a new batch.
	StateIdle DispatcherState = iota

	// StateSubmitted means a batch is outstanding; Submit is ignored until Join returns.
	StateSubmitted
)

func (s DispatcherState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("DispatcherState(%d)", int(s))
	}
}

var (
	// ErrResourceExhausted is returned by Submit when a batch cannot be scheduled with the dispatcher's resources.
	ErrResourceExhausted = errors.New("dispatcher resources exhausted")

	// ErrJobPanicked wraps the value recovered from a job that panicked.
	ErrJobPanicked = errors.New("job panicked")
)

// batch is the join handle for one submission.
type batch struct {
	wg sync.WaitGroup

	mu     sync.Mutex
	err    error
	failed int

	size int
}

// run executes a chunk of jobs in order. A failing job does not stop the rest of the chunk.
func (b *batch) run(chunk []Job) {
	for _, j := range chunk {
		if err := execute(j); err != nil {
			b.fail(err)
		}
	}
}

// fail records err, keeping only the first error seen.
func (b *batch) fail(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err == nil {
		b.err = err
	}
	b.failed++
}

func execute(j Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrJobPanicked, r)
		}
	}()
	return j.Execute()
}

// dispatcher is the implementation of the Dispatcher interface.
type dispatcher struct {
	mu *sync.Mutex

	// pool manages a bounded set of reusable goroutines. Workers persist across
	// batches and exit after idleTimeout without work.
	pool        worker.DynamicWorkerPool
	workers     int
	queueSize   int
	idleTimeout time.Duration

	// chunkSize is the number of jobs run by one pool task; maxBatchSize, when positive,
	// caps a batch below the queue's capacity.
	chunkSize    int
	maxBatchSize int

	logger   *slog.Logger
	profiler *profiler.Profiler

	inflight   *batch
	nextTaskID int
}

// Dispatcher runs batches of independent jobs in parallel and joins them.
//
// A Dispatcher moves between two states: Idle and Submitted. Submit is accepted only while Idle and
// moves the dispatcher to Submitted; Join blocks until every job of the outstanding batch has finished
// and moves it back to Idle. Job outputs must not be read until Join returns.
//
// A Dispatcher is meant to have a single owner. Its state is guarded, so misuse from several goroutines
// cannot corrupt the outstanding batch, but interleaved Submit and Join calls from different owners
// have no useful ordering.
type Dispatcher interface {
	// Submit schedules jobs as one batch. The dispatcher takes ownership of the slice of jobs; the jobs
	// themselves must stay alive and unread until Join returns.
	//
	// While a batch is outstanding Submit does nothing and logs a warning: none of the given jobs run
	// and the outstanding batch is unaffected. Submitting no jobs leaves the dispatcher Idle.
	//
	// Parameters:
	//   - jobs: the jobs to run
	//
	// Returns:
	//   - error: ErrResourceExhausted if the batch exceeds the dispatcher's capacity, nil otherwise
	Submit(jobs ...Job) error

	// Join blocks until every job of the outstanding batch has finished, then returns the dispatcher
	// to Idle. Returns immediately if nothing is outstanding. There is no timeout.
	//
	// Returns:
	//   - error: the first job failure recorded in the batch, wrapped with the failure count, or nil
	Join() error

	// State returns the current submission state.
	//
	// Returns:
	//   - DispatcherState: StateIdle or StateSubmitted
	State() DispatcherState

	// Capacity returns the largest batch Submit accepts.
	//
	// Returns:
	//   - int: the maximum number of jobs per batch
	Capacity() int
}

var _ Dispatcher = &dispatcher{}

// NewDispatcher creates a Dispatcher backed by a dynamic worker pool.
// Defaults: runtime.NumCPU()-1 workers (minimum 1), a task queue of 256, 1 second worker idle timeout
// and 64 jobs per pool task. A batch is split into pool tasks of chunk-size jobs and every task must fit
// in the queue at once, so the default capacity is 256*64 jobs per batch.
//
// Parameters:
//   - options: functional options to configure the dispatcher
//
// Returns:
//   - Dispatcher: the newly created dispatcher
func NewDispatcher(options ...DispatcherBuilderOption) Dispatcher {
	d := &dispatcher{
		mu:          &sync.Mutex{},
		workers:     max(runtime.NumCPU()-1, 1),
		queueSize:   256,
		idleTimeout: 1 * time.Second,
		chunkSize:   64,
		logger:      slog.Default(),
	}
	for _, option := range options {
		option(d)
	}

	// Initialize the pool after options so WithWorkers and WithQueueSize can override the defaults.
	d.pool = worker.NewDynamicWorkerPool(d.workers, d.queueSize, d.idleTimeout)
	return d
}

func (d *dispatcher) Submit(jobs ...Job) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.inflight != nil {
		d.logger.Warn("jobs: batch still in flight, ignoring submit",
			"outstanding", d.inflight.size,
			"ignored", len(jobs),
		)
		return nil
	}
	if len(jobs) == 0 {
		return nil
	}
	if capacity := d.Capacity(); len(jobs) > capacity {
		return fmt.Errorf("%w: batch of %d jobs exceeds capacity %d", ErrResourceExhausted, len(jobs), capacity)
	}

	owned := slices.Clone(jobs)
	b := &batch{size: len(owned)}
	for start := 0; start < len(owned); start += d.chunkSize {
		chunk := owned[start:min(start+d.chunkSize, len(owned))]
		b.wg.Add(1)
		id := d.nextTaskID
		d.nextTaskID++
		d.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer b.wg.Done()
				b.run(chunk)
				return nil, nil
			},
		})
	}
	d.inflight = b
	return nil
}

func (d *dispatcher) Join() error {
	d.mu.Lock()
	b := d.inflight
	d.mu.Unlock()
	if b == nil {
		return nil
	}

	start := time.Now()
	b.wg.Wait()
	wait := time.Since(start)

	d.mu.Lock()
	if d.inflight == b {
		d.inflight = nil
	}
	d.mu.Unlock()

	if d.profiler != nil {
		d.profiler.RecordBatch(b.size, wait)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		d.logger.Debug("jobs: batch finished with failures", "jobs", b.size, "failed", b.failed)
		return fmt.Errorf("jobs: %d of %d jobs failed: %w", b.failed, b.size, b.err)
	}
	return nil
}

func (d *dispatcher) State() DispatcherState {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.inflight != nil {
		return StateSubmitted
	}
	return StateIdle
}

func (d *dispatcher) Capacity() int {
	capacity := d.queueSize * d.chunkSize
	if d.maxBatchSize > 0 {
		capacity = min(capacity, d.maxBatchSize)
	}
	return capacity
}
