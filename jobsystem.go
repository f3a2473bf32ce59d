package jobsystem

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	lg "github.com/Andrej220/go-utils/zlog"
)

// System owns a fixed pool of workers and the queue that feeds them.
//
// A System is created stopped. Init starts the workers, Submit hands
// jobs to them and Deinit stops and joins them. Several systems may run
// side by side; nothing is shared between them.
type System[M MetricsPolicy] struct {
	// OnJobError receives errors produced while running jobs.
	// OnInternalError receives errors not caused by a job.
	// Both must be set before Init.
	OnJobError      func(error)
	OnInternalError func(error)

	opts    Options
	metrics M
	queue   schedQueue[*Job]

	// mu serializes Init and Deinit.
	mu          sync.Mutex
	initialized bool
	stopped     bool

	executing atomic.Bool
	_         cachePad

	// outstanding counts jobs submitted but not yet finished.
	outstanding atomic.Int64
	_           cachePad

	workers atomic.Pointer[[]*worker]
}

// New creates a stopped System without metrics.
func New(opts Options) *System[*NoopMetrics] {
	return NewFromOptions[*NoopMetrics](&NoopMetrics{}, opts)
}

// NewFromOptions creates a stopped System reporting to m.
func NewFromOptions[M MetricsPolicy](m M, opts Options) *System[M] {
	opts.FillDefaults()
	s := &System[M]{
		opts:    opts,
		metrics: m,
	}
	s.queue = s.makeQueue()
	return s
}

// Metrics returns the metrics policy the system reports to.
func (s *System[M]) Metrics() M { return s.metrics }

// Init starts the worker pool.
//
// The first call spawns Options.Workers workers, each on its own OS
// thread, and marks the system executing. Any later call is rejected
// with ErrAlreadyInitialized and changes nothing, even after Deinit.
// In synchronous mode no workers are started.
func (s *System[M]) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := lg.FromContext(s.opts.Ctx)
	if s.initialized {
		logger.Warn("job system init called twice; ignoring")
		return ErrAlreadyInitialized
	}
	s.initialized = true

	workers := make([]*worker, 0, s.opts.Workers)
	if s.opts.Synchronous {
		logger.Info("job system running synchronously; no worker threads")
		s.workers.Store(&workers)
		s.executing.Store(true)
		return nil
	}

	logger.Info("creating worker threads",
		lg.Int("workers", s.opts.Workers),
		lg.Int("hardware_concurrency", s.opts.HardwareConcurrency),
		lg.String("queue", s.opts.QT.String()),
	)

	// executing is raised before the first worker starts so that no
	// worker can observe a stopped system and exit early.
	s.executing.Store(true)
	for i := range s.opts.Workers {
		w := newWorker(i)
		workers = append(workers, w)
		go s.workerLoop(w)
	}
	s.workers.Store(&workers)
	return nil
}

// Submit hands j to the workers.
//
// The submission is rejected, logged and reported through the returned
// error if the system is not executing (ErrNotExecuting), if j has no
// function (ErrNilFunc) or if j is already queued or running
// (ErrJobBusy). A rejected job is left untouched.
//
// In synchronous mode the job has finished when Submit returns.
func (s *System[M]) Submit(j *Job) error {
	if j == nil {
		lg.FromContext(s.opts.Ctx).Warn("submit called with nil job")
		return ErrNilJob
	}
	logger := lg.FromContext(j.context(s.opts.Ctx))

	if !s.executing.Load() {
		logger.Error("submit rejected: job system is not executing",
			lg.String("job_id", j.ID().String()),
		)
		return ErrNotExecuting
	}
	if !j.hasFunc() {
		logger.Warn("submit rejected: job has no function",
			lg.String("job_id", j.ID().String()),
		)
		return ErrNilFunc
	}
	if !j.claim() {
		logger.Warn("submit rejected: job already submitted or in progress",
			lg.String("job_id", j.ID().String()),
			lg.String("status", j.Status().String()),
		)
		return ErrJobBusy
	}

	s.outstanding.Add(1)
	if s.opts.Synchronous {
		s.execute(j)
		return nil
	}
	s.metrics.IncQueued()
	s.queue.Push(j)
	return nil
}

// Deinit stops the workers and joins them in creation order.
//
// Jobs already taken by a worker run to completion; jobs still queued
// stay in StatusSubmitted. No worker goroutine is alive once Deinit
// returns. Calling Deinit again, or before Init, does nothing.
func (s *System[M]) Deinit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized || s.stopped {
		return
	}
	s.stopped = true
	s.executing.Store(false)

	logger := lg.FromContext(s.opts.Ctx)
	workers := s.loadWorkers()
	logger.Info("waiting for worker threads to stop", lg.Int("workers", len(workers)))

	for _, w := range workers {
		<-w.done
	}

	if n := s.queue.Len(); n > 0 {
		logger.Warn("jobs left in queue at shutdown", lg.Int("pending", n))
	}
	logger.Info("job system shut down")
}

// WaitForAllJobs spins, yielding the processor, until every submitted
// job has finished. It returns immediately if the system is not
// executing.
//
// This is a point-in-time check: jobs submitted concurrently by other
// goroutines may still be pending when it returns.
func (s *System[M]) WaitForAllJobs() {
	for s.executing.Load() && s.outstanding.Load() > 0 {
		runtime.Gosched()
	}
}

// WaitForAllJobsContext is WaitForAllJobs bounded by ctx.
func (s *System[M]) WaitForAllJobsContext(ctx context.Context) error {
	for s.executing.Load() && s.outstanding.Load() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		runtime.Gosched()
	}
	return nil
}

// Executing reports whether the system accepts submissions.
func (s *System[M]) Executing() bool { return s.executing.Load() }

// NumWorkerThreads returns the size of the worker pool. It stays
// constant after Init, including after Deinit.
func (s *System[M]) NumWorkerThreads() int {
	return len(s.loadWorkers())
}

// NumBusyWorkerThreads returns how many workers are running a job.
// The value is a stale snapshot under concurrent execution.
func (s *System[M]) NumBusyWorkerThreads() int {
	n := 0
	for _, w := range s.loadWorkers() {
		if w.busy.Load() {
			n++
		}
	}
	return n
}

// QueueLength returns the approximate number of jobs waiting for a worker.
func (s *System[M]) QueueLength() int { return s.queue.Len() }

func (s *System[M]) loadWorkers() []*worker {
	if p := s.workers.Load(); p != nil {
		return *p
	}
	return nil
}

// execute runs a claimed job and settles its bookkeeping.
func (s *System[M]) execute(j *Job) {
	res, err := j.run()

	s.metrics.IncExecuted()
	if res == ResultFailure {
		s.metrics.IncFailed()
	}
	if err != nil {
		lg.FromContext(j.context(s.opts.Ctx)).Error("job failed",
			lg.String("job_id", j.ID().String()),
			lg.Any("error", err),
		)
		s.reportJobError(fmt.Errorf("job %s: %w", j.ID(), err))
	}
	s.outstanding.Add(-1)
}
