package jobsystem

import (
	"sync/atomic"
)

// MetricsPolicy defines hooks used by the job system to report
// queueing and execution activity.
//
// Implementations must be safe for concurrent use.
// All methods are expected to be lightweight and non-blocking.
type MetricsPolicy interface {
	// IncQueued is called after a job is pushed to the shared queue.
	IncQueued()

	// DecQueued is called after a worker pops a job.
	DecQueued()

	// IncExecuted is called after every finished run.
	IncExecuted()

	// IncFailed is called after a run that finished with ResultFailure.
	IncFailed()
}

// AtomicMetrics is a lock-free metrics implementation backed by atomics.
//
// Writes are optimized for hot paths.
// Reads are intended for cold-path observation.
type AtomicMetrics struct {
	// queued is the current number of jobs waiting in the queue.
	queued atomic.Int64
	_      cachePad

	// executed is the total number of finished runs.
	executed atomic.Uint64
	_        cachePad

	// failed is the number of runs that finished with ResultFailure.
	failed atomic.Uint64
}

// Queued returns the current number of queued jobs.
func (m *AtomicMetrics) Queued() int64 { return m.queued.Load() }

// Executed returns the total number of finished runs.
func (m *AtomicMetrics) Executed() uint64 { return m.executed.Load() }

// Failed returns the number of failed runs.
func (m *AtomicMetrics) Failed() uint64 { return m.failed.Load() }

func (m *AtomicMetrics) IncQueued()   { m.queued.Add(1) }
func (m *AtomicMetrics) DecQueued()   { m.queued.Add(-1) }
func (m *AtomicMetrics) IncExecuted() { m.executed.Add(1) }
func (m *AtomicMetrics) IncFailed()   { m.failed.Add(1) }

//------------- NoopMetrics ----------------------------------

// NoopMetrics is a MetricsPolicy implementation that discards
// all metric updates.
type NoopMetrics struct{}

func (m *NoopMetrics) IncQueued()   {}
func (m *NoopMetrics) DecQueued()   {}
func (m *NoopMetrics) IncExecuted() {}
func (m *NoopMetrics) IncFailed()   {}
