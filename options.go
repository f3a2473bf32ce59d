package jobsystem

import (
	"context"
	"runtime"
	"time"
)

const (
	// maxHardwareThreads caps the hardware concurrency taken into
	// account when sizing the pool.
	maxHardwareThreads = 8

	// reservedThreads is the headroom left for the submitting thread
	// and one more.
	reservedThreads = 2

	defaultIdleSpin         = 64
	defaultIdleSleepInitial = 50 * time.Microsecond
	defaultIdleSleepMax     = time.Millisecond
)

// QueueType selects the shared job queue used by a System.
type QueueType int

const (
	// LockFreeQueue hands jobs over through a ConcurrentQueue.
	LockFreeQueue QueueType = iota

	// MutexQueue hands jobs over through a mutex-guarded ring buffer.
	MutexQueue
)

func (qt QueueType) String() string {
	switch qt {
	case LockFreeQueue:
		return "LockFreeQueue"
	case MutexQueue:
		return "MutexQueue"
	default:
		return "Unknown"
	}
}

// Options configure a System.
//
// All zero values are replaced with defaults in FillDefaults.
type Options struct {
	// Workers overrides the computed worker count when positive.
	Workers int

	// HardwareConcurrency is the number of hardware threads used to
	// compute the worker count. Defaults to runtime.NumCPU().
	HardwareConcurrency int

	QT QueueType

	// IdleSpin is how many empty polls a worker makes, yielding between
	// each, before it starts sleeping.
	IdleSpin int

	// IdleSleepInitial and IdleSleepMax bound the backoff sleeps of an
	// idle worker once spinning is exhausted.
	IdleSleepInitial time.Duration
	IdleSleepMax     time.Duration

	// PinWorkers pins each worker's OS thread to one CPU (Linux only).
	PinWorkers bool

	// Synchronous runs every job inline inside Submit and starts no
	// workers. It is forced on for platforms without OS threads.
	Synchronous bool

	// Ctx carries the logger used by the system.
	Ctx context.Context
}

// FillDefaults replaces zero values with defaults.
func (o *Options) FillDefaults() {
	if o.HardwareConcurrency <= 0 {
		o.HardwareConcurrency = runtime.NumCPU()
	}
	if o.Workers <= 0 {
		o.Workers = WorkerCount(o.HardwareConcurrency)
	}
	if o.IdleSpin <= 0 {
		o.IdleSpin = defaultIdleSpin
	}
	if o.IdleSleepInitial <= 0 {
		o.IdleSleepInitial = defaultIdleSleepInitial
	}
	if o.IdleSleepMax <= 0 {
		o.IdleSleepMax = defaultIdleSleepMax
	}
	if o.IdleSleepMax < o.IdleSleepInitial {
		o.IdleSleepMax = o.IdleSleepInitial
	}
	if !threadsAvailable {
		o.Synchronous = true
	}
	if o.Ctx == nil {
		o.Ctx = context.Background()
	}
}

// WorkerCount returns the pool size for the given hardware concurrency:
// at most maxHardwareThreads are considered, reservedThreads of them are
// left to the rest of the process, and there is always at least one
// worker.
func WorkerCount(hardwareConcurrency int) int {
	n := min(hardwareConcurrency, maxHardwareThreads) - reservedThreads
	return max(n, 1)
}
