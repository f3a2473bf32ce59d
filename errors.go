package jobsystem

import (
	"errors"
)

var (
	// ErrAlreadyInitialized is returned by Init when the system was
	// initialized before. The second call has no effect.
	ErrAlreadyInitialized = errors.New("jobsystem: already initialized")

	// ErrNotExecuting is returned when a job is submitted to a system
	// that was never initialized or has been shut down.
	ErrNotExecuting = errors.New("jobsystem: system is not executing")

	// ErrJobBusy is returned when a job is submitted, or its function is
	// replaced, while the job is queued or running.
	ErrJobBusy = errors.New("jobsystem: job is submitted or in progress")

	// ErrNilJob is returned when Submit is called with a nil job.
	ErrNilJob = errors.New("jobsystem: job is nil")

	// ErrNilFunc is returned when a submitted Job has no function.
	ErrNilFunc = errors.New("jobsystem: job func is nil")

	// ErrNoResult is recorded when a job function returns
	// ResultNotDeterminedYet. The run is stored as a failure.
	ErrNoResult = errors.New("jobsystem: job func returned no result")

	// ErrJobPanicked wraps the value recovered from a panicking job
	// function or cleanup hook.
	ErrJobPanicked = errors.New("jobsystem: job panicked")

	// ErrPinUnsupported is returned by PinToCPU on platforms without
	// thread affinity support.
	ErrPinUnsupported = errors.New("jobsystem: cpu pinning is not supported on this platform")
)
