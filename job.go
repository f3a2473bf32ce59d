package jobsystem

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	lg "github.com/Andrej220/go-utils/zlog"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Status is the lifecycle state of a Job.
//
//	Preparing → Submitted → InProgress → Finished
//	                ↑                        │
//	                └────── resubmit ────────┘
type Status int32

const (
	// StatusPreparing is the state of a job that was never submitted.
	StatusPreparing Status = iota
	// StatusSubmitted means the job is waiting in the shared queue.
	StatusSubmitted
	// StatusInProgress means a worker is running the job function.
	StatusInProgress
	// StatusFinished means the last run completed and Result is final.
	StatusFinished
)

func (s Status) String() string {
	switch s {
	case StatusPreparing:
		return "preparing"
	case StatusSubmitted:
		return "submitted"
	case StatusInProgress:
		return "in_progress"
	case StatusFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Result is the outcome code produced by a job function.
type Result int32

const (
	ResultNotDeterminedYet Result = iota
	ResultSuccess
	ResultFailure
)

func (r Result) String() string {
	switch r {
	case ResultNotDeterminedYet:
		return "not_determined_yet"
	case ResultSuccess:
		return "success"
	case ResultFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// JobFunc is the deferred computation carried by a Job.
type JobFunc func() Result

// JobMeta carries optional per-job settings.
//
// Ctx supplies the logger used for messages about the job.
// CleanupFunc, if set, runs after every execution of the job function,
// before the job is marked finished.
type JobMeta struct {
	Ctx         context.Context
	CleanupFunc func()
}

// Job is a reusable unit of work with an observable lifecycle.
//
// The caller owns the Job and must keep it alive while it is queued or
// running. A Job may be submitted again once it reaches StatusFinished.
// Meta must not be modified while the job is submitted or in progress.
//
// The zero Job is in StatusPreparing and has no function.
type Job struct {
	Meta *JobMeta

	id     uuid.UUID
	status atomic.Int32
	result atomic.Int32
	fn     atomic.Pointer[JobFunc]
}

// NewJob creates a job in StatusPreparing that will run fn.
func NewJob(fn JobFunc) *Job {
	j := &Job{id: uuid.New()}
	j.fn.Store(&fn)
	return j
}

// ID returns the identifier used to correlate log lines for this job.
func (j *Job) ID() uuid.UUID { return j.id }

// Status reports the current lifecycle state.
func (j *Job) Status() Status { return Status(j.status.Load()) }

// Result reports the outcome of the last finished run.
// It is only meaningful once Status returns StatusFinished.
func (j *Job) Result() Result { return Result(j.result.Load()) }

// SetFunc replaces the job function.
//
// The function may only change while the job is preparing or finished.
// Otherwise the call is rejected with ErrJobBusy and the function in
// flight is left untouched.
func (j *Job) SetFunc(fn JobFunc) error {
	switch st := j.Status(); st {
	case StatusPreparing, StatusFinished:
	default:
		lg.FromContext(j.context(nil)).Warn("job function change rejected",
			lg.String("job_id", j.id.String()),
			lg.String("status", st.String()),
		)
		return ErrJobBusy
	}
	j.fn.Store(&fn)
	return nil
}

// Wait spins, yielding the processor, until the job is finished.
//
// A job that was never submitted returns immediately. Wait has no
// timeout: a job left in the queue by a shut down system never finishes,
// so Wait must not be called on it.
func (j *Job) Wait() {
	if j.Status() == StatusPreparing {
		return
	}
	for j.Status() != StatusFinished {
		runtime.Gosched()
	}
}

// WaitContext is Wait bounded by ctx. It returns ctx.Err() if ctx is
// done before the job finishes.
func (j *Job) WaitContext(ctx context.Context) error {
	if j.Status() == StatusPreparing {
		return nil
	}
	for j.Status() != StatusFinished {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		runtime.Gosched()
	}
	return nil
}

func (j *Job) hasFunc() bool {
	fn := j.fn.Load()
	return fn != nil && *fn != nil
}

// claim moves a preparing or finished job to StatusSubmitted.
// Exactly one of several concurrent callers wins.
func (j *Job) claim() bool {
	for {
		st := Status(j.status.Load())
		if st != StatusPreparing && st != StatusFinished {
			return false
		}
		if j.status.CompareAndSwap(int32(st), int32(StatusSubmitted)) {
			j.result.Store(int32(ResultNotDeterminedYet))
			return true
		}
	}
}

// run executes a claimed job on the calling goroutine.
//
// The result is stored before the status flips to finished, so any
// goroutine that observes StatusFinished also observes the result.
// Panics from the function or the cleanup hook are recovered and
// returned as ErrJobPanicked.
func (j *Job) run() (Result, error) {
	j.status.Store(int32(StatusInProgress))

	res, err := j.invoke()
	err = multierr.Append(err, j.cleanup())

	j.result.Store(int32(res))
	j.status.Store(int32(StatusFinished))
	return res, err
}

func (j *Job) invoke() (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = ResultFailure
			err = fmt.Errorf("%w: %v", ErrJobPanicked, r)
		}
	}()

	fn := j.fn.Load()
	if fn == nil || *fn == nil {
		return ResultFailure, ErrNilFunc
	}
	res = (*fn)()
	if res == ResultNotDeterminedYet {
		return ResultFailure, ErrNoResult
	}
	return res, nil
}

func (j *Job) cleanup() (err error) {
	if j.Meta == nil || j.Meta.CleanupFunc == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: cleanup: %v", ErrJobPanicked, r)
		}
	}()
	j.Meta.CleanupFunc()
	return nil
}

// context returns the job's logging context, falling back to def and
// then to context.Background.
func (j *Job) context(def context.Context) context.Context {
	if j.Meta != nil && j.Meta.Ctx != nil {
		return j.Meta.Ctx
	}
	if def != nil {
		return def
	}
	return context.Background()
}
