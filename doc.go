// Package jobsystem provides a fixed-size worker pool that runs
// asynchronous jobs submitted from any goroutine.
//
// Design goals
//
// The package guarantees only a small contract:
//
//   - A submitted job runs exactly once per submission
//   - Jobs run in an unspecified order relative to each other
//   - Callers can block until one job, or all jobs, have finished
//
// There are no dependency graphs, no priorities, no work stealing and
// no cancellation of jobs that are already queued or running.
//
// Architecture overview
//
// The system is composed of three loosely coupled layers:
//
//  1. Job
//     A reusable value holding a function, an atomic lifecycle status
//     and an atomic result. The caller owns the Job and keeps it alive
//     while it is queued or running.
//
//  2. Hand-off (schedQueue)
//     A multi-producer, multi-consumer FIFO shared by all workers.
//     The default is ConcurrentQueue, a lock-free Michael–Scott queue.
//     A mutex-guarded ring buffer can be selected with Options.QT.
//
//  3. Execution (System / workers)
//     Each worker is a goroutine locked to its own OS thread. It pops
//     a job, runs it outside any lock, records the result and marks
//     the job finished.
//
// Job lifecycle
//
//	Preparing → Submitted → InProgress → Finished
//
// Submit moves a preparing or finished job to Submitted; a job that is
// already submitted or running is rejected, never queued twice. The
// worker stores the result strictly before the status becomes Finished,
// so a goroutine that observes Finished also observes the result.
//
// Waiting
//
// Job.Wait and System.WaitForAllJobs busy-wait, yielding the processor
// with runtime.Gosched between checks. They have no timeout; the
// Context variants stop when their context is done.
//
// Error handling
//
// Nothing in the package is fatal. Invalid calls are logged and return
// a sentinel error, and the requested operation does not happen.
// Panics inside job functions are recovered, recorded as ResultFailure
// and reported through System.OnJobError.
//
// Platforms without threads
//
// On js and wasip1, or with Options.Synchronous, Init starts no workers
// and Submit runs the job inline before returning.
package jobsystem
