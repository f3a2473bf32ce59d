package jobsystem

// reportInternalError reports an internal system error.
//
// Internal errors are failures that are not caused by a job, such as
// a worker that could not be pinned to its CPU.
// If no handler is registered, the error is only logged.
func (s *System[M]) reportInternalError(e error) {
	if s.OnInternalError != nil {
		s.OnInternalError(e)
	}
}

// reportJobError reports an error produced while running a job:
// a recovered panic, a missing function or a missing result.
//
// Job errors never stop a worker. The job itself records the failure
// in its Result.
func (s *System[M]) reportJobError(err error) {
	if s.OnJobError != nil {
		s.OnJobError(err)
	}
}
