package jobsystem

// schedQueue is the shared hand-off between submitters and workers.
//
// Implementations must be safe for concurrent producers and consumers.
// The worker loop only talks to this interface, so the queue discipline
// is chosen once per System and used uniformly by every worker.
type schedQueue[T any] interface {
	// Push appends v to the queue.
	Push(v T)

	// Pop removes and returns the next value. The boolean reports
	// whether a value was available.
	Pop() (T, bool)

	// Len returns the number of queued values. It may be approximate.
	Len() int
}

var (
	_ schedQueue[*Job] = (*ConcurrentQueue[*Job])(nil)
	_ schedQueue[*Job] = (*fifoQueue[*Job])(nil)
)

func (s *System[M]) makeQueue() schedQueue[*Job] {
	switch s.opts.QT {
	case MutexQueue:
		return newFifoQueue[*Job](initialFifoCapacity)
	case LockFreeQueue:
		return NewConcurrentQueue[*Job]()
	default:
		return NewConcurrentQueue[*Job]()
	}
}
