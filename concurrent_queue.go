package jobsystem

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// cachePad is used to prevent false sharing between hot fields.
type cachePad = cpu.CacheLinePad

// node is one link of a ConcurrentQueue.
//
// The node pointed to by head is always a dummy: its value was either
// never set or has already been handed out by Pop.
type node[T any] struct {
	value T
	next  atomic.Pointer[node[T]]
}

// ConcurrentQueue is an unbounded multi-producer, multi-consumer FIFO
// queue in the Michael–Scott style.
//
// Push and Pop never block. Both are CAS retry loops with no fairness
// between competing goroutines. Pushes that do not race with each other
// are popped in push order.
//
// Removed nodes are not recycled. They become garbage once no goroutine
// holds a reference, so a node is never reused while another goroutine
// may still read it, which rules out ABA on head and tail. The current
// dummy keeps the most recently popped value reachable until the next
// Pop.
//
// The zero value is not ready for use; create queues with
// NewConcurrentQueue.
type ConcurrentQueue[T any] struct {
	head atomic.Pointer[node[T]]
	_    cachePad

	tail atomic.Pointer[node[T]]
	_    cachePad

	// size is approximate: it is raised before a link and lowered after
	// an unlink, so it never under-reports a visible value.
	size atomic.Int64
}

// NewConcurrentQueue returns an empty queue holding a single dummy node.
func NewConcurrentQueue[T any]() *ConcurrentQueue[T] {
	q := &ConcurrentQueue[T]{}
	dummy := &node[T]{}
	q.head.Store(dummy)
	q.tail.Store(dummy)
	return q
}

// Push appends v at the tail of the queue.
//
// The push is complete once the new node is linked after the current
// last node. Advancing tail is best effort; a lagging tail is moved
// forward by whichever goroutine observes it next.
func (q *ConcurrentQueue[T]) Push(v T) {
	n := &node[T]{value: v}
	q.size.Add(1)

	for {
		tail := q.tail.Load()
		next := tail.next.Load()
		if tail != q.tail.Load() {
			continue
		}
		if next != nil {
			// tail is lagging, help it along
			q.tail.CompareAndSwap(tail, next)
			statCASMiss()
			continue
		}
		if tail.next.CompareAndSwap(nil, n) {
			q.tail.CompareAndSwap(tail, n)
			statPushed()
			return
		}
		statCASMiss()
	}
}

// Pop removes and returns the value at the head of the queue.
//
// If the queue is empty it returns the zero value and false, so a
// stored zero value is never confused with an empty queue.
func (q *ConcurrentQueue[T]) Pop() (T, bool) {
	for {
		head := q.head.Load()
		tail := q.tail.Load()
		next := head.next.Load()
		if head != q.head.Load() {
			continue
		}
		if next == nil {
			var zero T
			return zero, false
		}
		if head == tail {
			// a push linked a node but has not advanced tail yet
			q.tail.CompareAndSwap(tail, next)
			statCASMiss()
			continue
		}
		v := next.value
		if q.head.CompareAndSwap(head, next) {
			q.size.Add(-1)
			statPopped()
			return v, true
		}
		statCASMiss()
	}
}

// Empty reports whether the queue held no values at the moment of the
// call.
func (q *ConcurrentQueue[T]) Empty() bool {
	return q.head.Load().next.Load() == nil
}

// Len returns an approximate number of queued values.
func (q *ConcurrentQueue[T]) Len() int {
	n := q.size.Load()
	if n < 0 {
		return 0
	}
	return int(n)
}
