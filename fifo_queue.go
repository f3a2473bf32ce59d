package jobsystem

import "sync"

const (
	initialFifoCapacity = 1024
)

// fifoQueue is a growable ring buffer guarded by a single mutex.
//
// The lock is held only for the duration of Push or Pop, never while a
// popped value is being used. Jobs are returned strictly in the order
// they were pushed.
type fifoQueue[T any] struct {
	mu         sync.Mutex
	buf        []T // circular buffer
	head, tail int // read/write indices
	size       int // number of values currently buffered
}

// newFifoQueue creates a FIFO queue with the given initial capacity.
// The buffer doubles whenever a push finds it full.
func newFifoQueue[T any](capacity int) *fifoQueue[T] {
	if capacity <= 0 {
		capacity = initialFifoCapacity
	}
	return &fifoQueue[T]{
		buf: make([]T, capacity),
	}
}

// Len returns the number of values currently waiting in the queue.
func (q *fifoQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Push inserts v at the tail of the queue.
func (q *fifoQueue[T]) Push(v T) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.size == len(q.buf) {
		q.grow()
	}
	q.buf[q.tail] = v
	q.tail++
	if q.tail == len(q.buf) {
		q.tail = 0
	}
	q.size++
}

// Pop removes and returns the oldest value.
//
// If the queue is empty, returns the zero value and false.
func (q *fifoQueue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if q.size == 0 {
		return zero, false
	}
	v := q.buf[q.head]
	q.buf[q.head] = zero
	q.head++
	if q.head == len(q.buf) {
		q.head = 0
	}
	q.size--
	return v, true
}

// grow doubles the buffer and unwraps the contents so head is at 0.
// The caller holds q.mu.
func (q *fifoQueue[T]) grow() {
	nb := make([]T, len(q.buf)*2)
	n := copy(nb, q.buf[q.head:])
	copy(nb[n:], q.buf[:q.head])
	q.buf = nb
	q.head = 0
	q.tail = q.size
}

func (q *fifoQueue[T]) capacity() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf)
}
