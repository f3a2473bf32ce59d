package jobsystem

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
	lg "github.com/Andrej220/go-utils/zlog"
)

// worker is one goroutine locked to its own OS thread.
//
// busy is diagnostic only; scheduling never looks at it.
type worker struct {
	id   int
	busy atomic.Bool
	_    cachePad
	done chan struct{}
}

func newWorker(id int) *worker {
	return &worker{
		id:   id,
		done: make(chan struct{}),
	}
}

// workerLoop pops and runs jobs until the system stops executing.
//
// An empty poll first yields the processor up to Options.IdleSpin
// times, then sleeps with jittered exponential backoff. Finding a job
// resets both. The executing flag is checked between jobs, so a running
// job always completes before the worker exits.
func (s *System[M]) workerLoop(w *worker) {
	defer close(w.done)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if s.opts.PinWorkers {
		cpu := w.id % runtime.NumCPU()
		if err := PinToCPU(cpu); err != nil {
			lg.FromContext(s.opts.Ctx).Warn("worker pinning failed",
				lg.Int("worker", w.id),
				lg.Int("cpu", cpu),
				lg.Any("error", err),
			)
			s.reportInternalError(fmt.Errorf("worker %d: pin to cpu %d: %w", w.id, cpu, err))
		}
	}

	seed := time.Now().UnixNano() + int64(w.id)
	bo := boff.New(s.opts.IdleSleepInitial, s.opts.IdleSleepMax, seed)
	spins, slept := 0, false

	for s.executing.Load() {
		j, ok := s.queue.Pop()
		if !ok {
			if spins < s.opts.IdleSpin {
				spins++
				runtime.Gosched()
				continue
			}
			time.Sleep(bo.Next())
			slept = true
			continue
		}

		spins = 0
		if slept {
			bo = boff.New(s.opts.IdleSleepInitial, s.opts.IdleSleepMax, seed)
			slept = false
		}

		s.metrics.DecQueued()
		w.busy.Store(true)
		s.execute(j)
		w.busy.Store(false)
	}
}
