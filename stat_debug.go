//go:build debug

package jobsystem

import (
	"sync/atomic"
)

var (
	pushed  atomic.Int64
	popped  atomic.Int64
	casMiss atomic.Int64
)

// Stats is a process-wide snapshot of ConcurrentQueue activity.
type Stats struct {
	Pushed  int64
	Popped  int64
	CASMiss int64
}

func statPushed()  { pushed.Add(1) }
func statPopped()  { popped.Add(1) }
func statCASMiss() { casMiss.Add(1) }

// SnapshotStats returns the current queue counters.
func SnapshotStats() Stats {
	return Stats{
		Pushed:  pushed.Load(),
		Popped:  popped.Load(),
		CASMiss: casMiss.Load(),
	}
}

func PrintStat() {
	println(
		"pushed / popped / CAS misses :",
		pushed.Load(),
		popped.Load(),
		casMiss.Load(),
	)
}
