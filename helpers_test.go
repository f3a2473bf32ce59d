package jobsystem_test

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	js "github.com/Andrej220/go-utils/jobsystem"
)

var queueTypes = []js.QueueType{
	js.LockFreeQueue,
	js.MutexQueue,
}

func newTestOptions(workers int, qt js.QueueType) js.Options {
	return js.Options{
		Workers:          workers,
		QT:               qt,
		IdleSpin:         16,
		IdleSleepInitial: 10 * time.Microsecond,
		IdleSleepMax:     200 * time.Microsecond,
	}
}

// newTestSystem returns an initialized system that is shut down when
// the test ends.
func newTestSystem(t *testing.T, workers int, qt js.QueueType) *js.System[*js.AtomicMetrics] {
	t.Helper()

	s := js.NewFromOptions[*js.AtomicMetrics](&js.AtomicMetrics{}, newTestOptions(workers, qt))
	require.NoError(t, s.Init())
	t.Cleanup(s.Deinit)
	return s
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		runtime.Gosched()
	}
	t.Fatal("condition not satisfied before timeout")
}

// blocker returns a job that parks its worker until release is closed.
func blocker(release <-chan struct{}) *js.Job {
	return js.NewJob(func() js.Result {
		<-release
		return js.ResultSuccess
	})
}

func succeed() js.Result { return js.ResultSuccess }
