// Command jobsdemo starts a job system, squares a range of numbers on
// the worker pool and shuts the system down again.
package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	lg "github.com/Andrej220/go-utils/zlog"

	js "github.com/Andrej220/go-utils/jobsystem"
)

const numJobs = 100

func main() {
	ctx := context.Background()
	logger := lg.FromContext(ctx)

	sys := js.NewFromOptions[*js.AtomicMetrics](&js.AtomicMetrics{}, js.Options{Ctx: ctx})
	sys.OnJobError = func(err error) {
		logger.Error("job error", lg.Any("error", err))
	}
	if err := sys.Init(); err != nil {
		logger.Error("init failed", lg.Any("error", err))
		os.Exit(1)
	}
	defer sys.Deinit()

	var squares [numJobs]atomic.Int64
	jobs := make([]*js.Job, numJobs)
	for i := range numJobs {
		jobs[i] = js.NewJob(func() js.Result {
			squares[i].Store(int64(i * i))
			return js.ResultSuccess
		})
		if err := sys.Submit(jobs[i]); err != nil {
			logger.Error("submit failed", lg.Int("job", i), lg.Any("error", err))
		}
	}

	logger.Info("jobs submitted",
		lg.Int("jobs", numJobs),
		lg.Int("workers", sys.NumWorkerThreads()),
		lg.Int("busy", sys.NumBusyWorkerThreads()),
	)

	sys.WaitForAllJobs()

	var total int64
	for i := range squares {
		total += squares[i].Load()
	}

	m := sys.Metrics()
	fmt.Printf("sum of squares 0..%d = %d (executed %d, failed %d)\n",
		numJobs-1, total, m.Executed(), m.Failed())
}
