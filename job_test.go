package jobsystem

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestJob_ZeroValue(t *testing.T) {
	var j Job

	assert.Equal(t, StatusPreparing, j.Status())
	assert.Equal(t, ResultNotDeterminedYet, j.Result())
	assert.Equal(t, uuid.Nil, j.ID())
	assert.False(t, j.hasFunc())
}

func TestJob_NewJobHasID(t *testing.T) {
	a := NewJob(func() Result { return ResultSuccess })
	b := NewJob(func() Result { return ResultSuccess })

	assert.NotEqual(t, uuid.Nil, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.True(t, a.hasFunc())
}

func TestJob_WaitOnPreparingReturnsImmediately(t *testing.T) {
	j := NewJob(func() Result { return ResultSuccess })

	done := make(chan struct{})
	go func() {
		j.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait blocked on a job that was never submitted")
	}
	assert.Equal(t, StatusPreparing, j.Status())
}

func TestJob_ClaimIsExclusive(t *testing.T) {
	j := NewJob(func() Result { return ResultSuccess })

	require.True(t, j.claim())
	assert.Equal(t, StatusSubmitted, j.Status())
	assert.False(t, j.claim(), "second claim must fail while submitted")

	_, err := j.run()
	require.NoError(t, err)

	assert.True(t, j.claim(), "finished job must be claimable again")
	assert.Equal(t, ResultNotDeterminedYet, j.Result(), "resubmission clears the previous result")
}

func TestJob_SetFuncRejectedWhileSubmitted(t *testing.T) {
	calls := 0
	j := NewJob(func() Result {
		calls++
		return ResultSuccess
	})
	require.True(t, j.claim())

	err := j.SetFunc(func() Result { return ResultFailure })
	require.ErrorIs(t, err, ErrJobBusy)

	res, err := j.run()
	require.NoError(t, err)
	assert.Equal(t, ResultSuccess, res, "original function must run")
	assert.Equal(t, 1, calls)

	require.NoError(t, j.SetFunc(func() Result { return ResultFailure }))
	require.True(t, j.claim())
	res, err = j.run()
	require.NoError(t, err)
	assert.Equal(t, ResultFailure, res)
}

func TestJob_RunStoresResultAndFinishes(t *testing.T) {
	j := NewJob(func() Result { return ResultSuccess })
	require.True(t, j.claim())

	res, err := j.run()

	require.NoError(t, err)
	assert.Equal(t, ResultSuccess, res)
	assert.Equal(t, ResultSuccess, j.Result())
	assert.Equal(t, StatusFinished, j.Status())
}

func TestJob_RunRecoversPanic(t *testing.T) {
	j := NewJob(func() Result { panic("boom") })
	require.True(t, j.claim())

	res, err := j.run()

	require.ErrorIs(t, err, ErrJobPanicked)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, ResultFailure, res)
	assert.Equal(t, StatusFinished, j.Status())
}

func TestJob_RunWithoutResultFails(t *testing.T) {
	j := NewJob(func() Result { return ResultNotDeterminedYet })
	require.True(t, j.claim())

	res, err := j.run()

	require.ErrorIs(t, err, ErrNoResult)
	assert.Equal(t, ResultFailure, res)
	assert.Equal(t, ResultFailure, j.Result())
}

func TestJob_RunNilFunc(t *testing.T) {
	var j Job
	require.True(t, j.claim())

	res, err := j.run()

	require.ErrorIs(t, err, ErrNilFunc)
	assert.Equal(t, ResultFailure, res)
	assert.Equal(t, StatusFinished, j.Status())
}

func TestJob_CleanupRunsBeforeFinished(t *testing.T) {
	var statusInCleanup Status
	j := NewJob(func() Result { return ResultSuccess })
	j.Meta = &JobMeta{
		CleanupFunc: func() { statusInCleanup = j.Status() },
	}
	require.True(t, j.claim())

	_, err := j.run()

	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, statusInCleanup)
	assert.Equal(t, StatusFinished, j.Status())
}

func TestJob_PanicsInFuncAndCleanupAreCombined(t *testing.T) {
	j := NewJob(func() Result { panic("job") })
	j.Meta = &JobMeta{
		CleanupFunc: func() { panic("cleanup") },
	}
	require.True(t, j.claim())

	res, err := j.run()

	require.ErrorIs(t, err, ErrJobPanicked)
	assert.Equal(t, ResultFailure, res)
	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "job")
	assert.Contains(t, errs[1].Error(), "cleanup: cleanup")
	assert.Equal(t, StatusFinished, j.Status())
}

func TestJob_WaitContextCanceled(t *testing.T) {
	j := NewJob(func() Result { return ResultSuccess })
	require.True(t, j.claim()) // submitted, never run

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := j.WaitContext(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestJob_WaitContextFinished(t *testing.T) {
	j := NewJob(func() Result { return ResultSuccess })
	require.True(t, j.claim())

	go func() { _, _ = j.run() }()

	require.NoError(t, j.WaitContext(context.Background()))
	assert.Equal(t, ResultSuccess, j.Result())
}

func TestStatusAndResultStrings(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{StatusPreparing.String(), "preparing"},
		{StatusSubmitted.String(), "submitted"},
		{StatusInProgress.String(), "in_progress"},
		{StatusFinished.String(), "finished"},
		{Status(42).String(), "unknown"},
		{ResultNotDeterminedYet.String(), "not_determined_yet"},
		{ResultSuccess.String(), "success"},
		{ResultFailure.String(), "failure"},
		{Result(-1).String(), "unknown"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.got)
	}
}
