package orchestration

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunParallelAllSucceed(t *testing.T) {
	var count atomic.Int32
	tasks := []Task{
		{Name: "a", Func: func(context.Context) error { count.Add(1); return nil }},
		{Name: "b", Func: func(context.Context) error { count.Add(1); return nil }},
		{Name: "c", Func: func(context.Context) error { count.Add(1); return nil }},
	}

	err := RunParallel(context.Background(), tasks, false)

	require.NoError(t, err)
	assert.Equal(t, int32(3), count.Load())
}

func TestRunParallelReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	var ran atomic.Int32
	tasks := []Task{
		{Name: "ok", Func: func(context.Context) error { ran.Add(1); return nil }},
		{Name: "bad", Func: func(context.Context) error { ran.Add(1); return boom }},
	}

	err := RunParallel(context.Background(), tasks, false)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to run bad")
	assert.Equal(t, int32(2), ran.Load(), "all tasks run even when one fails")
}

func TestRunParallelEmpty(t *testing.T) {
	assert.NoError(t, RunParallel(context.Background(), nil, false))
}

func TestRunParallelActuallyConcurrent(t *testing.T) {
	release := make(chan struct{})
	tasks := []Task{
		{Name: "waiter", Func: func(context.Context) error {
			select {
			case <-release:
				return nil
			case <-time.After(2 * time.Second):
				return errors.New("never released")
			}
		}},
		{Name: "releaser", Func: func(context.Context) error {
			close(release)
			return nil
		}},
	}

	require.NoError(t, RunParallel(context.Background(), tasks, false))
}

func TestRunCollectReportsEveryOutcome(t *testing.T) {
	bad := errors.New("nope")
	tasks := []Task{
		{Name: "first", Func: func(context.Context) error { return nil }},
		{Name: "second", Func: func(context.Context) error { return bad }},
		{Name: "third", Func: func(context.Context) error { return nil }},
	}

	results := RunCollect(context.Background(), tasks, false)

	require.Len(t, results, 3)
	assert.Equal(t, "first", results[0].Name)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, "second", results[1].Name)
	assert.ErrorIs(t, results[1].Err, bad)
	assert.Equal(t, "third", results[2].Name)
	assert.NoError(t, results[2].Err)
}

func TestRunCollectEmpty(t *testing.T) {
	assert.Nil(t, RunCollect(context.Background(), nil, false))
}
