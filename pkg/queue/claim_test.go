package queue_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	// Packages
	queue "github.com/onelson/fizzbuzz-scheduler/pkg/queue"
	schema "github.com/onelson/fizzbuzz-scheduler/pkg/queue/schema"
	assert "github.com/stretchr/testify/assert"
	attribute "go.opentelemetry.io/otel/attribute"
	codes "go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	tracetest "go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func noop() queue.Executor {
	return queue.ExecutorFunc(func(context.Context, *schema.Task) error {
		return nil
	})
}

////////////////////////////////////////////////////////////////////////////////
// CLAIM TESTS

func Test_Claim_Empty(t *testing.T) {
	assert := assert.New(t)
	conn := conn.Begin(t)
	defer conn.Close()
	ctx := context.TODO()

	mgr, err := queue.New(ctx, conn, queue.WithSchema("test_claim_empty"))
	assert.NoError(err)

	t.Run("NoTasks", func(t *testing.T) {
		task, err := mgr.ClaimTask(ctx, noop())
		assert.NoError(err)
		assert.Nil(task)
	})

	t.Run("FutureNotClaimed", func(t *testing.T) {
		var called atomic.Bool
		created, err := mgr.CreateTask(ctx, schema.TaskMeta{Kind: schema.Fizz, ExecutionTime: future()})
		assert.NoError(err)

		task, err := mgr.ClaimTask(ctx, queue.ExecutorFunc(func(context.Context, *schema.Task) error {
			called.Store(true)
			return nil
		}))
		assert.NoError(err)
		assert.Nil(task)
		assert.False(called.Load())

		got, err := mgr.GetTask(ctx, created.Id)
		assert.NoError(err)
		assert.Equal(schema.Pending, got.State)
	})

	t.Run("NilExecutor", func(t *testing.T) {
		_, err := mgr.ClaimTask(ctx, nil)
		assert.Error(err)
	})
}

func Test_Claim_Complete(t *testing.T) {
	assert := assert.New(t)
	conn := conn.Begin(t)
	defer conn.Close()
	ctx := context.TODO()

	mgr, err := queue.New(ctx, conn, queue.WithSchema("test_claim_complete"))
	assert.NoError(err)

	created, err := mgr.CreateTask(ctx, schema.TaskMeta{Kind: schema.Buzz, ExecutionTime: past()})
	assert.NoError(err)

	backlog, err := mgr.Backlog(ctx)
	assert.NoError(err)
	assert.Equal(uint64(1), backlog)

	// The executor sees the pending task
	var seen *schema.Task
	task, err := mgr.ClaimTask(ctx, queue.ExecutorFunc(func(_ context.Context, task *schema.Task) error {
		seen = task
		return nil
	}))
	assert.NoError(err)
	if assert.NotNil(task) && assert.NotNil(seen) {
		assert.Equal(created.Id, seen.Id)
		assert.Equal(created.Id, task.Id)
		assert.Equal(schema.Completed, task.State)
		assert.True(task.UpdatedAt.After(created.UpdatedAt))
	}

	// Completed tasks are never claimed again
	task, err = mgr.ClaimTask(ctx, noop())
	assert.NoError(err)
	assert.Nil(task)

	backlog, err = mgr.Backlog(ctx)
	assert.NoError(err)
	assert.Equal(uint64(0), backlog)
}

func Test_Claim_Order(t *testing.T) {
	assert := assert.New(t)
	conn := conn.Begin(t)
	defer conn.Close()
	ctx := context.TODO()

	mgr, err := queue.New(ctx, conn, queue.WithSchema("test_claim_order"))
	assert.NoError(err)

	now := time.Now()
	a, err := mgr.CreateTask(ctx, schema.TaskMeta{Kind: schema.Fizz, ExecutionTime: now.Add(-10 * time.Second)})
	assert.NoError(err)
	b, err := mgr.CreateTask(ctx, schema.TaskMeta{Kind: schema.Fizz, ExecutionTime: now.Add(-20 * time.Second)})
	assert.NoError(err)
	c, err := mgr.CreateTask(ctx, schema.TaskMeta{Kind: schema.Fizz, ExecutionTime: now.Add(-20 * time.Second)})
	assert.NoError(err)

	// Earliest execution time first, then lowest id
	var order []uint64
	for range 3 {
		task, err := mgr.ClaimTask(ctx, noop())
		assert.NoError(err)
		if assert.NotNil(task) {
			order = append(order, task.Id)
		}
	}
	assert.Equal([]uint64{b.Id, c.Id, a.Id}, order)
}

func Test_Claim_Concurrent(t *testing.T) {
	assert := assert.New(t)
	conn := conn.Begin(t)
	defer conn.Close()
	ctx := context.TODO()

	mgr, err := queue.New(ctx, conn, queue.WithSchema("test_claim_concurrent"))
	assert.NoError(err)

	created, err := mgr.CreateTask(ctx, schema.TaskMeta{Kind: schema.FizzBuzz, ExecutionTime: past()})
	assert.NoError(err)

	// Many workers race for one task, which is executed exactly once
	var executed atomic.Int32
	var claimed atomic.Int32
	executor := queue.ExecutorFunc(func(context.Context, *schema.Task) error {
		executed.Add(1)
		time.Sleep(200 * time.Millisecond)
		return nil
	})

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			task, err := mgr.ClaimTask(ctx, executor)
			assert.NoError(err)
			if task != nil {
				assert.Equal(created.Id, task.Id)
				claimed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(int32(1), executed.Load())
	assert.Equal(int32(1), claimed.Load())
}

func Test_Claim_Skip(t *testing.T) {
	assert := assert.New(t)
	conn := conn.Begin(t)
	defer conn.Close()
	ctx := context.TODO()

	mgr, err := queue.New(ctx, conn, queue.WithSchema("test_claim_skip"))
	assert.NoError(err)

	first, err := mgr.CreateTask(ctx, schema.TaskMeta{Kind: schema.Fizz, ExecutionTime: past().Add(-time.Minute)})
	assert.NoError(err)
	second, err := mgr.CreateTask(ctx, schema.TaskMeta{Kind: schema.Buzz, ExecutionTime: past()})
	assert.NoError(err)

	// While the first task is locked, another claim takes the second task
	locked := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		task, err := mgr.ClaimTask(ctx, queue.ExecutorFunc(func(context.Context, *schema.Task) error {
			close(locked)
			<-release
			return nil
		}))
		assert.NoError(err)
		if assert.NotNil(task) {
			assert.Equal(first.Id, task.Id)
		}
	}()

	<-locked
	task, err := mgr.ClaimTask(ctx, noop())
	assert.NoError(err)
	if assert.NotNil(task) {
		assert.Equal(second.Id, task.Id)
	}
	close(release)
	wg.Wait()
}

func Test_Claim_Rollback(t *testing.T) {
	assert := assert.New(t)
	conn := conn.Begin(t)
	defer conn.Close()
	ctx := context.TODO()

	mgr, err := queue.New(ctx, conn, queue.WithSchema("test_claim_rollback"))
	assert.NoError(err)

	created, err := mgr.CreateTask(ctx, schema.TaskMeta{Kind: schema.Fizz, ExecutionTime: past()})
	assert.NoError(err)

	t.Run("ExecutorError", func(t *testing.T) {
		errExec := errors.New("executor error")
		task, err := mgr.ClaimTask(ctx, queue.ExecutorFunc(func(context.Context, *schema.Task) error {
			return errExec
		}))
		assert.Nil(task)
		assert.ErrorIs(err, queue.ErrTaskFailed)
		assert.ErrorIs(err, errExec)

		got, err := mgr.GetTask(ctx, created.Id)
		assert.NoError(err)
		assert.Equal(schema.Pending, got.State)
		assert.True(created.UpdatedAt.Equal(got.UpdatedAt))
	})

	t.Run("ExecutorPanic", func(t *testing.T) {
		task, err := mgr.ClaimTask(ctx, queue.ExecutorFunc(func(context.Context, *schema.Task) error {
			panic("boom")
		}))
		assert.Nil(task)
		assert.ErrorIs(err, queue.ErrTaskFailed)

		got, err := mgr.GetTask(ctx, created.Id)
		assert.NoError(err)
		assert.Equal(schema.Pending, got.State)
	})

	t.Run("Recovered", func(t *testing.T) {
		task, err := mgr.ClaimTask(ctx, noop())
		assert.NoError(err)
		if assert.NotNil(task) {
			assert.Equal(created.Id, task.Id)
			assert.Equal(schema.Completed, task.State)
		}
	})
}

func Test_Claim_Timeout(t *testing.T) {
	assert := assert.New(t)
	conn := conn.Begin(t)
	defer conn.Close()
	ctx := context.TODO()

	mgr, err := queue.New(ctx, conn, queue.WithSchema("test_claim_timeout"))
	assert.NoError(err)

	created, err := mgr.CreateTask(ctx, schema.TaskMeta{Kind: schema.FizzBuzz, ExecutionTime: past()})
	assert.NoError(err)

	// The loop cancels an execution which overruns, and the task stays
	// pending
	loopCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	var attempts atomic.Int32
	err = mgr.RunTaskLoop(loopCtx, queue.ExecutorFunc(func(ctx context.Context, _ *schema.Task) error {
		attempts.Add(1)
		<-ctx.Done()
		return ctx.Err()
	}), queue.WithTaskTimeout(50*time.Millisecond), queue.WithPeriod(100*time.Millisecond))
	assert.NoError(err)
	assert.GreaterOrEqual(attempts.Load(), int32(1))

	got, err := mgr.GetTask(ctx, created.Id)
	assert.NoError(err)
	assert.Equal(schema.Pending, got.State)
}

func Test_Claim_Traced(t *testing.T) {
	assert := assert.New(t)
	conn := conn.Begin(t)
	defer conn.Close()
	ctx := context.TODO()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer provider.Shutdown(ctx)

	mgr, err := queue.New(ctx, conn, queue.WithSchema("test_claim_traced"), queue.WithTracer(provider.Tracer("test")))
	assert.NoError(err)

	claims := func() []sdktrace.ReadOnlySpan {
		var result []sdktrace.ReadOnlySpan
		for _, span := range recorder.Ended() {
			if span.Name() == "fizzbuzz.manager.claim" {
				result = append(result, span)
			}
		}
		return result
	}

	t.Run("Claimed", func(t *testing.T) {
		created, err := mgr.CreateTask(ctx, schema.TaskMeta{Kind: schema.FizzBuzz, ExecutionTime: past()})
		assert.NoError(err)

		task, err := mgr.ClaimTask(ctx, noop())
		assert.NoError(err)
		assert.NotNil(task)

		spans := claims()
		if assert.Len(spans, 1) {
			attrs := spans[0].Attributes()
			assert.Contains(attrs, attribute.Int64("task", int64(created.Id)))
			assert.Contains(attrs, attribute.String("kind", "FizzBuzz"))
			assert.Equal(codes.Unset, spans[0].Status().Code)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		task, err := mgr.ClaimTask(ctx, noop())
		assert.NoError(err)
		assert.Nil(task)

		spans := claims()
		if assert.Len(spans, 2) {
			for _, attr := range spans[1].Attributes() {
				assert.NotEqual(attribute.Key("task"), attr.Key)
			}
		}
	})

	t.Run("Failed", func(t *testing.T) {
		_, err := mgr.CreateTask(ctx, schema.TaskMeta{Kind: schema.Fizz, ExecutionTime: past()})
		assert.NoError(err)

		_, err = mgr.ClaimTask(ctx, queue.ExecutorFunc(func(context.Context, *schema.Task) error {
			return errors.New("boom")
		}))
		assert.ErrorIs(err, queue.ErrTaskFailed)

		spans := claims()
		if assert.Len(spans, 3) {
			assert.Equal(codes.Error, spans[2].Status().Code)
		}
	})
}
