package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	pg "github.com/onelson/fizzbuzz-scheduler"
	schema "github.com/onelson/fizzbuzz-scheduler/pkg/queue/schema"
	attribute "go.opentelemetry.io/otel/attribute"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// ERRORS

// ErrTaskFailed is wrapped by the error returned from ClaimTask when the
// executor fails. The task remains pending.
var ErrTaskFailed = errors.New("task failed")

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ClaimTask claims the next ready task and runs the executor on it, all in
// one transaction. Ready tasks are taken in order of execution time then
// id, skipping rows locked by other workers.
//
// It returns nil, nil when no task is ready. When the executor succeeds the
// task is marked as completed and returned. When the executor fails or
// panics the transaction is rolled back, the task remains pending, and the
// error wraps ErrTaskFailed.
func (manager *Manager) ClaimTask(ctx context.Context, executor Executor) (*schema.Task, error) {
	return manager.claimTask(ctx, executor, 0)
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (manager *Manager) claimTask(ctx context.Context, executor Executor, timeout time.Duration) (_ *schema.Task, err error) {
	var task *schema.Task
	var execErr error

	if executor == nil {
		return nil, pg.ErrBadParameter.With("executor is nil")
	}

	// Start the span
	ctx, endspan := otel.StartSpan(manager.tracer, ctx, spanManagerName("claim"))
	defer func() { endspan(err) }()

	txErr := manager.conn.Tx(ctx, func(conn pg.Conn) error {
		var claimed schema.Task
		if err := conn.Get(ctx, &claimed, schema.TaskClaim{}); errors.Is(err, pg.ErrNotFound) {
			return nil
		} else if err != nil {
			return err
		}
		task = &claimed

		// Run the executor with the row locked
		if execErr = runExecutor(ctx, timeout, executor, task); execErr != nil {
			return execErr
		}

		// Mark as completed
		return conn.Update(ctx, task, schema.TaskComplete{Id: task.Id}, nil)
	})
	if execErr != nil {
		return nil, fmt.Errorf("%w: task %d: %w", ErrTaskFailed, task.Id, txErr)
	} else if txErr != nil {
		return nil, txErr
	}

	// Annotate the span
	if task != nil {
		trace.SpanFromContext(ctx).SetAttributes(
			attribute.Int64("task", int64(task.Id)),
			attribute.String("kind", task.Kind.String()),
		)
	}

	// Return the task, or nil if nothing was ready
	return task, nil
}

// runExecutor runs the executor with an optional deadline, and converts
// a panic into an error
func runExecutor(parent context.Context, timeout time.Duration, executor Executor, task *schema.Task) (errs error) {
	ctx, cancel := withTimeout(parent, timeout)
	defer cancel()

	// Catch panics
	defer func() {
		if r := recover(); r != nil {
			errs = errors.Join(errs, fmt.Errorf("panic: %v", r))
		}
	}()

	// Run the executor
	if err := executor.Run(ctx, task); err != nil {
		errs = errors.Join(errs, err)
	}

	// Include context error if not already present
	if ctx.Err() != nil && !errors.Is(errs, ctx.Err()) {
		errs = errors.Join(errs, ctx.Err())
	}

	return errs
}

// withTimeout returns a context with timeout if duration > 0, else returns the parent context.
func withTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d > 0 {
		return context.WithTimeout(parent, d)
	}
	return parent, func() {}
}
