package queue

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	// Packages
	schema "github.com/onelson/fizzbuzz-scheduler/pkg/queue/schema"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Executor runs a claimed task. It is called while the task row is locked,
// and returning an error leaves the task pending.
type Executor interface {
	Run(context.Context, *schema.Task) error
}

// ExecutorFunc adapts a function to an Executor
type ExecutorFunc func(context.Context, *schema.Task) error

// FizzBuzz is the example executor. It sleeps for the duration of the task
// kind, then writes the phrase and task id to Out.
type FizzBuzz struct {
	// Out defaults to stdout
	Out io.Writer

	// Scale multiplies the sleep duration when non-zero
	Scale float64
}

var _ Executor = ExecutorFunc(nil)
var _ Executor = (*FizzBuzz)(nil)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (fn ExecutorFunc) Run(ctx context.Context, task *schema.Task) error {
	return fn(ctx, task)
}

func (f *FizzBuzz) Run(ctx context.Context, task *schema.Task) error {
	d := task.Kind.Duration()
	if f.Scale > 0 {
		d = time.Duration(float64(d) * f.Scale)
	}

	// Sleep, or return early if cancelled
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	// Output the result
	out := f.Out
	if out == nil {
		out = os.Stdout
	}
	_, err := fmt.Fprintln(out, task.Kind.Phrase(), task.Id)
	return err
}
