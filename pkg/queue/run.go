package queue

import (
	"context"
	"errors"
	"time"

	// Packages
	backoff "github.com/cenkalti/backoff/v4"
	pg "github.com/onelson/fizzbuzz-scheduler"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// RunTaskLoop claims and executes tasks until the context is cancelled,
// then returns nil. After a task is claimed it tries again immediately,
// and when no task is ready it sleeps for the poll period. When the store
// is unreachable it backs off, doubling the period up to a maximum.
// Executor failures are logged and the loop continues.
func (manager *Manager) RunTaskLoop(ctx context.Context, executor Executor, opt ...Opt) error {
	o, err := applyOpts(append([]Opt{WithLogger(manager.log)}, opt...))
	if err != nil {
		return err
	}
	return manager.runTaskLoop(ctx, executor, o)
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (manager *Manager) runTaskLoop(ctx context.Context, executor Executor, o opts) error {
	if executor == nil {
		return pg.ErrBadParameter.With("executor is nil")
	}
	log := o.log.With("worker", o.name)

	// Report the backlog
	if backlog, err := manager.Backlog(ctx); err != nil {
		log.Print(ctx, "backlog: ", err)
	} else {
		log.Debug(ctx, "backlog size: ", backlog)
	}
	log.Debug(ctx, "polling...")

	// Claim immediately
	retry := newBackoff(o.period, o.maxBackoff)
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}

		task, err := manager.claimTask(ctx, executor, o.timeout)
		switch {
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, pg.ErrConnectivity):
			next := retry.NextBackOff()
			log.Print(ctx, "store unavailable, retrying in ", next, ": ", err)
			timer.Reset(next)
		case err != nil:
			retry.Reset()
			log.Print(ctx, err)
			timer.Reset(o.period)
		case task != nil:
			retry.Reset()
			log.With("task", task.Id).Debug(ctx, "completed ", task.Kind)
			timer.Reset(0)
		default:
			retry.Reset()
			timer.Reset(o.period)
		}
	}
}

// newBackoff returns the retry policy used while the store is unreachable:
// doubling from the poll period up to limit, and never giving up
func newBackoff(period, limit time.Duration) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = period
	b.MaxInterval = max(period, limit)
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}
