package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	// Packages
	pg "github.com/onelson/fizzbuzz-scheduler"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// WorkerPool runs a number of independent task loops against one manager.
// The loops share nothing but the store.
type WorkerPool struct {
	manager  *Manager
	executor Executor
	opts     opts
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewWorkerPool creates a new worker pool for the given manager and executor.
func NewWorkerPool(manager *Manager, executor Executor, opt ...Opt) (*WorkerPool, error) {
	if manager == nil {
		return nil, pg.ErrBadParameter.With("manager is nil")
	} else if executor == nil {
		return nil, pg.ErrBadParameter.With("executor is nil")
	}

	// Inherit the manager logger unless one is set
	o, err := applyOpts(append([]Opt{WithLogger(manager.log)}, opt...))
	if err != nil {
		return nil, err
	}

	return &WorkerPool{
		manager:  manager,
		executor: executor,
		opts:     o,
	}, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Name returns the worker name, which prefixes the name of each loop
func (wp *WorkerPool) Name() string {
	return wp.opts.name
}

// Workers returns the number of task loops
func (wp *WorkerPool) Workers() int {
	return wp.opts.workers
}

// Run starts all task loops and blocks until the context is cancelled
// and every loop has returned.
func (wp *WorkerPool) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	errs := make([]error, wp.opts.workers)

	for i := range wp.opts.workers {
		o := wp.opts
		if wp.opts.workers > 1 {
			o.name = fmt.Sprintf("%s.%d", wp.opts.name, i+1)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = wp.manager.runTaskLoop(ctx, wp.executor, o)
		}()
	}

	wg.Wait()
	return errors.Join(errs...)
}
