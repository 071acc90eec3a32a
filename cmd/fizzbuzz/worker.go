package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	// Packages
	queue "github.com/onelson/fizzbuzz-scheduler/pkg/queue"
	schema "github.com/onelson/fizzbuzz-scheduler/pkg/queue/schema"
	version "github.com/onelson/fizzbuzz-scheduler/pkg/version"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type WorkerCommands struct {
	RunWorker RunWorker `cmd:"" name:"run-worker" help:"Run workers which execute tasks." group:"WORKER"`
}

type RunWorker struct {
	DatabaseOptions

	Name      string        `name:"name" env:"FIZZBUZZ_WORKER" help:"Worker name (defaults to hostname and a random suffix)"`
	Workers   int           `name:"workers" help:"Number of task loops" default:"1"`
	Period    time.Duration `name:"period" help:"Poll period when no task is ready" default:"1s"`
	Timeout   time.Duration `name:"timeout" help:"Deadline for each task, zero for none" default:"0s"`
	Scale     float64       `name:"scale" help:"Multiply task durations by this factor" default:"1"`
	Cleanup   string        `name:"cleanup" help:"Schedule for removing completed tasks, empty to disable" default:"@hourly"`
	Retention time.Duration `name:"retention" help:"Age at which completed tasks are removed" default:"24h"`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *RunWorker) Run(ctx *Globals) error {
	conn, manager, err := cmd.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Create the worker pool
	opts := []queue.Opt{
		queue.WithWorkers(cmd.Workers),
		queue.WithPeriod(cmd.Period),
		queue.WithTaskTimeout(cmd.Timeout),
		queue.WithMaxBackoff(max(schema.MaxBackoff, cmd.Period)),
	}
	if cmd.Name != "" {
		opts = append(opts, queue.WithWorkerName(cmd.Name))
	}
	pool, err := queue.NewWorkerPool(manager, &queue.FizzBuzz{Scale: cmd.Scale}, opts...)
	if err != nil {
		return err
	}

	// Run the pool and the cleanup concurrently
	var wg sync.WaitGroup
	var result error
	var mu sync.Mutex
	fail := func(prefix string, err error) {
		if err == nil || errors.Is(err, context.Canceled) {
			return
		}
		mu.Lock()
		result = errors.Join(result, fmt.Errorf("%s: %w", prefix, err))
		mu.Unlock()
		ctx.cancel()
	}

	ctx.log.Print(ctx.ctx, version.ExecName(), " ", version.Version())
	ctx.log.Print(ctx.ctx, "starting ", pool.Workers(), " workers as ", pool.Name())

	wg.Add(1)
	go func() {
		defer wg.Done()
		fail("worker error", pool.Run(ctx.ctx))
	}()

	if cmd.Cleanup != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fail("cleanup error", manager.RunCleanup(ctx.ctx, cmd.Cleanup, cmd.Retention))
		}()
	}

	// Wait for both to finish
	wg.Wait()

	// Terminated message
	if result == nil {
		ctx.log.Print(ctx.ctx, version.ExecName(), " terminated")
	}

	// Return any error
	return result
}
