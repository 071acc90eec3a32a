/*
Package queue provides a PostgreSQL-backed queue of delayed fizzbuzz tasks.
Any number of workers, in any number of processes, poll the same table and
each ready task is executed exactly once.

# Manager

Create a manager, which creates the tasks table if it does not exist:

	mgr, err := queue.New(ctx, pool, queue.WithSchema("fizzbuzz"))
	if err != nil {
		panic(err)
	}

# Tasks

	// Schedule a task
	task, err := mgr.CreateTask(ctx, schema.TaskMeta{
		Kind:          schema.Buzz,
		ExecutionTime: time.Now().Add(time.Minute),
	})

	// Claim and execute the next ready task, if any
	task, err := mgr.ClaimTask(ctx, &queue.FizzBuzz{})

A task is claimed with SELECT ... FOR UPDATE SKIP LOCKED and marked
Completed in the same transaction, after the executor returns. When the
executor fails, panics or times out the transaction is rolled back and
the task stays Pending.

# WorkerPool

	pool, err := queue.NewWorkerPool(mgr, &queue.FizzBuzz{}, queue.WithWorkers(4))

	// Run blocks until context is cancelled
	err = pool.Run(ctx)

Completed tasks are removed on a cron schedule with RunCleanup.

# Subpackages

  - schema: Data types, request/response structures, and SQL generation
  - httphandler: REST API handlers and metrics
  - httpclient: Typed Go client for the REST API
*/
package queue
