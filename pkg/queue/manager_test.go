package queue_test

import (
	"context"
	"sync"
	"testing"

	// Packages
	pg "github.com/onelson/fizzbuzz-scheduler"
	queue "github.com/onelson/fizzbuzz-scheduler/pkg/queue"
	schema "github.com/onelson/fizzbuzz-scheduler/pkg/queue/schema"
	assert "github.com/stretchr/testify/assert"
)

func Test_Manager_001(t *testing.T) {
	assert := assert.New(t)
	conn := conn.Begin(t)
	defer conn.Close()
	ctx := context.TODO()

	t.Run("New", func(t *testing.T) {
		mgr, err := queue.New(ctx, conn, queue.WithSchema("test_manager"))
		assert.NoError(err)
		assert.NotNil(mgr)
		assert.Equal("test_manager", mgr.Schema())
	})

	t.Run("Idempotent", func(t *testing.T) {
		mgr, err := queue.New(ctx, conn, queue.WithSchema("test_manager"))
		assert.NoError(err)
		task, err := mgr.CreateTask(ctx, schema.TaskMeta{Kind: schema.Fizz, ExecutionTime: past()})
		assert.NoError(err)

		// A second initialization keeps existing rows
		mgr, err = queue.New(ctx, conn, queue.WithSchema("test_manager"))
		assert.NoError(err)
		got, err := mgr.GetTask(ctx, task.Id)
		assert.NoError(err)
		assert.NotNil(got)
	})

	t.Run("Concurrent", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make([]error, 5)
		for i := range errs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = queue.New(ctx, conn, queue.WithSchema("test_manager_concurrent"))
			}()
		}
		wg.Wait()
		for _, err := range errs {
			assert.NoError(err)
		}
	})

	t.Run("DefaultSchema", func(t *testing.T) {
		mgr, err := queue.New(ctx, conn)
		assert.NoError(err)
		assert.Equal(schema.SchemaName, mgr.Schema())
	})

	t.Run("InvalidSchema", func(t *testing.T) {
		_, err := queue.New(ctx, conn, queue.WithSchema("bad schema;"))
		assert.ErrorIs(err, queue.ErrInvalidSchema)
	})

	t.Run("NilConn", func(t *testing.T) {
		_, err := queue.New(ctx, nil)
		assert.ErrorIs(err, pg.ErrBadParameter)
	})
}
