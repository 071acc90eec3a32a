package queue

import (
	"context"
	"errors"
	"time"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
	pg "github.com/onelson/fizzbuzz-scheduler"
	schema "github.com/onelson/fizzbuzz-scheduler/pkg/queue/schema"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - TASK

// CreateTask inserts a pending task and returns it with its assigned id
func (manager *Manager) CreateTask(ctx context.Context, meta schema.TaskMeta) (*schema.Task, error) {
	var task schema.Task
	if err := manager.conn.Insert(ctx, &task, meta); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTask returns a task by id, or nil if it does not exist
func (manager *Manager) GetTask(ctx context.Context, id uint64) (*schema.Task, error) {
	var task schema.Task
	if err := manager.conn.Get(ctx, &task, schema.TaskId(id)); errors.Is(err, pg.ErrNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasks returns tasks ordered by id, with optional filtering and
// pagination. Count is the number of tasks matching the filter.
func (manager *Manager) ListTasks(ctx context.Context, req schema.TaskListRequest) (*schema.TaskList, error) {
	list := schema.TaskList{TaskListRequest: req}
	if err := manager.conn.List(ctx, &list, req); err != nil {
		return nil, err
	}
	if list.Limit != nil && *list.Limit > schema.TaskListLimit {
		list.Limit = types.Uint64Ptr(schema.TaskListLimit)
	}
	if list.Body == nil {
		list.Body = []schema.Task{}
	}
	return &list, nil
}

// DeleteTask removes a task and returns it. Deleting a task which does not
// exist is not an error, and returns nil.
func (manager *Manager) DeleteTask(ctx context.Context, id uint64) (*schema.Task, error) {
	var task schema.Task
	if err := manager.conn.Delete(ctx, &task, schema.TaskId(id)); errors.Is(err, pg.ErrNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return &task, nil
}

// Backlog returns the number of tasks which are ready to be claimed
func (manager *Manager) Backlog(ctx context.Context) (uint64, error) {
	var backlog schema.TaskBacklog
	if err := manager.conn.Get(ctx, &backlog, backlog); err != nil {
		return 0, err
	}
	return uint64(backlog), nil
}

// ListTaskStatus returns the number of tasks for each state and kind
// which has at least one task
func (manager *Manager) ListTaskStatus(ctx context.Context) ([]schema.TaskStatus, error) {
	var list schema.TaskStatusList
	if err := manager.conn.List(ctx, &list, schema.TaskStatusRequest{}); err != nil {
		return nil, err
	}
	return list, nil
}

// CleanTasks deletes completed tasks last updated longer ago than the
// retention period, and returns them
func (manager *Manager) CleanTasks(ctx context.Context, retention time.Duration) ([]schema.Task, error) {
	var list schema.TaskCleanList
	if err := manager.conn.List(ctx, &list, schema.TaskCleanRequest{Retention: retention}); err != nil {
		return nil, err
	}
	return list, nil
}
