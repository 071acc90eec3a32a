package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	// Packages
	client "github.com/mutablelogic/go-client"
	schema "github.com/onelson/fizzbuzz-scheduler/pkg/queue/schema"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// CreateTask schedules a task (POST /task) and returns its id
func (c *Client) CreateTask(ctx context.Context, kind schema.TaskKind, executionTime time.Time) (uint64, error) {
	req, err := client.NewJSONRequest(schema.TaskMeta{
		Kind:          kind,
		ExecutionTime: executionTime,
	})
	if err != nil {
		return 0, err
	}

	// Perform request
	var response struct {
		Id uint64 `json:"id"`
	}
	if err := c.DoWithContext(ctx, req, &response, client.OptPath("task")); err != nil {
		return 0, err
	}

	// Return the id
	return response.Id, nil
}

// GetTask returns a task (GET /task/{id})
func (c *Client) GetTask(ctx context.Context, id uint64) (*schema.Task, error) {
	var response schema.Task
	if err := c.DoWithContext(ctx, client.NewRequest(), &response, client.OptPath("task", fmt.Sprint(id))); err != nil {
		return nil, err
	}
	return &response, nil
}

// ListTasks returns tasks (GET /task) with optional filters
func (c *Client) ListTasks(ctx context.Context, opts ...Opt) (*schema.TaskList, error) {
	opt, err := applyOpts(opts...)
	if err != nil {
		return nil, err
	}

	// Perform request
	var response schema.TaskList
	if err := c.DoWithContext(ctx, client.NewRequest(), &response, client.OptPath("task"), client.OptQuery(opt.Values)); err != nil {
		return nil, err
	}

	// Return the responses
	return &response, nil
}

// DeleteTask deletes a task (DELETE /task/{id}). Deleting a task which
// does not exist is not an error.
func (c *Client) DeleteTask(ctx context.Context, id uint64) error {
	req := client.NewRequestEx(http.MethodDelete, "")
	return c.DoWithContext(ctx, req, nil, client.OptPath("task", fmt.Sprint(id)))
}
