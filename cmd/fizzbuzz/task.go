package main

import (
	"fmt"
	"os"
	"time"

	// Packages
	httpclient "github.com/onelson/fizzbuzz-scheduler/pkg/queue/httpclient"
	schema "github.com/onelson/fizzbuzz-scheduler/pkg/queue/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type TaskCommands struct {
	Tasks      ListTasksCommand  `cmd:"" name:"tasks" help:"List tasks with optional filters." group:"TASK"`
	Task       GetTaskCommand    `cmd:"" name:"task" help:"Get a task." group:"TASK"`
	CreateTask CreateTaskCommand `cmd:"" name:"create-task" help:"Schedule a task." group:"TASK"`
	DeleteTask DeleteTaskCommand `cmd:"" name:"delete-task" help:"Delete a task." group:"TASK"`
}

type ListTasksCommand struct {
	State  string  `name:"state" help:"Filter by state (Pending, Completed)"`
	Type   string  `name:"type" help:"Filter by type (Fizz, Buzz, FizzBuzz)"`
	Offset uint64  `name:"offset" help:"Pagination offset" default:"0"`
	Limit  *uint64 `name:"limit" help:"Pagination limit"`
}

type GetTaskCommand struct {
	Id uint64 `arg:"" name:"id" help:"Task ID"`
}

type CreateTaskCommand struct {
	Type  string        `arg:"" name:"type" help:"Task type (Fizz, Buzz, FizzBuzz)"`
	At    time.Time     `name:"at" help:"Execution time (RFC3339), defaults to now"`
	Delay time.Duration `name:"delay" help:"Delay added to the execution time" default:"0s"`
}

type DeleteTaskCommand struct {
	Id uint64 `arg:"" name:"id" help:"Task ID"`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ListTasksCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// List tasks
	tasks, err := client.ListTasks(ctx.ctx,
		httpclient.WithState(cmd.State),
		httpclient.WithKind(cmd.Type),
		httpclient.WithOffsetLimit(cmd.Offset, cmd.Limit),
	)
	if err != nil {
		return err
	}

	// Print
	return writeTasks(os.Stdout, tasks, tasks.Body...)
}

func (cmd *GetTaskCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// Get the task
	task, err := client.GetTask(ctx.ctx, cmd.Id)
	if err != nil {
		return err
	}

	// Print
	return writeTasks(os.Stdout, task, *task)
}

func (cmd *CreateTaskCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// Parse the type
	kind, err := schema.ParseTaskKind(cmd.Type)
	if err != nil {
		return err
	}

	// Determine the execution time
	at := cmd.At
	if at.IsZero() {
		at = time.Now()
	}

	// Create the task
	id, err := client.CreateTask(ctx.ctx, kind, at.Add(cmd.Delay))
	if err != nil {
		return err
	}

	// Print
	fmt.Println(id)
	return nil
}

func (cmd *DeleteTaskCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}
	return client.DeleteTask(ctx.ctx, cmd.Id)
}
