package schema

import (
	"time"

	// Packages
	pg "github.com/onelson/fizzbuzz-scheduler"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// TaskBacklog is the number of ready tasks. It is both the reader and
// the selector for the backlog query.
type TaskBacklog uint64

// TaskStatus is the number of tasks with a given state and kind
type TaskStatus struct {
	State TaskState `json:"state"`
	Kind  TaskKind  `json:"type"`
	Count uint64    `json:"count"`
}

type TaskStatusRequest struct{}

type TaskStatusList []TaskStatus

// TaskCleanRequest removes completed tasks last updated before the
// retention period
type TaskCleanRequest struct {
	Retention time.Duration
}

type TaskCleanList []Task

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (s TaskStatus) String() string {
	return stringify(s)
}

////////////////////////////////////////////////////////////////////////////////
// READER

func (b *TaskBacklog) Scan(row pg.Row) error {
	var n uint64
	if err := row.Scan(&n); err != nil {
		return err
	}
	*b = TaskBacklog(n)
	return nil
}

func (l *TaskStatusList) Scan(row pg.Row) error {
	var state, kind string
	var status TaskStatus
	if err := row.Scan(&state, &kind, &status.Count); err != nil {
		return err
	}
	if v, err := ParseTaskState(state); err != nil {
		return err
	} else {
		status.State = v
	}
	if v, err := ParseTaskKind(kind); err != nil {
		return err
	} else {
		status.Kind = v
	}
	*l = append(*l, status)
	return nil
}

func (l *TaskCleanList) Scan(row pg.Row) error {
	var task Task
	if err := task.Scan(row); err != nil {
		return err
	}
	*l = append(*l, task)
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// SELECTOR

func (b TaskBacklog) Select(bind *pg.Bind, op pg.Op) (string, error) {
	switch op {
	case pg.Get:
		return bind.Replace("${fizzbuzz.task_backlog}"), nil
	default:
		return "", pg.ErrNotImplemented.Withf("unsupported TaskBacklog operation %q", op)
	}
}

func (r TaskStatusRequest) Select(bind *pg.Bind, op pg.Op) (string, error) {
	switch op {
	case pg.List:
		return bind.Replace("${fizzbuzz.task_status}"), nil
	default:
		return "", pg.ErrNotImplemented.Withf("unsupported TaskStatusRequest operation %q", op)
	}
}

func (r TaskCleanRequest) Select(bind *pg.Bind, op pg.Op) (string, error) {
	if r.Retention <= 0 {
		return "", pg.ErrBadParameter.With("retention must be positive")
	} else {
		bind.Set("retention", r.Retention)
	}
	switch op {
	case pg.List:
		return bind.Replace("${fizzbuzz.task_clean}"), nil
	default:
		return "", pg.ErrNotImplemented.Withf("unsupported TaskCleanRequest operation %q", op)
	}
}
