package schema

import (
	"time"

	// Packages
	pg "github.com/onelson/fizzbuzz-scheduler"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type TaskId uint64

// TaskMeta holds the fields a producer supplies
type TaskMeta struct {
	Kind          TaskKind  `json:"kind"`
	ExecutionTime time.Time `json:"execution_time"`
}

type Task struct {
	Id uint64 `json:"id"`
	TaskMeta
	State     TaskState `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskListRequest filters and pages a list of tasks. Nil fields do not
// filter.
type TaskListRequest struct {
	pg.OffsetLimit
	State *TaskState `json:"state,omitempty"`
	Kind  *TaskKind  `json:"type,omitempty"`
}

type TaskList struct {
	TaskListRequest
	Count uint64 `json:"count"`
	Body  []Task `json:"results"`
}

// TaskClaim selects the next ready task, locking its row for the rest of
// the transaction. Rows locked by other transactions are skipped.
type TaskClaim struct{}

// TaskComplete marks a claimed task as completed
type TaskComplete struct {
	Id uint64
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (t Task) String() string {
	return stringify(t)
}

func (t TaskMeta) String() string {
	return stringify(t)
}

func (t TaskList) String() string {
	return stringify(t)
}

func (t TaskListRequest) String() string {
	return stringify(t)
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Ready returns true if the task is pending and its execution time has
// been reached at the given instant
func (t Task) Ready(now time.Time) bool {
	return t.State == Pending && !t.ExecutionTime.After(now)
}

////////////////////////////////////////////////////////////////////////////////
// READER

func (t *Task) Scan(row pg.Row) error {
	var kind, state string
	if err := row.Scan(&t.Id, &kind, &state, &t.ExecutionTime, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return err
	}
	if v, err := ParseTaskKind(kind); err != nil {
		return err
	} else {
		t.Kind = v
	}
	if v, err := ParseTaskState(state); err != nil {
		return err
	} else {
		t.State = v
	}
	return nil
}

// TaskList
func (l *TaskList) Scan(row pg.Row) error {
	var task Task
	if err := task.Scan(row); err != nil {
		return err
	}
	l.Body = append(l.Body, task)
	return nil
}

// TaskListCount
func (l *TaskList) ScanCount(row pg.Row) error {
	return row.Scan(&l.Count)
}

////////////////////////////////////////////////////////////////////////////////
// WRITER

func (t TaskMeta) Insert(bind *pg.Bind) (string, error) {
	if !t.Kind.Valid() {
		return "", pg.ErrBadParameter.With("missing or invalid task type")
	} else {
		bind.Set("type", t.Kind.String())
	}
	if t.ExecutionTime.IsZero() {
		return "", pg.ErrBadParameter.With("missing execution_time")
	} else {
		bind.Set("execution_time", t.ExecutionTime.UTC())
	}
	return bind.Replace("${fizzbuzz.task_insert}"), nil
}

// Update is not supported: the only change to a task is the transition
// to Completed when it is claimed
func (t TaskMeta) Update(bind *pg.Bind) error {
	return pg.ErrNotImplemented.With("tasks cannot be updated")
}

////////////////////////////////////////////////////////////////////////////////
// SELECTOR

func (t TaskId) Select(bind *pg.Bind, op pg.Op) (string, error) {
	bind.Set("id", uint64(t))
	switch op {
	case pg.Get:
		return bind.Replace("${fizzbuzz.task_get}"), nil
	case pg.Delete:
		return bind.Replace("${fizzbuzz.task_delete}"), nil
	default:
		return "", pg.ErrNotImplemented.Withf("unsupported TaskId operation %q", op)
	}
}

func (t TaskComplete) Select(bind *pg.Bind, op pg.Op) (string, error) {
	if t.Id == 0 {
		return "", pg.ErrBadParameter.With("missing task id")
	} else {
		bind.Set("id", t.Id)
	}
	switch op {
	case pg.Update:
		return bind.Replace("${fizzbuzz.task_complete}"), nil
	default:
		return "", pg.ErrNotImplemented.Withf("unsupported TaskComplete operation %q", op)
	}
}

func (t TaskClaim) Select(bind *pg.Bind, op pg.Op) (string, error) {
	switch op {
	case pg.Get:
		return bind.Replace("${fizzbuzz.task_claim}"), nil
	default:
		return "", pg.ErrNotImplemented.Withf("unsupported TaskClaim operation %q", op)
	}
}

// Select builds the WHERE clause from the filters in a fixed order, state
// then type, each bound as a parameter
func (l TaskListRequest) Select(bind *pg.Bind, op pg.Op) (string, error) {
	bind.Del("where")
	if l.State != nil {
		if !l.State.Valid() {
			return "", pg.ErrBadParameter.With("invalid state filter")
		}
		bind.Append("where", `state = `+bind.Set("state", l.State.String()))
	}
	if l.Kind != nil {
		if !l.Kind.Valid() {
			return "", pg.ErrBadParameter.With("invalid type filter")
		}
		bind.Append("where", `type = `+bind.Set("type", l.Kind.String()))
	}
	if where := bind.Join("where", " AND "); where == "" {
		bind.Set("where", "")
	} else {
		bind.Set("where", "WHERE "+where)
	}

	// Offset and limit
	l.OffsetLimit.Bind(bind, TaskListLimit)

	switch op {
	case pg.List:
		return bind.Replace("${fizzbuzz.task_list}"), nil
	default:
		return "", pg.ErrNotImplemented.Withf("unsupported TaskListRequest operation %q", op)
	}
}
