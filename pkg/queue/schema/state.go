package schema

import (
	"fmt"

	// Packages
	pg "github.com/onelson/fizzbuzz-scheduler"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// TaskState is the lifecycle state of a task. A task moves from Pending
// to Completed exactly once.
type TaskState uint8

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	Pending TaskState = iota + 1
	Completed
)

var states = []struct {
	state TaskState
	name  string
}{
	{Pending, "Pending"},
	{Completed, "Completed"},
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// ParseTaskState returns the state for a stored name, or an error wrapping
// pg.ErrDecode
func ParseTaskState(name string) (TaskState, error) {
	for _, s := range states {
		if s.name == name {
			return s.state, nil
		}
	}
	return 0, pg.ErrDecode.Withf("unknown task state %q", name)
}

// TaskStates returns all states in lifecycle order
func TaskStates() []TaskState {
	result := make([]TaskState, 0, len(states))
	for _, s := range states {
		result = append(result, s.state)
	}
	return result
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (s TaskState) String() string {
	for _, v := range states {
		if v.state == s {
			return v.name
		}
	}
	return fmt.Sprintf("TaskState(%d)", uint8(s))
}

func (s TaskState) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, pg.ErrBadParameter.Withf("invalid task state %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *TaskState) UnmarshalText(text []byte) error {
	v, err := ParseTaskState(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (s TaskState) Valid() bool {
	return s == Pending || s == Completed
}
