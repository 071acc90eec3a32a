package schema

import (
	"fmt"
	"time"

	// Packages
	pg "github.com/onelson/fizzbuzz-scheduler"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// TaskKind is the closed set of task types. The zero value is not a
// valid kind.
type TaskKind uint8

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	Fizz TaskKind = iota + 1
	Buzz
	FizzBuzz
)

// kinds maps each TaskKind to its stored name, the phrase printed when
// it runs, and how long it takes to run
var kinds = []struct {
	kind     TaskKind
	name     string
	phrase   string
	duration time.Duration
}{
	{Fizz, "Fizz", "Fizz", 3 * time.Second},
	{Buzz, "Buzz", "Buzz", 5 * time.Second},
	{FizzBuzz, "FizzBuzz", "Fizz Buzz", 15 * time.Second},
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// ParseTaskKind returns the kind for a stored name, or an error wrapping
// pg.ErrDecode. Names are case-sensitive.
func ParseTaskKind(name string) (TaskKind, error) {
	for _, k := range kinds {
		if k.name == name {
			return k.kind, nil
		}
	}
	return 0, pg.ErrDecode.Withf("unknown task type %q", name)
}

// TaskKinds returns all kinds in declaration order
func TaskKinds() []TaskKind {
	result := make([]TaskKind, 0, len(kinds))
	for _, k := range kinds {
		result = append(result, k.kind)
	}
	return result
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (k TaskKind) String() string {
	for _, v := range kinds {
		if v.kind == k {
			return v.name
		}
	}
	return fmt.Sprintf("TaskKind(%d)", uint8(k))
}

func (k TaskKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, pg.ErrBadParameter.Withf("invalid task type %d", uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *TaskKind) UnmarshalText(text []byte) error {
	v, err := ParseTaskKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Valid returns true for Fizz, Buzz and FizzBuzz
func (k TaskKind) Valid() bool {
	return k >= Fizz && k <= FizzBuzz
}

// Duration returns how long a task of this kind takes to run
func (k TaskKind) Duration() time.Duration {
	for _, v := range kinds {
		if v.kind == k {
			return v.duration
		}
	}
	return 0
}

// Phrase returns the output written when a task of this kind runs
func (k TaskKind) Phrase() string {
	for _, v := range kinds {
		if v.kind == k {
			return v.phrase
		}
	}
	return ""
}
