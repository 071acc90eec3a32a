package schema_test

import (
	"encoding/json"
	"testing"
	"time"

	// Packages
	pg "github.com/onelson/fizzbuzz-scheduler"
	schema "github.com/onelson/fizzbuzz-scheduler/pkg/queue/schema"
	assert "github.com/stretchr/testify/assert"
)

func Test_Kind_001(t *testing.T) {
	assert := assert.New(t)
	tests := []struct {
		Name     string
		Kind     schema.TaskKind
		Phrase   string
		Duration time.Duration
	}{
		{"Fizz", schema.Fizz, "Fizz", 3 * time.Second},
		{"Buzz", schema.Buzz, "Buzz", 5 * time.Second},
		{"FizzBuzz", schema.FizzBuzz, "Fizz Buzz", 15 * time.Second},
	}
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			kind, err := schema.ParseTaskKind(test.Name)
			assert.NoError(err)
			assert.Equal(test.Kind, kind)
			assert.Equal(test.Name, kind.String())
			assert.Equal(test.Phrase, kind.Phrase())
			assert.Equal(test.Duration, kind.Duration())
		})
	}
}

func Test_Kind_002(t *testing.T) {
	assert := assert.New(t)

	t.Run("Unknown", func(t *testing.T) {
		_, err := schema.ParseTaskKind("fizz")
		assert.ErrorIs(err, pg.ErrDecode)
		_, err = schema.ParseTaskKind("")
		assert.ErrorIs(err, pg.ErrDecode)
	})

	t.Run("ZeroValue", func(t *testing.T) {
		var kind schema.TaskKind
		assert.False(kind.Valid())
		_, err := kind.MarshalText()
		assert.ErrorIs(err, pg.ErrBadParameter)
	})

	t.Run("JSON", func(t *testing.T) {
		data, err := json.Marshal(schema.FizzBuzz)
		assert.NoError(err)
		assert.Equal(`"FizzBuzz"`, string(data))

		var kind schema.TaskKind
		assert.NoError(json.Unmarshal([]byte(`"Buzz"`), &kind))
		assert.Equal(schema.Buzz, kind)
		assert.Error(json.Unmarshal([]byte(`"Bazz"`), &kind))
	})

	t.Run("All", func(t *testing.T) {
		assert.Equal([]schema.TaskKind{schema.Fizz, schema.Buzz, schema.FizzBuzz}, schema.TaskKinds())
	})
}

func Test_State_001(t *testing.T) {
	assert := assert.New(t)

	t.Run("Parse", func(t *testing.T) {
		state, err := schema.ParseTaskState("Pending")
		assert.NoError(err)
		assert.Equal(schema.Pending, state)
		state, err = schema.ParseTaskState("Completed")
		assert.NoError(err)
		assert.Equal(schema.Completed, state)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := schema.ParseTaskState("Failed")
		assert.ErrorIs(err, pg.ErrDecode)
	})

	t.Run("JSON", func(t *testing.T) {
		data, err := json.Marshal(schema.Completed)
		assert.NoError(err)
		assert.Equal(`"Completed"`, string(data))

		var state schema.TaskState
		assert.NoError(json.Unmarshal([]byte(`"Pending"`), &state))
		assert.Equal(schema.Pending, state)
	})

	t.Run("String", func(t *testing.T) {
		assert.Equal("TaskState(9)", schema.TaskState(9).String())
	})
}
