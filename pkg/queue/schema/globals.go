package schema

import (
	"encoding/json"
	"time"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// SchemaName is the default PostgreSQL schema for the tasks table
	SchemaName = "public"

	// TaskListLimit is the maximum number of tasks returned in one page
	TaskListLimit = 1000

	// TaskPeriod is the default worker poll period when there is no work
	TaskPeriod = time.Second

	// MaxBackoff caps the worker retry period when the store is unreachable
	MaxBackoff = 30 * time.Second

	// CleanupSchedule and CleanupRetention are the defaults for removing
	// completed tasks
	CleanupSchedule  = "@hourly"
	CleanupRetention = 24 * time.Hour
)

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func stringify[T any](v T) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(data)
}
