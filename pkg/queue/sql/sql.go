package sql

import (
	_ "embed"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

// Objects creates the schema, the tasks table and its index
//
//go:embed objects.sql
var Objects string

// Queries are the named statements used by the queue manager
//
//go:embed queries.sql
var Queries string
