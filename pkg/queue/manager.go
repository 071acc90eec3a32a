package queue

import (
	"context"
	"strings"

	// Packages
	pg "github.com/onelson/fizzbuzz-scheduler"
	sql "github.com/onelson/fizzbuzz-scheduler/pkg/queue/sql"
	server "github.com/mutablelogic/go-server"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Manager is the queue store. It is safe for concurrent use by many
// task loops.
type Manager struct {
	schema string
	conn   pg.PoolConn
	tracer trace.Tracer
	log    server.Logger
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a queue manager and initializes the schema, the tasks table
// and its index if they do not exist. Concurrent calls from different
// processes are serialized with an advisory lock.
func New(ctx context.Context, conn pg.PoolConn, opt ...Opt) (*Manager, error) {
	self := new(Manager)

	// Apply options
	o, err := applyOpts(opt)
	if err != nil {
		return nil, err
	} else {
		self.schema = o.schema
		self.tracer = o.tracer
		self.log = o.log
	}

	// Parse query SQL
	queries, err := pg.NewQueries(strings.NewReader(sql.Queries))
	if err != nil {
		return nil, err
	}

	// Parse object SQL
	objects, err := pg.NewQueries(strings.NewReader(sql.Objects))
	if err != nil {
		return nil, err
	}

	// Check and set connection
	if conn == nil {
		return nil, pg.ErrBadParameter.With("connection is nil")
	} else {
		self.conn = conn.WithQueries(queries).With("schema", self.schema).(pg.PoolConn)
	}

	// Create objects in a single transaction, the first statement
	// takes the lock
	if err := self.conn.Tx(ctx, func(conn pg.Conn) error {
		for _, key := range objects.Keys() {
			if err := conn.Exec(ctx, objects.Get(key)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	// Return success
	return self, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Schema returns the PostgreSQL schema which holds the tasks table
func (manager *Manager) Schema() string {
	return manager.schema
}

// Conn returns the connection, with queries and schema bound
func (manager *Manager) Conn() pg.PoolConn {
	return manager.conn
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func spanManagerName(op string) string {
	return "fizzbuzz.manager." + op
}
