package queue

import (
	"errors"
	"fmt"
	"os"
	"time"

	// Packages
	uuid "github.com/google/uuid"
	server "github.com/mutablelogic/go-server"
	logger "github.com/mutablelogic/go-server/pkg/logger"
	types "github.com/mutablelogic/go-server/pkg/types"
	schema "github.com/onelson/fizzbuzz-scheduler/pkg/queue/schema"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Opt is a functional option for the manager, the task loop and the
// worker pool.
type Opt func(*opts) error

type opts struct {
	schema     string
	tracer     trace.Tracer
	log        server.Logger
	name       string
	workers    int
	period     time.Duration
	timeout    time.Duration
	maxBackoff time.Duration
}

////////////////////////////////////////////////////////////////////////////////
// ERRORS

var (
	ErrInvalidWorkers = errors.New("workers must be >= 1")
	ErrInvalidPeriod  = errors.New("period must be >= 1ms")
	ErrInvalidSchema  = errors.New("invalid schema name")
)

////////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithSchema sets the PostgreSQL schema which holds the tasks table.
// Defaults to "public".
func WithSchema(name string) Opt {
	return func(o *opts) error {
		if name == "" {
			return nil
		} else if !types.IsIdentifier(name) {
			return fmt.Errorf("%w: %q", ErrInvalidSchema, name)
		}
		o.schema = name
		return nil
	}
}

// WithTracer sets the tracer used for claim and cleanup spans
func WithTracer(tracer trace.Tracer) Opt {
	return func(o *opts) error {
		o.tracer = tracer
		return nil
	}
}

// WithLogger sets the logger for the task loop and cleanup
func WithLogger(log server.Logger) Opt {
	return func(o *opts) error {
		if log != nil {
			o.log = log
		}
		return nil
	}
}

// WithWorkerName sets the worker name used in logs. Defaults to the
// hostname with a random suffix.
func WithWorkerName(name string) Opt {
	return func(o *opts) error {
		if name != "" {
			o.name = name
		}
		return nil
	}
}

// WithWorkers sets the number of concurrent task loops in a worker pool.
// Returns ErrInvalidWorkers if n < 1.
func WithWorkers(n int) Opt {
	return func(o *opts) error {
		if n < 1 {
			return ErrInvalidWorkers
		}
		o.workers = n
		return nil
	}
}

// WithPeriod sets how long a task loop sleeps when there is no work.
// Returns ErrInvalidPeriod if d < 1ms.
func WithPeriod(d time.Duration) Opt {
	return func(o *opts) error {
		if d < time.Millisecond {
			return ErrInvalidPeriod
		}
		o.period = d
		return nil
	}
}

// WithTaskTimeout sets a deadline for each task execution. When it is
// exceeded the execution is cancelled and the task stays pending.
// Zero means no deadline.
func WithTaskTimeout(d time.Duration) Opt {
	return func(o *opts) error {
		if d < 0 {
			return fmt.Errorf("timeout must be >= 0")
		}
		o.timeout = d
		return nil
	}
}

// WithMaxBackoff caps the retry period when the store is unreachable
func WithMaxBackoff(d time.Duration) Opt {
	return func(o *opts) error {
		if d < time.Millisecond {
			return ErrInvalidPeriod
		}
		o.maxBackoff = d
		return nil
	}
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func applyOpts(opt []Opt) (opts, error) {
	// Get hostname
	hostname, err := os.Hostname()
	if err != nil {
		return opts{}, err
	}

	// Set defaults
	o := opts{
		schema:     schema.SchemaName,
		name:       hostname + "-" + uuid.NewString()[:8],
		workers:    1,
		period:     schema.TaskPeriod,
		maxBackoff: schema.MaxBackoff,
	}

	// Apply options
	for _, fn := range opt {
		if err := fn(&o); err != nil {
			return opts{}, err
		}
	}

	// Default logger
	if o.log == nil {
		o.log = logger.New(os.Stderr, logger.Text, false)
	}

	// Return success
	return o, nil
}
