package test

import (
	"context"
	"errors"
	"fmt"
	"os"

	// Packages
	pg "github.com/onelson/fizzbuzz-scheduler"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	pgxContainer = "postgres:17-alpine"
	pgxPort      = "5432/tcp"
)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewPgxContainer creates a new PostgreSQL container and connection pool.
// When verbose is set and no trace function is given, queries are written
// to stderr.
func NewPgxContainer(ctx context.Context, name string, verbose bool, tracer pg.TraceFn) (*Container, pg.PoolConn, error) {
	container, err := NewContainer(ctx, name, pgxContainer,
		OptPostgres("postgres", "password", name),
		OptPostgresSetting("max_connections", "200"),
	)
	if err != nil {
		return nil, nil, err
	}

	host, err := container.GetEnv(ctx, "POSTGRES_HOST")
	if err != nil {
		return nil, nil, errors.Join(err, container.Close(ctx))
	}
	port, err := container.GetPort(ctx)
	if err != nil {
		return nil, nil, errors.Join(err, container.Close(ctx))
	}

	// Trace queries
	if verbose && tracer == nil {
		tracer = func(ctx context.Context, query string, args any, err error) {
			if err != nil {
				fmt.Fprintln(os.Stderr, "ERROR:", err)
			}
			fmt.Fprintln(os.Stderr, query, args)
		}
	}

	// Create a connection pool
	pool, err := pg.NewPool(ctx,
		pg.WithCredentials("postgres", "password"),
		pg.WithDatabase(name),
		pg.WithHostPort(host, port),
		pg.WithSSLMode("disable"),
		pg.WithTrace(tracer),
	)
	if err != nil {
		return nil, nil, errors.Join(err, container.Close(ctx))
	} else if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, errors.Join(err, container.Close(ctx))
	}

	// Return success
	return container, pool, nil
}
