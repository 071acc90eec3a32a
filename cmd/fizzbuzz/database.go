package main

import (
	"context"
	"fmt"

	// Packages
	pg "github.com/onelson/fizzbuzz-scheduler"
	queue "github.com/onelson/fizzbuzz-scheduler/pkg/queue"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// DatabaseOptions are shared by the server and worker commands
type DatabaseOptions struct {
	URL string `arg:"" name:"url" env:"DATABASE_URL" help:"Database URL" default:""`

	// Postgres options
	PG struct {
		User     string `name:"user" env:"PG_USER" help:"Database user"`
		Password string `name:"password" env:"PG_PASSWORD" help:"Database password"`
		Schema   string `name:"schema" env:"PG_SCHEMA" help:"Schema which holds the tasks table" default:"public"`
		App      string `name:"application" env:"PG_APPLICATION" help:"Application name reported to the server" default:"fizzbuzz"`
	} `embed:"" prefix:"pg."`
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// connect opens a connection pool and creates the queue manager. The
// caller closes the pool.
func (db *DatabaseOptions) connect(ctx *Globals) (pg.PoolConn, *queue.Manager, error) {
	opts := db.poolOpts()
	if ctx.Debug {
		log := ctx.log
		opts = append(opts, pg.WithTrace(func(ctx context.Context, query string, args any, err error) {
			if err != nil {
				log.Print(ctx, query, " ", args, " ", err)
			} else {
				log.Debug(ctx, query, " ", args)
			}
		}))
	}

	if ctx.tracer != nil {
		opts = append(opts, pg.WithTracer(ctx.tracer))
	}

	// Create a pool connection
	conn, err := pg.NewPool(ctx.ctx, opts...)
	if err != nil {
		return nil, nil, err
	}

	// Ping the database
	if err := conn.Ping(ctx.ctx); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}

	// Create the manager, which creates the schema if needed
	manager, err := queue.New(ctx.ctx, conn, queue.WithSchema(db.PG.Schema), queue.WithLogger(ctx.log), queue.WithTracer(ctx.tracer))
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	// Return success
	return conn, manager, nil
}

// poolOpts returns the connection options from the flags. The search path
// puts the task schema first so that ad-hoc queries resolve against it.
func (db *DatabaseOptions) poolOpts() []pg.Opt {
	opts := []pg.Opt{
		pg.WithURL(db.URL),
		pg.WithApplicationName(db.PG.App),
	}
	if db.PG.User != "" || db.PG.Password != "" {
		opts = append(opts, pg.WithCredentials(db.PG.User, db.PG.Password))
	}
	if db.PG.Schema != "" && db.PG.Schema != "public" {
		opts = append(opts, pg.WithSchemaSearchPath(db.PG.Schema, "public"))
	}
	return opts
}
