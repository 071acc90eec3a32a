package test

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"

	// Packages
	pg "github.com/onelson/fizzbuzz-scheduler"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Conn is a connection pool shared by all tests in a package
type Conn struct {
	pg.PoolConn
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// Main starts a PostgreSQL container, runs the tests and then removes the
// container. When the container cannot be started, for example because
// docker is not available, conn is set to nil and Begin skips each test.
func Main(m *testing.M, conn **Conn) {
	flag.Parse()
	ctx := context.Background()

	container, pool, err := NewPgxContainer(ctx, "test", testing.Verbose(), nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "postgres container unavailable:", err)
		*conn = nil
	} else {
		*conn = &Conn{pool}
	}

	// Run the tests
	code := m.Run()

	// Release resources
	if err == nil {
		pool.Close()
		if err := container.Close(ctx); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	os.Exit(code)
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Begin returns the shared connection for a test, or skips the test when
// there is no database
func (c *Conn) Begin(t *testing.T) *Conn {
	t.Helper()
	if c == nil {
		t.Skip("no database available")
	}
	return c
}

// Close is a no-op: the pool is closed when all tests have run
func (c *Conn) Close() {}
