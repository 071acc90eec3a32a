package test

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	// Packages
	testcontainers "github.com/testcontainers/testcontainers-go"
	wait "github.com/testcontainers/testcontainers-go/wait"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Container is a running docker container
type Container struct {
	testcontainers.Container
	Env map[string]string
}

type opt struct {
	env      map[string]string
	settings map[string]string
}

// Opt sets container options
type Opt func(*opt) error

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	startupTimeout = 2 * time.Minute
	readyLog       = "database system is ready to accept connections"
)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewContainer starts a PostgreSQL image and waits until the server is
// ready. The name is used as a label so containers can be identified.
func NewContainer(ctx context.Context, name, image string, opts ...Opt) (*Container, error) {
	o := opt{
		env:      make(map[string]string),
		settings: make(map[string]string),
	}
	for _, fn := range opts {
		if err := fn(&o); err != nil {
			return nil, err
		}
	}

	// Server settings are passed as -c flags
	cmd := []string{"postgres"}
	for _, key := range slices.Sorted(maps.Keys(o.settings)) {
		cmd = append(cmd, "-c", key+"="+o.settings[key])
	}

	// The ready message is logged twice, once by the init process
	req := testcontainers.ContainerRequest{
		Image:        image,
		Env:          o.env,
		Cmd:          cmd,
		ExposedPorts: []string{pgxPort},
		Labels:       map[string]string{"test": name},
		WaitingFor:   wait.ForLog(readyLog).WithOccurrence(2).WithStartupTimeout(startupTimeout),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, err
	}

	// Return success
	return &Container{Container: container, Env: o.env}, nil
}

// Close terminates the container
func (c *Container) Close(ctx context.Context) error {
	return c.Terminate(ctx)
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// GetEnv returns an environment variable set on the container. The special
// key POSTGRES_HOST returns the host to connect to.
func (c *Container) GetEnv(ctx context.Context, key string) (string, error) {
	if key == "POSTGRES_HOST" {
		return c.Host(ctx)
	}
	if value, ok := c.Env[key]; ok {
		return value, nil
	}
	return "", fmt.Errorf("environment variable %q not set", key)
}

// GetPort returns the host port mapped to the PostgreSQL port
func (c *Container) GetPort(ctx context.Context) (string, error) {
	port, err := c.MappedPort(ctx, pgxPort)
	if err != nil {
		return "", err
	}
	return port.Port(), nil
}

////////////////////////////////////////////////////////////////////////////////
// OPTIONS

// OptEnv sets an environment variable
func OptEnv(key, value string) Opt {
	return func(o *opt) error {
		o.env[key] = value
		return nil
	}
}

// OptPostgres sets the superuser credentials and the database to create
func OptPostgres(user, password, database string) Opt {
	return func(o *opt) error {
		o.env["POSTGRES_USER"] = user
		o.env["POSTGRES_PASSWORD"] = password
		o.env["POSTGRES_DB"] = database
		return nil
	}
}

// OptPostgresSetting sets a server configuration parameter
func OptPostgresSetting(key, value string) Opt {
	return func(o *opt) error {
		o.settings[key] = value
		return nil
	}
}
