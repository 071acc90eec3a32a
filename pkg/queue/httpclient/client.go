package httpclient

import (
	// Packages
	client "github.com/mutablelogic/go-client"
	pg "github.com/onelson/fizzbuzz-scheduler"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Client is a typed client for the task queue API
type Client struct {
	*client.Client
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a client for the API at url, which includes any path
// prefix (for example http://localhost:8080/api/v1)
func New(url string, opts ...client.ClientOpt) (*Client, error) {
	if url == "" {
		return nil, pg.ErrBadParameter.With("missing endpoint")
	}
	c, err := client.New(append([]client.ClientOpt{client.OptEndpoint(url)}, opts...)...)
	if err != nil {
		return nil, err
	}
	return &Client{c}, nil
}
