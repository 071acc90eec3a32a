package httpclient

import (
	"fmt"
	"net/url"

	// Packages
	schema "github.com/onelson/fizzbuzz-scheduler/pkg/queue/schema"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type opt struct {
	url.Values
}

// Opt is an option to set on the client request.
type Opt func(*opt) error

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func applyOpts(opts ...Opt) (*opt, error) {
	o := new(opt)
	o.Values = make(url.Values)
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

////////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithOffsetLimit sets offset and limit query parameters.
func WithOffsetLimit(offset uint64, limit *uint64) Opt {
	return func(o *opt) error {
		if offset > 0 {
			o.Set("offset", fmt.Sprint(offset))
		}
		if limit != nil {
			o.Set("limit", fmt.Sprint(*limit))
		}
		return nil
	}
}

// WithState filters by task state. An empty string does not filter.
func WithState(state string) Opt {
	return func(o *opt) error {
		if state == "" {
			return nil
		}
		v, err := schema.ParseTaskState(state)
		if err != nil {
			return err
		}
		o.Set("state", v.String())
		return nil
	}
}

// WithKind filters by task kind. An empty string does not filter.
func WithKind(kind string) Opt {
	return func(o *opt) error {
		if kind == "" {
			return nil
		}
		v, err := schema.ParseTaskKind(kind)
		if err != nil {
			return err
		}
		o.Set("type", v.String())
		return nil
	}
}
