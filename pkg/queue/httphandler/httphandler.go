package httphandler

import (
	"context"
	"errors"
	"net/http"

	// Packages
	server "github.com/mutablelogic/go-server"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	types "github.com/mutablelogic/go-server/pkg/types"
	pg "github.com/onelson/fizzbuzz-scheduler"
	schema "github.com/onelson/fizzbuzz-scheduler/pkg/queue/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// TaskStore is the part of the queue manager served over HTTP
type TaskStore interface {
	CreateTask(context.Context, schema.TaskMeta) (*schema.Task, error)
	GetTask(context.Context, uint64) (*schema.Task, error)
	ListTasks(context.Context, schema.TaskListRequest) (*schema.TaskList, error)
	DeleteTask(context.Context, uint64) (*schema.Task, error)
	Backlog(context.Context) (uint64, error)
	ListTaskStatus(context.Context) ([]schema.TaskStatus, error)
}

// HTTPMiddlewareFuncs wrap each handler, the first being outermost
type HTTPMiddlewareFuncs []func(http.HandlerFunc) http.HandlerFunc

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// RegisterHandlers registers the task and metrics handlers on the provided
// router with the given path prefix. The store must be non-nil.
func RegisterHandlers(router *http.ServeMux, prefix string, store TaskStore, middleware HTTPMiddlewareFuncs) {
	RegisterTaskHandlers(router, prefix, store, middleware)
	RegisterMetricsHandler(router, prefix, store, middleware)
}

// Wrap applies the middleware to a handler
func (m HTTPMiddlewareFuncs) Wrap(fn http.HandlerFunc) http.HandlerFunc {
	for i := len(m) - 1; i >= 0; i-- {
		fn = m[i](fn)
	}
	return fn
}

// WithLogger returns middleware which logs each request method and path,
// and the request at debug level
func WithLogger(log server.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			log.Debug(r.Context(), r.Method, " ", r.URL.String())
			next(w, r)
		}
	}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func joinPath(prefix, path string) string {
	return types.JoinPath(prefix, path)
}

// httperr converts pg errors to HTTP errors. An error which is
// already an httpresponse.Err is returned unchanged. A decode error
// here comes from a stored row, so it is an internal error.
func httperr(err error) error {
	if err == nil {
		return nil
	}

	// If already an HTTP error, return as-is
	var httpErr httpresponse.Err
	if errors.As(err, &httpErr) {
		return err
	}

	// Map pg errors to HTTP errors
	switch {
	case errors.Is(err, pg.ErrNotFound):
		return httpresponse.ErrNotFound.With(err.Error())
	case errors.Is(err, pg.ErrBadParameter):
		return httpresponse.ErrBadRequest.With(err.Error())
	case errors.Is(err, pg.ErrConstraint):
		return httpresponse.Err(http.StatusConflict).With(err.Error())
	case errors.Is(err, pg.ErrConnectivity):
		return httpresponse.Err(http.StatusServiceUnavailable).With(err.Error())
	case errors.Is(err, pg.ErrNotImplemented):
		return httpresponse.ErrNotImplemented.With(err.Error())
	default:
		return httpresponse.ErrInternalError.With(err.Error())
	}
}
