package httphandler

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	// Packages
	httprequest "github.com/mutablelogic/go-server/pkg/httprequest"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	schema "github.com/onelson/fizzbuzz-scheduler/pkg/queue/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// TaskCreateRequest is the body of POST /task. The kind may also be
// given as "type".
type TaskCreateRequest struct {
	Kind          *schema.TaskKind `json:"kind,omitempty"`
	Type          *schema.TaskKind `json:"type,omitempty"`
	ExecutionTime time.Time        `json:"execution_time"`
}

// TaskCreateResponse is the body returned from POST /task
type TaskCreateResponse struct {
	Id uint64 `json:"id"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// RegisterTaskHandlers registers HTTP handlers for task operations
func RegisterTaskHandlers(router *http.ServeMux, prefix string, store TaskStore, middleware HTTPMiddlewareFuncs) {
	if store == nil {
		panic("store is nil")
	}

	// GET /task lists tasks (with optional state/type/offset/limit params)
	// POST /task creates a new task
	router.HandleFunc(joinPath(prefix, "task"), middleware.Wrap(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_ = taskList(w, r, store)
		case http.MethodPost:
			_ = taskCreate(w, r, store)
		default:
			_ = httpresponse.Error(w, httpresponse.Err(http.StatusMethodNotAllowed), r.Method)
		}
	}))

	// GET /task/{id} returns a task
	// DELETE /task/{id} deletes a task, whether or not it exists
	router.HandleFunc(joinPath(prefix, "task/{id}"), middleware.Wrap(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
		if err != nil {
			_ = httpresponse.Error(w, httpresponse.ErrBadRequest.With("invalid task id"), r.PathValue("id"))
			return
		}

		switch r.Method {
		case http.MethodGet:
			_ = taskGet(w, r, store, id)
		case http.MethodDelete:
			_ = taskDelete(w, r, store, id)
		default:
			_ = httpresponse.Error(w, httpresponse.Err(http.StatusMethodNotAllowed), r.Method)
		}
	}))
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func taskList(w http.ResponseWriter, r *http.Request, store TaskStore) error {
	// Parse request
	req, err := taskListRequest(r.URL.Query())
	if err != nil {
		return httpresponse.Error(w, httperr(err))
	}

	// List the tasks
	response, err := store.ListTasks(r.Context(), req)
	if err != nil {
		return httpresponse.Error(w, httperr(err))
	}

	// Return success
	return httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), response)
}

func taskCreate(w http.ResponseWriter, r *http.Request, store TaskStore) error {
	// Parse request
	var req TaskCreateRequest
	if err := httprequest.Read(r, &req); err != nil {
		return httpresponse.Error(w, httpresponse.ErrBadRequest.With(err.Error()))
	}

	// Determine the kind
	meta := schema.TaskMeta{ExecutionTime: req.ExecutionTime}
	switch {
	case req.Kind != nil && req.Type != nil && *req.Kind != *req.Type:
		return httpresponse.Error(w, httpresponse.ErrBadRequest.Withf("kind %q and type %q disagree", *req.Kind, *req.Type))
	case req.Kind != nil:
		meta.Kind = *req.Kind
	case req.Type != nil:
		meta.Kind = *req.Type
	default:
		return httpresponse.Error(w, httpresponse.ErrBadRequest.With("missing kind"))
	}

	// Create the task
	task, err := store.CreateTask(r.Context(), meta)
	if err != nil {
		return httpresponse.Error(w, httperr(err))
	}

	// Return success
	return httpresponse.JSON(w, http.StatusCreated, httprequest.Indent(r), TaskCreateResponse{Id: task.Id})
}

func taskGet(w http.ResponseWriter, r *http.Request, store TaskStore, id uint64) error {
	task, err := store.GetTask(r.Context(), id)
	if err != nil {
		return httpresponse.Error(w, httperr(err))
	} else if task == nil {
		return httpresponse.Error(w, httpresponse.ErrNotFound.Withf("task %d", id))
	}

	// Return success
	return httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), task)
}

func taskDelete(w http.ResponseWriter, r *http.Request, store TaskStore, id uint64) error {
	if _, err := store.DeleteTask(r.Context(), id); err != nil {
		return httpresponse.Error(w, httperr(err))
	}

	// Return success
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// taskListRequest parses the list filters. An unknown state or type is
// a bad request rather than an empty filter.
func taskListRequest(q url.Values) (schema.TaskListRequest, error) {
	var req schema.TaskListRequest
	if v := q.Get("state"); v != "" {
		state, err := schema.ParseTaskState(v)
		if err != nil {
			return req, httpresponse.ErrBadRequest.With(err.Error())
		}
		req.State = &state
	}
	if v := q.Get("type"); v != "" {
		kind, err := schema.ParseTaskKind(v)
		if err != nil {
			return req, httpresponse.ErrBadRequest.With(err.Error())
		}
		req.Kind = &kind
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return req, httpresponse.ErrBadRequest.Withf("offset: %q", v)
		}
		req.Offset = offset
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return req, httpresponse.ErrBadRequest.Withf("limit: %q", v)
		}
		req.Limit = &limit
	}
	return req, nil
}
