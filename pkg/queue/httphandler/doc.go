/*
Package httphandler serves the task queue over HTTP.

# Task Endpoints

	GET    /task        - List tasks (optional ?state, ?type, ?offset, ?limit)
	POST   /task        - Create a task, returns {"id": N}
	GET    /task/{id}   - Get a task
	DELETE /task/{id}   - Delete a task

# Metrics Endpoint

	GET    /metrics     - Prometheus metrics

# Usage

	manager, _ := queue.New(ctx, conn, queue.WithSchema("fizzbuzz"))
	router := http.NewServeMux()
	httphandler.RegisterHandlers(router, "/api/v1", manager, nil)
*/
package httphandler
