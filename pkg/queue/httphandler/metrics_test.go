package httphandler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	// Packages
	pg "github.com/onelson/fizzbuzz-scheduler"
	httphandler "github.com/onelson/fizzbuzz-scheduler/pkg/queue/httphandler"
	schema "github.com/onelson/fizzbuzz-scheduler/pkg/queue/schema"
	assert "github.com/stretchr/testify/assert"
)

func Test_Metrics_Handler(t *testing.T) {
	assert := assert.New(t)
	store := newStore()

	// Two ready tasks and one in the future
	for _, meta := range []schema.TaskMeta{
		{Kind: schema.Fizz, ExecutionTime: time.Now().Add(-time.Minute)},
		{Kind: schema.Fizz, ExecutionTime: time.Now().Add(-time.Minute)},
		{Kind: schema.Buzz, ExecutionTime: time.Now().Add(time.Hour)},
	} {
		_, err := store.CreateTask(context.TODO(), meta)
		assert.NoError(err)
	}

	// Create test server
	router := http.NewServeMux()
	httphandler.RegisterHandlers(router, "/api", store, nil)
	server := httptest.NewServer(router)
	defer server.Close()

	t.Run("GetMetrics", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/metrics")
		assert.NoError(err)
		defer resp.Body.Close()

		assert.Equal(http.StatusOK, resp.StatusCode)
		assert.Contains(resp.Header.Get("Content-Type"), "text/plain")

		body, err := io.ReadAll(resp.Body)
		assert.NoError(err)
		bodyStr := string(body)

		assert.Contains(bodyStr, `fizzbuzz_tasks{kind="Fizz",state="Pending"} 2`)
		assert.Contains(bodyStr, `fizzbuzz_tasks{kind="Buzz",state="Pending"} 1`)
		assert.Contains(bodyStr, "fizzbuzz_backlog 2")
	})

	t.Run("MethodNotAllowed", func(t *testing.T) {
		resp, err := http.Post(server.URL+"/api/metrics", "text/plain", nil)
		assert.NoError(err)
		defer resp.Body.Close()
		assert.Equal(http.StatusMethodNotAllowed, resp.StatusCode)
	})

	t.Run("StoreError", func(t *testing.T) {
		store.setErr(pg.ErrConnectivity)
		defer store.setErr(nil)

		resp, err := http.Get(server.URL + "/api/metrics")
		assert.NoError(err)
		defer resp.Body.Close()
		assert.Equal(http.StatusInternalServerError, resp.StatusCode)
	})
}
