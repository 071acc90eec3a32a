package queue

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	// Packages
	logger "github.com/mutablelogic/go-server/pkg/logger"
	pg "github.com/onelson/fizzbuzz-scheduler"
	schema "github.com/onelson/fizzbuzz-scheduler/pkg/queue/schema"
	sql "github.com/onelson/fizzbuzz-scheduler/pkg/queue/sql"
	assert "github.com/stretchr/testify/assert"
)

// unreachable returns a manager whose pool points at a closed port. The
// pool connects lazily, so every query fails with a connectivity error.
func unreachable(t *testing.T) *Manager {
	t.Helper()
	conn, err := pg.NewPool(context.Background(), pg.WithHostPort("127.0.0.1", "1"), pg.WithSSLMode("disable"))
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	t.Cleanup(conn.Close)

	queries, err := pg.NewQueries(strings.NewReader(sql.Queries))
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return &Manager{
		schema: schema.SchemaName,
		conn:   conn.WithQueries(queries).With("schema", schema.SchemaName).(pg.PoolConn),
	}
}

func Test_Run_Unreachable(t *testing.T) {
	assert := assert.New(t)
	manager := unreachable(t)

	t.Run("Classified", func(t *testing.T) {
		_, err := manager.ClaimTask(context.Background(), ExecutorFunc(func(context.Context, *schema.Task) error {
			return nil
		}))
		assert.ErrorIs(err, pg.ErrConnectivity)
	})

	t.Run("BacksOff", func(t *testing.T) {
		var buf bytes.Buffer
		var executed bool
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		start := time.Now()
		err := manager.RunTaskLoop(ctx, ExecutorFunc(func(context.Context, *schema.Task) error {
			executed = true
			return nil
		}),
			WithLogger(logger.New(&buf, logger.Text, false)),
			WithPeriod(20*time.Millisecond),
			WithMaxBackoff(80*time.Millisecond),
		)

		// The loop survives the outage and stops cleanly when cancelled
		assert.NoError(err)
		assert.False(executed)
		assert.GreaterOrEqual(time.Since(start), 500*time.Millisecond)

		// Retries wait 20, 40, 80, 80... so there are a handful, not one
		// every period
		retries := strings.Count(buf.String(), "store unavailable")
		assert.GreaterOrEqual(retries, 3)
		assert.LessOrEqual(retries, 12)
		assert.Contains(buf.String(), "retrying in 20ms")
		assert.Contains(buf.String(), "retrying in 40ms")
		assert.Contains(buf.String(), "retrying in 80ms")
	})
}
