package queue

import (
	"context"
	"time"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	server "github.com/mutablelogic/go-server"
	pg "github.com/onelson/fizzbuzz-scheduler"
	cron "github.com/robfig/cron/v3"
	attribute "go.opentelemetry.io/otel/attribute"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// RunCleanup deletes completed tasks older than the retention period on a
// cron schedule (for example "@hourly" or "*/5 * * * *"), until the context
// is cancelled. Errors are logged and do not stop the schedule.
func (manager *Manager) RunCleanup(ctx context.Context, schedule string, retention time.Duration) error {
	if retention <= 0 {
		return pg.ErrBadParameter.With("retention must be positive")
	}
	log := manager.log.With("schedule", schedule)

	// Schedule the cleanup. Runs do not overlap.
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(schedule, func() {
		manager.cleanup(ctx, retention, log)
	}); err != nil {
		return pg.ErrBadParameter.Withf("schedule %q: %v", schedule, err)
	}

	// Run until cancelled, then wait for any running cleanup
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()

	return nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (manager *Manager) cleanup(ctx context.Context, retention time.Duration, log server.Logger) {
	var err error

	// Start the span
	ctx, endspan := otel.StartSpan(manager.tracer, ctx, spanManagerName("cleanup"),
		attribute.String("retention", retention.String()),
	)
	defer func() { endspan(err) }()

	// Delete the tasks
	tasks, err := manager.CleanTasks(ctx, retention)
	if err != nil {
		log.Print(ctx, "cleanup error: ", err)
	} else if len(tasks) > 0 {
		log.Print(ctx, "cleanup removed ", len(tasks), " completed tasks")
	} else {
		log.Debug(ctx, "cleanup removed no tasks")
	}
}
