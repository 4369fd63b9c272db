package jobs

import (
	"context"
	"time"

	"disaster-relief/beacon/internal/metrics"
	"disaster-relief/beacon/internal/services"
)

// InitializeJobs starts the background drain job and returns it for manual
// triggering.
func InitializeJobs(
	ctx context.Context,
	syncSvc *services.SyncService,
	connectivity *services.ConnectivityService,
	metricsReg *metrics.MetricsRegistry,
	onDrained func(ctx context.Context),
) *DrainJob {
	drainJob := NewDrainJob(syncSvc, metricsReg, onDrained)

	reconnect := connectivity.Watch(ctx)
	go drainJob.RunScheduled(ctx, 5*time.Minute, reconnect)

	return drainJob
}
