package jobs

import (
	"context"
	"errors"
	"time"

	"disaster-relief/beacon/internal/logging"
	"disaster-relief/beacon/internal/metrics"
	"disaster-relief/beacon/internal/services"
)

// DrainJob drives the sync engine: it drains the local queue on a schedule
// and immediately on network reconnect.
type DrainJob struct {
	syncSvc    *services.SyncService
	metricsReg *metrics.MetricsRegistry

	// onDrained, when set, runs after any pass that moved entries (the
	// agent uses it to refresh the visible history).
	onDrained func(ctx context.Context)
}

func NewDrainJob(syncSvc *services.SyncService, metricsReg *metrics.MetricsRegistry, onDrained func(ctx context.Context)) *DrainJob {
	return &DrainJob{syncSvc: syncSvc, metricsReg: metricsReg, onDrained: onDrained}
}

// Run executes one drain pass. Being offline is not an error here; the
// queue simply waits for the next trigger.
func (j *DrainJob) Run(ctx context.Context) error {
	start := time.Now()

	result, err := j.syncSvc.DrainQueue(ctx)
	if err != nil {
		if errors.Is(err, services.ErrOffline) {
			logging.Debug("Drain skipped, device offline")
			return nil
		}
		return err
	}

	if j.metricsReg != nil {
		j.metricsReg.DrainPassesTotal.Inc()
		j.metricsReg.DrainEntriesTotal.WithLabelValues("synced").Add(float64(result.Synced))
		j.metricsReg.DrainEntriesTotal.WithLabelValues("failed").Add(float64(result.Failed))
		j.metricsReg.DrainDuration.Observe(time.Since(start).Seconds())

		if pending, err := j.syncSvc.PendingCount(ctx); err == nil {
			j.metricsReg.QueuePending.Set(float64(pending))
		}
	}

	if result.Synced > 0 && j.onDrained != nil {
		j.onDrained(ctx)
	}

	return nil
}

// RunScheduled drains on a ticker and on every reconnect event until ctx is
// done. Runs once immediately on start to pick up anything queued before a
// restart.
func (j *DrainJob) RunScheduled(ctx context.Context, interval time.Duration, reconnect <-chan struct{}) {
	log := logging.WithComponent("drain_job")

	if err := j.Run(ctx); err != nil {
		log.Errorw("Error in initial drain", "error", err.Error())
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				log.Errorw("Error in scheduled drain", "error", err.Error())
			}
		case <-reconnect:
			log.Infow("Reconnect detected, draining queue")
			if err := j.Run(ctx); err != nil {
				log.Errorw("Error in reconnect drain", "error", err.Error())
			}
		case <-ctx.Done():
			log.Infow("Shutting down drain job")
			return
		}
	}
}
