package jobs

import (
	"fmt"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	syncJob         *SyncJob
	trackingPollJob *TrackingPollJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	syncHandler *commands.SyncOrdersCommandHandler,
	applyHandler commands.ApplyCourierEventCommandHandler,
	uowFactory ports.UnitOfWorkFactory,
	adapters ports.CourierAdapterRegistry,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		syncJob:         NewSyncJob(syncHandler, logger),
		trackingPollJob: NewTrackingPollJob(applyHandler, uowFactory, adapters, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.syncJob.Start(); err != nil {
		return fmt.Errorf("failed to start sync job: %w", err)
	}

	if err := jm.trackingPollJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.syncJob.Stop()
		return fmt.Errorf("failed to start tracking poll job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.trackingPollJob.Stop()
	jm.syncJob.Stop()
}
