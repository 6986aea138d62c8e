package jobs

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// syncSchedule runs the reconciliation pass every five minutes.
const syncSchedule = "*/5 * * * *"

// SyncJob periodically reconciles the order store with the storefront.
type SyncJob struct {
	handler *commands.SyncOrdersCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewSyncJob creates the periodic reconciliation job. The handler must be
// the same instance the HTTP surface uses, so the single-flight guard
// covers both triggers.
func NewSyncJob(handler *commands.SyncOrdersCommandHandler, logger *slog.Logger) *SyncJob {
	return &SyncJob{
		handler: handler,
		cron:    cron.New(),
		logger:  logger.With("component", "sync_job"),
	}
}

// Start begins the reconciliation schedule.
func (j *SyncJob) Start() error {
	_, err := j.cron.AddFunc(syncSchedule, func() {
		ctx := context.Background()

		report, err := j.handler.Handle(ctx, commands.NewSyncOrdersCommand())
		if err != nil {
			// A pass still running from the previous tick is expected, not
			// an incident.
			if errors.Is(err, commands.ErrSyncInProgress) {
				j.logger.InfoContext(ctx, "Sync tick skipped, previous pass still running")
				return
			}
			j.logger.ErrorContext(ctx, "Scheduled sync failed", "error", err)
			return
		}

		if report.Skipped > 0 {
			j.logger.WarnContext(ctx, "Scheduled sync skipped records",
				"synced", report.Synced, "skipped", report.Skipped)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Sync job started", "schedule", syncSchedule)
	return nil
}

// Stop stops the reconciliation schedule.
func (j *SyncJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Sync job stopped")
}
