package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// trackingSchedule polls courier networks every fifteen minutes.
const trackingSchedule = "*/15 * * * *"

// TrackingPollJob polls the courier networks for every order whose
// assignment is active but not terminal and applies the resulting status
// events. Duplicates of what a webhook already delivered are no-ops.
type TrackingPollJob struct {
	applyHandler commands.ApplyCourierEventCommandHandler
	uowFactory   ports.UnitOfWorkFactory
	adapters     ports.CourierAdapterRegistry
	cron         *cron.Cron
	logger       *slog.Logger
}

// NewTrackingPollJob creates the tracking poll job.
func NewTrackingPollJob(
	applyHandler commands.ApplyCourierEventCommandHandler,
	uowFactory ports.UnitOfWorkFactory,
	adapters ports.CourierAdapterRegistry,
	logger *slog.Logger,
) *TrackingPollJob {
	return &TrackingPollJob{
		applyHandler: applyHandler,
		uowFactory:   uowFactory,
		adapters:     adapters,
		cron:         cron.New(),
		logger:       logger.With("component", "tracking_poll_job"),
	}
}

// Start begins the polling schedule.
func (j *TrackingPollJob) Start() error {
	_, err := j.cron.AddFunc(trackingSchedule, func() {
		j.poll(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Tracking poll job started", "schedule", trackingSchedule)
	return nil
}

// Stop stops the polling schedule.
func (j *TrackingPollJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Tracking poll job stopped")
}

// poll walks the active assignments once. One order failing to poll or
// apply never stops the rest of the walk.
func (j *TrackingPollJob) poll(ctx context.Context) {
	orders, err := j.uowFactory.Create().OrderRepository().GetAll(ctx, ports.OrderFilter{})
	if err != nil {
		j.logger.ErrorContext(ctx, "Tracking poll could not list orders", "error", err)
		return
	}

	polled := 0
	for _, o := range orders {
		assignment := o.Courier()
		if !assignment.IsAssigned() || assignment.Status().IsTerminal() {
			continue
		}

		adapter, err := j.adapters.Adapter(assignment.Provider())
		if err != nil {
			j.logger.WarnContext(ctx, "No adapter for assigned provider",
				"order_id", o.ID(), "provider", assignment.Provider().String())
			continue
		}

		event, err := adapter.Track(ctx, assignment.TrackingID())
		if err != nil {
			j.logger.WarnContext(ctx, "Tracking poll failed",
				"order_id", o.ID(), "tracking_id", assignment.TrackingID(), "error", err)
			continue
		}

		command, err := commands.NewApplyCourierEventCommand(o.ID(), event)
		if err != nil {
			j.logger.WarnContext(ctx, "Polled event is invalid", "order_id", o.ID(), "error", err)
			continue
		}

		if err = j.applyHandler.Handle(ctx, command); err != nil {
			j.logger.WarnContext(ctx, "Polled event was rejected", "order_id", o.ID(), "error", err)
			continue
		}
		polled++
	}

	j.logger.InfoContext(ctx, "Tracking poll completed", "updated", polled)
}
