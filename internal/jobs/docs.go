// Package jobs provides scheduled background tasks for the fulfillment
// dashboard.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to keep the local order store converged with the outside world.
//
// # Available Jobs
//
// 1. SyncJob - periodically runs the reconciliation pass against the
// storefront. A pass still in flight from the previous tick is skipped
// quietly; the engine's single-flight guard makes the overlap harmless.
//
// 2. TrackingPollJob - periodically polls the courier networks for orders
// whose assignment is active but not terminal, feeding the results through
// the regular status event path. Webhooks are the primary signal; polling
// backfills networks that fire them unreliably.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(syncHandler, applyHandler, uowFactory, registry, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
package jobs
