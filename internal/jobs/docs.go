// Package jobs provides scheduled background tasks for the tracking service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// LocationSimulationJob stands in for a partner's GPS device. Every interval (3 seconds by
// default) it moves its last sample by a uniformly random step on each axis and hands the
// new sample to a callback, which records it on the order's delivery session.
//
// # Usage
//
// Simulations are managed per order through SimulationManager:
//
//	manager := jobs.NewSimulationManager(updateLocationHandler, getSessionHandler, 3*time.Second, metrics, logger)
//
//	started, err := manager.Start(ctx, orderID)
//	if err != nil {
//		return err
//	}
//
//	// Stop one simulation, or all of them when shutting down
//	manager.Stop(orderID)
//	defer manager.StopAll()
//
// # Scheduling
//
// Jobs use the "@every <interval>" descriptor and skip a tick while the previous one is
// still running. Stop waits for an in-flight tick, after which no sample is emitted.
//
// # Error Handling
//
// A rejected sample is logged and the job keeps its previous position, so the next tick
// retries from there.
package jobs
