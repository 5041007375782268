package usecase

import (
	"context"
	"time"

	"NewsPublisher/internal/ports"
)

// Scheduler wires the cron driver with the pipeline use case.
type Scheduler struct {
	driver     ports.Scheduler
	pipeline   *Pipeline
	runOnStart bool
}

// NewScheduler returns a helper to start/stop recurring ticks.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, runOnStart bool) *Scheduler {
	return &Scheduler{driver: driver, pipeline: pipeline, runOnStart: runOnStart}
}

// Start registers the pipeline with the provided scheduler. With runOnStart one tick
// runs synchronously before the driver takes over.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	if s.runOnStart {
		s.pipeline.RunTick(ctx, time.Now())
	}

	job := func(trigger time.Time) {
		s.pipeline.RunTick(ctx, trigger)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
