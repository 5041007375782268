package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"NewsPublisher/internal/ports"
)

// CronScheduler fires jobs on a standard 5-field cron expression or an @every descriptor.
type CronScheduler struct {
	expr     string
	schedule cron.Schedule
	location *time.Location
	logger   *slog.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler validates expr and binds it to loc (UTC when nil).
func NewCronScheduler(expr string, loc *time.Location, log *slog.Logger) (*CronScheduler, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("parse cron expression %q: %w", expr, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}
	return &CronScheduler{expr: expr, schedule: schedule, location: loc, logger: log}, nil
}

// Start registers job and begins dispatching. A tick still running when the next one is due is skipped.
func (c *CronScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cron != nil {
		return fmt.Errorf("scheduler already started")
	}

	logger := NewCronLogger(c.logger)
	cr := cron.New(
		cron.WithLocation(c.location),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	_, err := cr.AddFunc(c.expr, func() {
		if ctx.Err() != nil {
			return
		}
		job(time.Now().In(c.location))
	})
	if err != nil {
		return fmt.Errorf("register job: %w", err)
	}

	cr.Start()
	c.cron = cr
	c.logger.Info("scheduler started", "cron", c.expr, "timezone", c.location.String(), "next_run", c.Next(time.Now()))
	return nil
}

// Stop halts dispatching and waits for a running job, bounded by ctx.
func (c *CronScheduler) Stop(ctx context.Context) error {
	c.mu.Lock()
	cr := c.cron
	c.cron = nil
	c.mu.Unlock()

	if cr == nil {
		return nil
	}

	done := cr.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for running job: %w", ctx.Err())
	}
}

// Next returns the first activation strictly after the given time.
func (c *CronScheduler) Next(after time.Time) time.Time {
	return c.schedule.Next(after.In(c.location))
}

// CronLogger adapts slog to cron.Logger.
type CronLogger struct {
	logger *slog.Logger
}

var _ cron.Logger = CronLogger{}

// NewCronLogger wraps log.
func NewCronLogger(log *slog.Logger) CronLogger {
	return CronLogger{logger: log}
}

// Info logs routine cron activity at debug, skips included.
func (l CronLogger) Info(msg string, keysAndValues ...interface{}) {
	if msg == "skip" {
		l.logger.Warn("previous tick still running, skipping", keysAndValues...)
		return
	}
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

// Error logs cron failures such as recovered panics.
func (l CronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
