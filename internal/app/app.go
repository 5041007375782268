package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"NewsPublisher/internal/config"
	"NewsPublisher/internal/domain"
	"NewsPublisher/internal/infrastructure/feed"
	"NewsPublisher/internal/infrastructure/httpretry"
	"NewsPublisher/internal/infrastructure/scheduler"
	"NewsPublisher/internal/infrastructure/storage"
	"NewsPublisher/internal/infrastructure/telegram"
	"NewsPublisher/internal/infrastructure/wordpress"
	"NewsPublisher/internal/logging"
	"NewsPublisher/internal/ports"
	"NewsPublisher/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	ledger    *storage.MemoryLedger
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
}

// Options overrides collaborators that tests need to control.
type Options struct {
	HTTPTransport http.RoundTripper
	Sampler       ports.Sampler
}

// New builds the application from cfg.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	return NewWithOptions(cfg, baseLogger, Options{})
}

// NewWithOptions is New with injectable collaborators.
func NewWithOptions(cfg config.Config, baseLogger *slog.Logger, opts Options) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	telegram.BridgeLibraryLogger(baseLogger)

	ledger := storage.NewMemoryLedger()

	source := feed.NewReader(cfg.Feeds.URLs, feed.Options{
		Timeout:   cfg.Feeds.Timeout,
		UserAgent: cfg.Feeds.UserAgent,
		Client:    &http.Client{Transport: opts.HTTPTransport},
	}, baseLogger.With("component", "feed"))

	retry := httpretry.NewTransport(opts.HTTPTransport, httpretry.Policy{
		MaxAttempts:    cfg.WordPress.Retry.MaxAttempts,
		InitialBackoff: cfg.WordPress.Retry.InitialBackoff,
		MaxBackoff:     cfg.WordPress.Retry.MaxBackoff,
		Statuses:       cfg.WordPress.Retry.Statuses,
	}, baseLogger.With("component", "httpretry"))

	backend := wordpress.NewClient(wordpress.Config{
		Endpoint:            cfg.WordPress.Endpoint,
		Username:            cfg.WordPress.Username,
		ApplicationPassword: cfg.WordPress.ApplicationPassword,
		Timeout:             cfg.WordPress.Timeout,
	}, retry)

	notifier := telegram.NewNotifier(telegram.Config{
		BotToken:      cfg.Telegram.BotToken,
		ChatID:        cfg.Telegram.ChatID,
		APIEndpoint:   cfg.Telegram.APIEndpoint,
		Timeout:       cfg.Telegram.Timeout,
		ExcerptLength: cfg.Telegram.ExcerptLength,
	}, baseLogger.With("component", "telegram"))

	publisher := usecase.NewPublisher(usecase.PublisherDeps{
		Backend:    backend,
		Ledger:     ledger,
		Notifier:   notifier,
		Categories: cfg.WordPress.Categories,
		Status:     cfg.WordPress.Status,
		Logger:     baseLogger.With("component", "publisher"),
	})

	deps := usecase.PipelineDeps{
		Source:     source,
		Ledger:     ledger,
		Publisher:  publisher,
		MaxPerTick: cfg.Pipeline.MaxPerTick,
		Category:   cfg.Pipeline.Category,
		Logger:     baseLogger.With("component", "pipeline"),
	}
	if opts.Sampler != nil {
		deps.Sampler = opts.Sampler
	}
	pipeline := usecase.NewPipeline(deps)

	driver, err := scheduler.NewCronScheduler(cfg.Scheduler.CronExpression, cfg.Scheduler.Location(), baseLogger.With("component", "scheduler"))
	if err != nil {
		return nil, fmt.Errorf("build scheduler: %w", err)
	}

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		ledger:    ledger,
		pipeline:  pipeline,
		scheduler: usecase.NewScheduler(driver, pipeline, cfg.Scheduler.RunOnStart),
	}, nil
}

// Run starts the scheduler and blocks until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if !a.cfg.WordPress.HasCredentials() {
		a.logger.Warn("wordpress credentials are not set, posts will be rejected")
	}
	if !a.cfg.Telegram.Enabled() {
		a.logger.Warn("telegram credentials are not set, announcements are disabled")
	}

	a.logger.Info("starting automation scheduler",
		"cron", a.cfg.Scheduler.CronExpression,
		"timezone", a.cfg.Scheduler.Location().String(),
		"feeds", len(a.cfg.Feeds.URLs))

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Scheduler.ShutdownTimeout)
	defer cancel()
	if err := a.scheduler.Stop(stopCtx); err != nil {
		a.logger.Warn("scheduler did not stop cleanly", "error", err)
	}
	a.logger.Info("scheduler stopped", "published_total", a.ledger.Len())
	return nil
}

// Tick runs a single pipeline pass outside the schedule.
func (a *Application) Tick(ctx context.Context) domain.TickReport {
	return a.pipeline.RunTick(ctx, time.Now().In(a.cfg.Scheduler.Location()))
}
