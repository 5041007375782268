package usecase

import (
	"context"
	"testing"
	"time"

	"NewsPublisher/internal/infrastructure/storage"
)

type manualDriver struct {
	job     func(time.Time)
	stopped bool
}

func (d *manualDriver) Start(_ context.Context, job func(time.Time)) error {
	d.job = job
	return nil
}

func (d *manualDriver) Stop(context.Context) error {
	d.stopped = true
	return nil
}

func TestSchedulerRunsPipelineOnTrigger(t *testing.T) {
	t.Parallel()

	source := &staticSource{articles: makeArticles(1)}
	backend := &fakeBackend{}
	pipeline := newTestPipeline(source, backend, &fakeNotifier{}, storage.NewMemoryLedger())

	driver := &manualDriver{}
	sched := NewScheduler(driver, pipeline, false)
	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if source.calls != 0 {
		t.Fatalf("no tick expected before the first trigger")
	}

	driver.job(time.Now())
	if source.calls != 1 || len(backend.drafts) != 1 {
		t.Fatalf("expected one tick, calls=%d drafts=%d", source.calls, len(backend.drafts))
	}

	if err := sched.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if !driver.stopped {
		t.Fatalf("expected driver to be stopped")
	}
}

func TestSchedulerRunOnStart(t *testing.T) {
	t.Parallel()

	source := &staticSource{}
	pipeline := newTestPipeline(source, &fakeBackend{}, &fakeNotifier{}, storage.NewMemoryLedger())

	if err := NewScheduler(&manualDriver{}, pipeline, true).Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected an immediate tick, got %d", source.calls)
	}
}
