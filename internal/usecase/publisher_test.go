package usecase

import (
	"context"
	"errors"
	"testing"

	"NewsPublisher/internal/domain"
	"NewsPublisher/internal/infrastructure/storage"
)

func TestPublisherPublishes(t *testing.T) {
	t.Parallel()

	ledger := storage.NewMemoryLedger()
	backend := &fakeBackend{}
	notifier := &fakeNotifier{}
	publisher := NewPublisher(PublisherDeps{Backend: backend, Ledger: ledger, Notifier: notifier})

	article := makeArticles(1)[0]
	outcome := publisher.Publish(context.Background(), article, "Technology")

	if outcome != domain.OutcomePublished {
		t.Fatalf("unexpected outcome %s", outcome)
	}
	if !ledger.Contains(article.Link) {
		t.Fatalf("expected link recorded after 201")
	}
	if len(notifier.announced) != 1 || notifier.announced[0] != article {
		t.Fatalf("expected the fetched article to be announced, got %+v", notifier.announced)
	}

	draft := backend.drafts[0]
	if draft.Title != article.Title || draft.Content != article.Content || draft.Status != "publish" {
		t.Fatalf("unexpected draft: %+v", draft)
	}
	if len(draft.Categories) != 1 || draft.Categories[0] != 2 {
		t.Fatalf("expected Technology id 2, got %v", draft.Categories)
	}
}

func TestPublisherUnknownCategoryFallsBack(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	publisher := NewPublisher(PublisherDeps{Backend: backend, Ledger: storage.NewMemoryLedger()})

	publisher.Publish(context.Background(), makeArticles(1)[0], "Gardening")
	if got := backend.drafts[0].Categories; len(got) != 1 || got[0] != domain.UncategorisedID {
		t.Fatalf("expected Uncategorised fallback, got %v", got)
	}
}

func TestPublisherSkipsDuplicates(t *testing.T) {
	t.Parallel()

	ledger := storage.NewMemoryLedger()
	article := makeArticles(1)[0]
	ledger.Record(article.Link)

	backend := &fakeBackend{}
	notifier := &fakeNotifier{}
	publisher := NewPublisher(PublisherDeps{Backend: backend, Ledger: ledger, Notifier: notifier})

	if outcome := publisher.Publish(context.Background(), article, "Technology"); outcome != domain.OutcomeDuplicate {
		t.Fatalf("unexpected outcome %s", outcome)
	}
	if len(backend.drafts) != 0 || len(notifier.announced) != 0 {
		t.Fatalf("duplicates must make no calls")
	}
}

func TestPublisherRejectedPost(t *testing.T) {
	t.Parallel()

	ledger := storage.NewMemoryLedger()
	backend := &fakeBackend{respond: func(domain.PostDraft) error {
		return &rejection{code: 401, body: `{"code":"rest_cannot_create"}`}
	}}
	notifier := &fakeNotifier{}
	publisher := NewPublisher(PublisherDeps{Backend: backend, Ledger: ledger, Notifier: notifier})

	article := makeArticles(1)[0]
	if outcome := publisher.Publish(context.Background(), article, "Technology"); outcome != domain.OutcomeRejected {
		t.Fatalf("unexpected outcome %s", outcome)
	}
	if ledger.Contains(article.Link) {
		t.Fatalf("rejected articles must not be recorded")
	}
	if len(notifier.announced) != 0 {
		t.Fatalf("rejected articles must not be announced")
	}
}

func TestPublisherTransportFailure(t *testing.T) {
	t.Parallel()

	ledger := storage.NewMemoryLedger()
	backend := &fakeBackend{respond: func(domain.PostDraft) error {
		return errors.New("dial tcp: connection refused")
	}}
	publisher := NewPublisher(PublisherDeps{Backend: backend, Ledger: ledger, Notifier: &fakeNotifier{}})

	article := makeArticles(1)[0]
	if outcome := publisher.Publish(context.Background(), article, "Technology"); outcome != domain.OutcomeFailed {
		t.Fatalf("unexpected outcome %s", outcome)
	}
	if ledger.Contains(article.Link) {
		t.Fatalf("failed articles must not be recorded")
	}
}

func TestPublisherNotifierFailureKeepsRecord(t *testing.T) {
	t.Parallel()

	ledger := storage.NewMemoryLedger()
	publisher := NewPublisher(PublisherDeps{
		Backend:  &fakeBackend{},
		Ledger:   ledger,
		Notifier: &fakeNotifier{err: errNotConfigured},
	})

	article := makeArticles(1)[0]
	if outcome := publisher.Publish(context.Background(), article, "Technology"); outcome != domain.OutcomePublished {
		t.Fatalf("unexpected outcome %s", outcome)
	}
	if !ledger.Contains(article.Link) {
		t.Fatalf("notification failure must not undo the ledger record")
	}
}

func TestPublisherWithoutLedger(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	publisher := NewPublisher(PublisherDeps{Backend: backend})

	article := makeArticles(1)[0]
	for i := 0; i < 2; i++ {
		if outcome := publisher.Publish(context.Background(), article, "Technology"); outcome != domain.OutcomePublished {
			t.Fatalf("unexpected outcome %s", outcome)
		}
	}
	if len(backend.drafts) != 2 {
		t.Fatalf("expected both calls to reach the backend, got %d", len(backend.drafts))
	}
}
