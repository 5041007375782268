package ports

import (
	"context"
	"time"

	"NewsPublisher/internal/domain"
)

// ArticleSource pulls the current entries of all configured feeds.
// Implementations absorb per-feed failures; the worst case is an empty slice.
type ArticleSource interface {
	Fetch(ctx context.Context) []domain.Article
}

// Ledger remembers links that were published successfully.
type Ledger interface {
	Contains(link string) bool
	Record(link string)
}

// ContentBackend creates posts on the content-management system.
type ContentBackend interface {
	CreatePost(ctx context.Context, draft domain.PostDraft) (domain.Post, error)
}

// RejectedError is implemented by backend errors for an answered but refused request.
type RejectedError interface {
	error
	StatusCode() int
	ResponseBody() string
}

// ArticlePublisher drives one article through the backend and notifier.
type ArticlePublisher interface {
	Publish(ctx context.Context, article domain.Article, category string) domain.PublishOutcome
}

// Notifier announces published articles to a chat channel.
type Notifier interface {
	Announce(ctx context.Context, article domain.Article) error
}

// Sampler picks at most limit articles out of candidates.
type Sampler interface {
	Choose(candidates []domain.Article, limit int) []domain.Article
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
