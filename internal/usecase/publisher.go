package usecase

import (
	"context"
	"errors"
	"log/slog"

	"NewsPublisher/internal/domain"
	"NewsPublisher/internal/ports"
)

const defaultPostStatus = "publish"

// PublisherDeps wires the backend, ledger and notifier used for one publish attempt.
// A nil Ledger disables duplicate detection: nothing is remembered between calls.
type PublisherDeps struct {
	Backend    ports.ContentBackend
	Ledger     ports.Ledger
	Notifier   ports.Notifier
	Categories domain.CategoryMap
	Status     string
	Logger     *slog.Logger
}

// Publisher creates a post for an article at most once and announces it.
type Publisher struct {
	backend    ports.ContentBackend
	ledger     ports.Ledger
	notifier   ports.Notifier
	categories domain.CategoryMap
	status     string
	logger     *slog.Logger
}

var _ ports.ArticlePublisher = (*Publisher)(nil)

// NewPublisher constructs the publish use case.
func NewPublisher(deps PublisherDeps) *Publisher {
	status := deps.Status
	if status == "" {
		status = defaultPostStatus
	}
	categories := deps.Categories
	if categories == nil {
		categories = domain.DefaultCategories()
	}
	ledger := deps.Ledger
	if ledger == nil {
		ledger = forgetfulLedger{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		backend:    deps.Backend,
		ledger:     ledger,
		notifier:   deps.Notifier,
		categories: categories,
		status:     status,
		logger:     logger,
	}
}

// Publish posts article under category and reports what happened. Errors never escape.
func (p *Publisher) Publish(ctx context.Context, article domain.Article, category string) domain.PublishOutcome {
	log := p.logger.With("link", article.Link)

	if p.ledger.Contains(article.Link) {
		log.Info("article already published", "title", article.Title)
		return domain.OutcomeDuplicate
	}

	categoryID := p.categories.Resolve(category)
	post, err := p.backend.CreatePost(ctx, domain.PostDraft{
		Title:      article.Title,
		Content:    article.Content,
		Status:     p.status,
		Categories: []int{categoryID},
	})
	if err != nil {
		var rejected ports.RejectedError
		if errors.As(err, &rejected) {
			log.Error("failed to publish article", "status", rejected.StatusCode(), "body", rejected.ResponseBody())
			return domain.OutcomeRejected
		}
		log.Error("error publishing article", "error", err)
		return domain.OutcomeFailed
	}

	p.ledger.Record(article.Link)
	log.Info("article published", "post_id", post.ID, "post_link", post.Link, "category", categoryID)

	if p.notifier != nil {
		if err := p.notifier.Announce(ctx, article); err != nil {
			log.Error("failed to announce article", "error", err)
		}
	}
	return domain.OutcomePublished
}

type forgetfulLedger struct{}

func (forgetfulLedger) Contains(string) bool { return false }
func (forgetfulLedger) Record(string)        {}
