package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"NewsPublisher/internal/domain"
	"NewsPublisher/internal/ports"
)

const (
	defaultMaxPerTick = 4
	defaultCategory   = "Technology"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.ArticleSource
	Ledger     ports.Ledger
	Publisher  ports.ArticlePublisher
	Sampler    ports.Sampler
	MaxPerTick int
	Category   string
	Logger     *slog.Logger
}

// Pipeline implements the fetch, filter, sample and publish workflow.
type Pipeline struct {
	source     ports.ArticleSource
	ledger     ports.Ledger
	publisher  ports.ArticlePublisher
	sampler    ports.Sampler
	maxPerTick int
	category   string
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	p := &Pipeline{
		source:     deps.Source,
		ledger:     deps.Ledger,
		publisher:  deps.Publisher,
		sampler:    deps.Sampler,
		maxPerTick: deps.MaxPerTick,
		category:   deps.Category,
		logger:     deps.Logger,
	}
	if p.sampler == nil {
		p.sampler = NewRandomSampler()
	}
	if p.maxPerTick <= 0 {
		p.maxPerTick = defaultMaxPerTick
	}
	if p.category == "" {
		p.category = defaultCategory
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// RunTick performs one scheduled pass and returns what it did.
func (p *Pipeline) RunTick(ctx context.Context, trigger time.Time) domain.TickReport {
	var report domain.TickReport
	if p.source == nil || p.publisher == nil {
		return report
	}

	log := p.logger.With("tick_id", uuid.NewString())
	started := time.Now()
	log.Info("tick started", "trigger", trigger.Format(time.RFC3339))

	articles := p.source.Fetch(ctx)
	report.Fetched = len(articles)

	fresh := p.freshArticles(articles)
	report.Fresh = len(fresh)

	selected := p.sampler.Choose(fresh, p.maxPerTick)
	report.Selected = len(selected)

	for _, article := range selected {
		if ctx.Err() != nil {
			log.Warn("tick interrupted", "error", ctx.Err(), "remaining", report.Selected-report.Published-report.Duplicates-report.Rejected-report.Failed)
			break
		}
		log.Info("publishing article", "title", article.Title, "link", article.Link, "source", article.Source)
		report.Count(p.publisher.Publish(ctx, article, p.category))
	}

	log.Info("tick finished",
		"fetched", report.Fetched,
		"fresh", report.Fresh,
		"selected", report.Selected,
		"published", report.Published,
		"duplicates", report.Duplicates,
		"rejected", report.Rejected,
		"failed", report.Failed,
		"duration", time.Since(started).Round(time.Millisecond))
	return report
}

// freshArticles drops links already in the ledger and repeats within the batch.
// Repeats are collapsed before sampling (first occurrence wins), so a story carried
// by two feeds takes one sampling slot instead of two.
func (p *Pipeline) freshArticles(articles []domain.Article) []domain.Article {
	seen := make(map[string]struct{}, len(articles))
	fresh := make([]domain.Article, 0, len(articles))
	for _, article := range articles {
		if _, dup := seen[article.Link]; dup {
			continue
		}
		seen[article.Link] = struct{}{}
		if p.ledger != nil && p.ledger.Contains(article.Link) {
			continue
		}
		fresh = append(fresh, article)
	}
	return fresh
}
