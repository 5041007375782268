package feed

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"NewsPublisher/internal/domain"
	"NewsPublisher/internal/ports"
)

const (
	defaultTimeout = 20 * time.Second

	noTitle   = "No title"
	noContent = "No content available"
)

// Options tunes how feeds are requested.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Client    *http.Client
}

// Reader polls a fixed list of RSS/Atom/JSON feeds.
type Reader struct {
	urls    []string
	timeout time.Duration
	parser  *gofeed.Parser
	logger  *slog.Logger
}

var _ ports.ArticleSource = (*Reader)(nil)

// NewReader wires the feed list with a gofeed parser.
func NewReader(urls []string, opts Options, log *slog.Logger) *Reader {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if log == nil {
		log = slog.Default()
	}

	parser := gofeed.NewParser()
	parser.UserAgent = opts.UserAgent
	if opts.Client != nil {
		parser.Client = opts.Client
	}

	return &Reader{
		urls:    append([]string(nil), urls...),
		timeout: opts.Timeout,
		parser:  parser,
		logger:  log,
	}
}

// Fetch reads every feed in order and concatenates their entries.
// A feed that fails is logged and skipped.
func (r *Reader) Fetch(ctx context.Context) []domain.Article {
	var aggregated []domain.Article
	for _, feedURL := range r.urls {
		if ctx.Err() != nil {
			r.logger.Warn("feed fetch interrupted", "error", ctx.Err())
			break
		}

		articles, err := r.fetchOne(ctx, feedURL)
		if err != nil {
			r.logger.Error("failed to read feed", "feed", feedURL, "error", err)
			continue
		}
		r.logger.Debug("feed parsed", "feed", feedURL, "entries", len(articles))
		aggregated = append(aggregated, articles...)
	}
	return aggregated
}

func (r *Reader) fetchOne(ctx context.Context, feedURL string) ([]domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	parsed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	articles := make([]domain.Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		articles = append(articles, toArticle(item, feedURL))
	}
	return articles, nil
}

func toArticle(item *gofeed.Item, source string) domain.Article {
	return domain.Article{
		Title:   firstNonBlank(item.Title, noTitle),
		Link:    strings.TrimSpace(item.Link),
		Content: firstNonBlank(item.Description, item.Content, noContent),
		Source:  source,
	}
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
