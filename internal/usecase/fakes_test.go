package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"NewsPublisher/internal/domain"
)

type staticSource struct {
	articles []domain.Article
	calls    int
}

func (s *staticSource) Fetch(context.Context) []domain.Article {
	s.calls++
	return append([]domain.Article(nil), s.articles...)
}

type rejection struct {
	code int
	body string
}

func (r *rejection) Error() string        { return fmt.Sprintf("rejected %d", r.code) }
func (r *rejection) StatusCode() int      { return r.code }
func (r *rejection) ResponseBody() string { return r.body }

type fakeBackend struct {
	mu     sync.Mutex
	drafts []domain.PostDraft
	// respond decides the result per draft; nil means success.
	respond func(domain.PostDraft) error
}

func (b *fakeBackend) CreatePost(_ context.Context, draft domain.PostDraft) (domain.Post, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.drafts = append(b.drafts, draft)
	if b.respond != nil {
		if err := b.respond(draft); err != nil {
			return domain.Post{}, err
		}
	}
	return domain.Post{ID: len(b.drafts), Link: "https://blog.example.com/?p=" + fmt.Sprint(len(b.drafts))}, nil
}

func (b *fakeBackend) titles() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.drafts))
	for _, d := range b.drafts {
		out = append(out, d.Title)
	}
	return out
}

type fakeNotifier struct {
	announced []domain.Article
	err       error
}

func (n *fakeNotifier) Announce(_ context.Context, article domain.Article) error {
	if n.err != nil {
		return n.err
	}
	n.announced = append(n.announced, article)
	return nil
}

// firstN keeps candidate order so assertions stay deterministic.
type firstN struct{}

func (firstN) Choose(candidates []domain.Article, limit int) []domain.Article {
	if limit > len(candidates) {
		limit = len(candidates)
	}
	return candidates[:limit]
}

var errNotConfigured = errors.New("telegram notifier misconfigured")

func makeArticles(n int) []domain.Article {
	out := make([]domain.Article, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Article{
			Title:   fmt.Sprintf("Article %d", i),
			Link:    fmt.Sprintf("https://news.example.com/%d", i),
			Content: fmt.Sprintf("<p>Body %d</p>", i),
			Source:  "https://news.example.com/rss",
		})
	}
	return out
}
