package usecase

import (
	"math/rand"

	"NewsPublisher/internal/domain"
	"NewsPublisher/internal/ports"
)

// RandomSampler draws uniformly without replacement.
type RandomSampler struct {
	perm func(n int) []int
}

var _ ports.Sampler = (*RandomSampler)(nil)

// NewRandomSampler uses the global math/rand/v2 source.
func NewRandomSampler() *RandomSampler {
	return &RandomSampler{perm: rand.Perm}
}

// Choose returns min(limit, len(candidates)) distinct articles in random order.
func (s *RandomSampler) Choose(candidates []domain.Article, limit int) []domain.Article {
	if limit <= 0 || len(candidates) == 0 {
		return nil
	}
	if limit > len(candidates) {
		limit = len(candidates)
	}

	picked := make([]domain.Article, 0, limit)
	for _, idx := range s.perm(len(candidates))[:limit] {
		picked = append(picked, candidates[idx])
	}
	return picked
}
