package services

import (
	"context"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MinQueryLength is the shortest query the search endpoint accepts.
// Anything shorter returns an empty result set instead of an error.
const MinQueryLength = 3

const (
	// DefaultSearchLimit applies when the caller does not ask for one.
	DefaultSearchLimit = 50
	// MaxSearchLimit caps caller-supplied limits.
	MaxSearchLimit = 200
)

type SearchHit struct {
	Kind        string `json:"kind"`
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type SearchResult struct {
	Hits  []SearchHit `json:"hits"`
	Total int         `json:"total"`
}

type SearchRepository interface {
	Find(ctx context.Context, pattern string, limit int) ([]SearchHit, error)
}

type SearchService struct {
	repo SearchRepository
}

func NewSearchService(repo SearchRepository) *SearchService {
	return &SearchService{repo: repo}
}

// Search runs a case-insensitive substring match across areas, tribes,
// squads, team members and services, ranked by fuzzy match distance of
// the hit's name against the query. A limit of zero or less falls back
// to DefaultSearchLimit; anything above MaxSearchLimit is clamped.
func (s *SearchService) Search(ctx context.Context, q string, limit int) (SearchResult, error) {
	q = strings.TrimSpace(q)
	if len(q) < MinQueryLength {
		return SearchResult{Hits: []SearchHit{}, Total: 0}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}
	pattern := "%" + escapeLike(q) + "%"
	hits, err := s.repo.Find(ctx, pattern, limit)
	if err != nil {
		return SearchResult{}, err
	}
	rankHits(q, hits)
	return SearchResult{Hits: hits, Total: len(hits)}, nil
}

// rankHits orders name matches before description-only matches, closer
// fuzzy distances first. The sort is stable so the database order breaks
// ties.
func rankHits(q string, hits []SearchHit) {
	sort.SliceStable(hits, func(i, j int) bool {
		return hitRank(q, hits[i]) < hitRank(q, hits[j])
	})
}

func hitRank(q string, h SearchHit) int {
	rank := fuzzy.RankMatchNormalizedFold(q, h.Name)
	if rank < 0 {
		// Description-only hit; keep it after every name match.
		return 1 << 20
	}
	return rank
}

func escapeLike(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(q)
}
