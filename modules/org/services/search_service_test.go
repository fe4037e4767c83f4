package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeSearchRepo struct {
	pattern string
	limit   int
	hits    []SearchHit
	calls   int
}

func (f *fakeSearchRepo) Find(_ context.Context, pattern string, limit int) ([]SearchHit, error) {
	f.calls++
	f.pattern = pattern
	f.limit = limit
	return f.hits, nil
}

func TestSearch_ShortQueryReturnsEmpty(t *testing.T) {
	repo := &fakeSearchRepo{}
	svc := NewSearchService(repo)

	for _, q := range []string{"", "a", "ab", "  ab  "} {
		result, err := svc.Search(context.Background(), q, 0)
		require.NoError(t, err)
		require.Empty(t, result.Hits)
		require.Zero(t, result.Total)
	}
	require.Zero(t, repo.calls, "short queries must not reach the database")
}

func TestSearch_EscapesLikeMetacharacters(t *testing.T) {
	repo := &fakeSearchRepo{}
	svc := NewSearchService(repo)

	_, err := svc.Search(context.Background(), "50%_off", 0)
	require.NoError(t, err)
	require.Equal(t, `%50\%\_off%`, repo.pattern)
	require.Equal(t, DefaultSearchLimit, repo.limit)
}

func TestSearch_RanksNameMatchesFirst(t *testing.T) {
	repo := &fakeSearchRepo{hits: []SearchHit{
		{Kind: "squad", ID: 1, Name: "Card Issuing", Description: "handles payments"},
		{Kind: "squad", ID: 2, Name: "Payments", Description: ""},
		{Kind: "tribe", ID: 3, Name: "Payments Tribe", Description: ""},
	}}
	svc := NewSearchService(repo)

	result, err := svc.Search(context.Background(), "payments", 0)
	require.NoError(t, err)
	require.Equal(t, 3, result.Total)
	// exact name match outranks the longer one; the description-only hit
	// comes last
	require.Equal(t, uint(2), result.Hits[0].ID)
	require.Equal(t, uint(3), result.Hits[1].ID)
	require.Equal(t, uint(1), result.Hits[2].ID)
}

func TestSearch_LimitThreadedAndClamped(t *testing.T) {
	repo := &fakeSearchRepo{}
	svc := NewSearchService(repo)

	_, err := svc.Search(context.Background(), "payments", 10)
	require.NoError(t, err)
	require.Equal(t, 10, repo.limit)

	_, err = svc.Search(context.Background(), "payments", 9000)
	require.NoError(t, err)
	require.Equal(t, MaxSearchLimit, repo.limit)

	_, err = svc.Search(context.Background(), "payments", -1)
	require.NoError(t, err)
	require.Equal(t, DefaultSearchLimit, repo.limit)
}
