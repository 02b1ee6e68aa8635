package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/store"
)

type fakeRanker struct {
	items []domain.RankedItem
	err   error
	calls int
}

func (f *fakeRanker) RankItems(_ context.Context, _ domain.ProfileSpec, _ []domain.DigestPayload) ([]domain.RankedItem, error) {
	f.calls++
	return f.items, f.err
}

func seedDigests(t *testing.T, s *store.Store, titles ...string) []int64 {
	t.Helper()
	ctx := context.Background()

	for i, title := range titles {
		inserted, err := s.AddDigest(ctx, domain.DigestRecord{
			SourceKind:  domain.SourceOpenAI,
			SourceRefID: int64(i + 1),
			Title:       title,
			Summary:     title + " summary",
		})
		require.NoError(t, err)
		require.True(t, inserted)
	}

	records, err := s.DigestsSince(ctx, time.Hour)
	require.NoError(t, err)
	require.Len(t, records, len(titles))

	ids := make([]int64, len(records))
	for i, rec := range records {
		ids[len(records)-1-i] = rec.ID
	}
	return ids
}

func TestRankReconcilesModelResponse(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	ids := seedDigests(t, s, "alpha", "beta", "gamma")

	// The model response mentions one digest twice, one unknown id, and
	// omits gamma entirely.
	ranker := &fakeRanker{items: []domain.RankedItem{
		{DigestID: ids[1], Score: 90, Rationale: "on topic"},
		{DigestID: 99999, Score: 80, Rationale: "hallucinated"},
		{DigestID: ids[1], Score: 70, Rationale: "repeat"},
		{DigestID: ids[0], Score: 40, Rationale: "less relevant"},
	}}

	svc := NewRankingService(RankingDeps{Store: s, Ranker: ranker, Logger: discardLogger()})

	stats, err := svc.Rank(ctx, domain.ProfileSpec{Name: "alex"}, time.Hour)
	require.NoError(t, err)
	require.Equal(t, 3, stats.Items)
	require.Equal(t, 3, stats.Stored)

	profile, err := s.ProfileByName(ctx, "alex")
	require.NoError(t, err)
	require.NotNil(t, profile)

	top, err := s.TopRanked(ctx, profile.ID, time.Hour, 0)
	require.NoError(t, err)
	require.Len(t, top, 3)

	// Valid model entries first in response order then omitted digests,
	// with contiguous ranks.
	require.Equal(t, ids[1], top[0].Ranking.DigestID)
	require.Equal(t, 90, top[0].Ranking.Score)
	require.Equal(t, ids[0], top[1].Ranking.DigestID)
	require.Equal(t, ids[2], top[2].Ranking.DigestID)
	require.Equal(t, 0, top[2].Ranking.Score)
	require.Equal(t, "not ranked by model", top[2].Ranking.Rationale)
	for i, entry := range top {
		require.Equal(t, i+1, entry.Ranking.Rank)
	}
}

func TestRankFailurePersistsNothing(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	seedDigests(t, s, "alpha")

	ranker := &fakeRanker{err: errors.New("model unavailable")}
	svc := NewRankingService(RankingDeps{Store: s, Ranker: ranker, Logger: discardLogger()})

	_, err := svc.Rank(ctx, domain.ProfileSpec{Name: "alex"}, time.Hour)
	require.Error(t, err)

	profile, err := s.ProfileByName(ctx, "alex")
	require.NoError(t, err)
	require.NotNil(t, profile)

	top, err := s.TopRanked(ctx, profile.ID, time.Hour, 0)
	require.NoError(t, err)
	require.Empty(t, top)
}

func TestRankWithNoDigestsSkipsModel(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	ranker := &fakeRanker{}
	svc := NewRankingService(RankingDeps{Store: s, Ranker: ranker, Logger: discardLogger()})

	stats, err := svc.Rank(context.Background(), domain.ProfileSpec{Name: "alex"}, time.Hour)
	require.NoError(t, err)
	require.Zero(t, stats.Items)
	require.Zero(t, ranker.calls)
}

func TestReconcileFullPermutation(t *testing.T) {
	t.Parallel()

	digests := []domain.DigestRecord{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}
	ranked := []domain.RankedItem{
		{DigestID: 3, Score: 99, Rationale: "best"},
		{DigestID: 1, Score: 50, Rationale: "ok"},
	}

	records := reconcile(digests, ranked)
	require.Len(t, records, 4)

	require.Equal(t, int64(3), records[0].DigestID)
	require.Equal(t, int64(1), records[1].DigestID)
	require.Equal(t, int64(2), records[2].DigestID)
	require.Equal(t, int64(4), records[3].DigestID)

	for i, rec := range records {
		require.Equal(t, i+1, rec.Rank)
		require.Equal(t, records[0].CreatedAt, rec.CreatedAt)
	}
	require.Equal(t, "not ranked by model", records[2].Rationale)
	require.Zero(t, records[3].Score)
}
