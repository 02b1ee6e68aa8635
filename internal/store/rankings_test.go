package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"NewsDigest/internal/domain"
)

func seedRankingFixtures(t *testing.T, s *Store) (profileID int64, digestIDs []int64) {
	t.Helper()
	ctx := context.Background()

	profile, err := s.UpsertProfile(ctx, domain.ProfileSpec{Name: "alex"})
	require.NoError(t, err)

	for i, title := range []string{"first", "second", "third"} {
		inserted, err := s.AddDigest(ctx, domain.DigestRecord{
			SourceKind:  domain.SourceOpenAI,
			SourceRefID: int64(i + 1),
			Title:       title,
			Summary:     title + " summary",
			URL:         "https://example.com/" + title,
		})
		require.NoError(t, err)
		require.True(t, inserted)
	}

	records, err := s.DigestsSince(ctx, time.Hour)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// DigestsSince is newest first; return ids in insert order.
	for i := len(records) - 1; i >= 0; i-- {
		digestIDs = append(digestIDs, records[i].ID)
	}
	return profile.ID, digestIDs
}

func TestTopRankedReturnsLatestBatch(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	profileID, ids := seedRankingFixtures(t, s)

	older := time.Now().UTC().Add(-30 * time.Minute).Truncate(time.Second)
	stored, err := s.AddRankings(ctx, profileID, []domain.RankingRecord{
		{DigestID: ids[0], Rank: 1, Score: 90, Rationale: "old best", CreatedAt: older},
		{DigestID: ids[1], Rank: 2, Score: 50, Rationale: "old mid", CreatedAt: older},
		{DigestID: ids[2], Rank: 3, Score: 10, Rationale: "old last", CreatedAt: older},
	})
	require.NoError(t, err)
	require.Equal(t, 3, stored)

	newer := time.Now().UTC().Truncate(time.Second)
	stored, err = s.AddRankings(ctx, profileID, []domain.RankingRecord{
		{DigestID: ids[2], Rank: 1, Score: 95, Rationale: "new best", CreatedAt: newer},
		{DigestID: ids[0], Rank: 2, Score: 60, Rationale: "new mid", CreatedAt: newer},
		{DigestID: ids[1], Rank: 3, Score: 20, Rationale: "new last", CreatedAt: newer},
	})
	require.NoError(t, err)
	require.Equal(t, 3, stored)

	top, err := s.TopRanked(ctx, profileID, 24*time.Hour, 0)
	require.NoError(t, err)
	require.Len(t, top, 3)

	require.Equal(t, ids[2], top[0].Ranking.DigestID)
	require.Equal(t, "new best", top[0].Ranking.Rationale)
	require.Equal(t, "third", top[0].Digest.Title)
	require.Equal(t, ids[0], top[1].Ranking.DigestID)
	require.Equal(t, ids[1], top[2].Ranking.DigestID)
}

func TestTopRankedAppliesLimit(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	profileID, ids := seedRankingFixtures(t, s)

	batch := time.Now().UTC().Truncate(time.Second)
	_, err := s.AddRankings(ctx, profileID, []domain.RankingRecord{
		{DigestID: ids[0], Rank: 1, Score: 80, CreatedAt: batch},
		{DigestID: ids[1], Rank: 2, Score: 40, CreatedAt: batch},
		{DigestID: ids[2], Rank: 3, Score: 5, CreatedAt: batch},
	})
	require.NoError(t, err)

	top, err := s.TopRanked(ctx, profileID, 24*time.Hour, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	require.Equal(t, 1, top[0].Ranking.Rank)
	require.Equal(t, 2, top[1].Ranking.Rank)
}

func TestTopRankedScopedToProfile(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	profileID, ids := seedRankingFixtures(t, s)

	other, err := s.UpsertProfile(ctx, domain.ProfileSpec{Name: "sam"})
	require.NoError(t, err)

	batch := time.Now().UTC().Truncate(time.Second)
	_, err = s.AddRankings(ctx, profileID, []domain.RankingRecord{
		{DigestID: ids[0], Rank: 1, Score: 80, CreatedAt: batch},
	})
	require.NoError(t, err)

	top, err := s.TopRanked(ctx, other.ID, 24*time.Hour, 0)
	require.NoError(t, err)
	require.Empty(t, top)
}

func TestAddRankingsEmptyBatch(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	stored, err := s.AddRankings(context.Background(), 1, nil)
	require.NoError(t, err)
	require.Zero(t, stored)
}
