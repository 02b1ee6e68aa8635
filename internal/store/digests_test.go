package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"NewsDigest/internal/domain"
)

func TestAddDigestConflictIsBenign(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	rec := domain.DigestRecord{
		SourceKind:  domain.SourceOpenAI,
		SourceRefID: 7,
		URL:         "https://example.com/a",
		Title:       "a post",
		Summary:     "first summary",
		Topics:      []string{"llm", "evals"},
		Category:    "research",
	}

	inserted, err := s.AddDigest(ctx, rec)
	require.NoError(t, err)
	require.True(t, inserted)

	// A concurrent run losing the race gets a clean skip, not an error.
	rec.Summary = "second summary"
	inserted, err = s.AddDigest(ctx, rec)
	require.NoError(t, err)
	require.False(t, inserted)

	records, err := s.DigestsSince(ctx, time.Hour)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "first summary", records[0].Summary)
	require.Equal(t, []string{"llm", "evals"}, records[0].Topics)
}

func TestDigestsSinceWindow(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddDigest(ctx, domain.DigestRecord{
		SourceKind:  domain.SourceOpenAI,
		SourceRefID: 1,
		Summary:     "old",
		CreatedAt:   time.Now().UTC().Add(-48 * time.Hour),
	})
	require.NoError(t, err)

	_, err = s.AddDigest(ctx, domain.DigestRecord{
		SourceKind:  domain.SourceAnthropic,
		SourceRefID: 1,
		Summary:     "fresh",
	})
	require.NoError(t, err)

	records, err := s.DigestsSince(ctx, 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "fresh", records[0].Summary)
	require.Equal(t, domain.SourceAnthropic, records[0].SourceKind)
}
