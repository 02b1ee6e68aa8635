package ports

import (
	"context"
	"time"

	"NewsDigest/internal/domain"
)

// ItemStore persists fetched source items.
type ItemStore interface {
	AddVideos(ctx context.Context, items []domain.VideoItem) (int, error)
	AddArticles(ctx context.Context, kind domain.SourceKind, items []domain.ArticleItem) (int, error)
}

// WorkSelector finds stored items that still have no digest record.
type WorkSelector interface {
	PendingItems(ctx context.Context, window time.Duration) (domain.PendingSet, error)
}

// DigestStore persists and reads generated digest records.
type DigestStore interface {
	AddDigest(ctx context.Context, rec domain.DigestRecord) (bool, error)
	DigestsSince(ctx context.Context, window time.Duration) ([]domain.DigestRecord, error)
}

// ProfileStore persists ranking profiles, unique by name.
type ProfileStore interface {
	UpsertProfile(ctx context.Context, spec domain.ProfileSpec) (domain.UserProfile, error)
}

// RankingStore persists reconciliation batches and reads the latest one.
type RankingStore interface {
	AddRankings(ctx context.Context, profileID int64, records []domain.RankingRecord) (int, error)
	TopRanked(ctx context.Context, profileID int64, window time.Duration, limit int) ([]domain.RankedDigest, error)
}

// TranscriptStore tracks videos waiting for a transcript.
type TranscriptStore interface {
	VideosWithoutTranscript(ctx context.Context, limit int) ([]domain.VideoItem, error)
	SetTranscript(ctx context.Context, videoID, transcript string) (bool, error)
}
