package ports

import (
	"context"
	"time"

	"NewsDigest/internal/domain"
)

// VideoSource pulls fresh videos from monitored channels.
type VideoSource interface {
	FetchVideos(ctx context.Context, window time.Duration) ([]domain.VideoItem, error)
}

// ArticleSource pulls fresh articles from one upstream news provider.
type ArticleSource interface {
	Kind() domain.SourceKind
	FetchArticles(ctx context.Context, window time.Duration) ([]domain.ArticleItem, error)
}

// SummaryRequest carries the content handed to the summarizer.
type SummaryRequest struct {
	Title       string
	Content     string
	ContentType string
}

// Summarizer generates a structured summary for one item.
type Summarizer interface {
	Summarize(ctx context.Context, req SummaryRequest) (domain.Summary, error)
}

// Ranker scores the full digest set against a user profile in one call.
type Ranker interface {
	RankItems(ctx context.Context, profile domain.ProfileSpec, items []domain.DigestPayload) ([]domain.RankedItem, error)
}

// Drafter composes the digest email from top-ranked items.
type Drafter interface {
	Draft(ctx context.Context, profile domain.ProfileSpec, items []domain.EmailItem, dateLabel string) (domain.EmailDraft, error)
}

// Transport delivers a rendered message.
type Transport interface {
	Send(ctx context.Context, msg domain.Email) error
}

// TranscriptProvider fetches the transcript for a video by its natural key.
type TranscriptProvider interface {
	Transcript(ctx context.Context, videoID string) (string, error)
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
