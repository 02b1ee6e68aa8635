package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

// DigestStats reports one summarization run.
type DigestStats struct {
	Processed int
	Success   int
	Failed    int
	Skipped   int
}

// DigestStorage combines the store views the digest service needs.
type DigestStorage interface {
	ports.WorkSelector
	ports.DigestStore
}

// DigestDeps wires storage and the summarizer into the digest service.
type DigestDeps struct {
	Store      DigestStorage
	Summarizer ports.Summarizer
	Logger     *slog.Logger
}

// DigestService summarizes every stored item that has no digest record yet.
// Each item is handled independently: a failed summarization is counted and
// the run moves on to the next item.
type DigestService struct {
	store      DigestStorage
	summarizer ports.Summarizer
	logger     *slog.Logger
}

// NewDigestService constructs the summarization service.
func NewDigestService(deps DigestDeps) *DigestService {
	return &DigestService{
		store:      deps.Store,
		summarizer: deps.Summarizer,
		logger:     deps.Logger.With("component", "digest"),
	}
}

// Process selects pending items within the window and generates one digest
// record per item.
func (s *DigestService) Process(ctx context.Context, window time.Duration) (DigestStats, error) {
	var stats DigestStats

	pending, err := s.store.PendingItems(ctx, window)
	if err != nil {
		return stats, fmt.Errorf("select pending items: %w", err)
	}

	if pending.Total() == 0 {
		s.logger.Info("no pending items")
		return stats, nil
	}

	for _, v := range pending.Videos {
		s.processOne(ctx, &stats, workItem{
			kind:        domain.SourceYouTube,
			refID:       v.ID,
			title:       v.Title,
			url:         v.URL,
			content:     videoContent(v),
			publishedAt: v.PublishedAt,
		})
	}
	for _, a := range pending.OpenAI {
		s.processOne(ctx, &stats, articleWork(domain.SourceOpenAI, a))
	}
	for _, a := range pending.Anthropic {
		s.processOne(ctx, &stats, articleWork(domain.SourceAnthropic, a))
	}

	s.logger.Info("digest run finished",
		"processed", stats.Processed,
		"success", stats.Success,
		"failed", stats.Failed,
		"skipped", stats.Skipped)

	return stats, nil
}

type workItem struct {
	kind        domain.SourceKind
	refID       int64
	title       string
	url         string
	content     string
	publishedAt time.Time
}

func articleWork(kind domain.SourceKind, a domain.ArticleItem) workItem {
	content := a.Markdown
	if content == "" {
		content = a.Description
	}
	return workItem{
		kind:        kind,
		refID:       a.ID,
		title:       a.Title,
		url:         a.URL,
		content:     content,
		publishedAt: a.PublishedAt,
	}
}

func videoContent(v domain.VideoItem) string {
	if v.Transcript != "" {
		return v.Transcript
	}
	if v.Description != "" {
		return "Video description:\n" + v.Description
	}
	return ""
}

func (s *DigestService) processOne(ctx context.Context, stats *DigestStats, item workItem) {
	// Every selected item counts as processed, so processed is always the
	// sum of success, failed and skipped.
	stats.Processed++

	if item.content == "" {
		stats.Skipped++
		s.logger.Warn("skipping item without content",
			"source", string(item.kind), "ref_id", item.refID, "title", item.title)
		return
	}

	summary, err := s.summarizer.Summarize(ctx, ports.SummaryRequest{
		Title:       item.title,
		Content:     item.content,
		ContentType: kindLabel(item.kind),
	})
	if err != nil {
		stats.Failed++
		s.logger.Error("summarization failed",
			"source", string(item.kind), "ref_id", item.refID, "error", err)
		return
	}

	inserted, err := s.store.AddDigest(ctx, domain.DigestRecord{
		SourceKind:  item.kind,
		SourceRefID: item.refID,
		URL:         item.url,
		Title:       item.title,
		Summary:     summary.Text,
		Topics:      summary.Topics,
		Category:    summary.Category,
		PublishedAt: item.publishedAt,
	})
	if err != nil {
		stats.Failed++
		s.logger.Error("digest persist failed",
			"source", string(item.kind), "ref_id", item.refID, "error", err)
		return
	}
	if !inserted {
		stats.Skipped++
		s.logger.Info("digest already exists",
			"source", string(item.kind), "ref_id", item.refID)
		return
	}

	stats.Success++
}
