package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

// IngestStats reports one ingestion run.
type IngestStats struct {
	Videos         int
	Articles       int
	SourceFailures int
}

// IngestDeps wires sources and storage into the ingestion service.
type IngestDeps struct {
	Videos   ports.VideoSource
	Articles []ports.ArticleSource
	Store    ports.ItemStore
	Logger   *slog.Logger
}

// IngestService fetches fresh items from every source and upserts them into
// durable storage. A failing source is logged and skipped; the remaining
// sources still run. Storage failures abort the run.
type IngestService struct {
	videos   ports.VideoSource
	articles []ports.ArticleSource
	store    ports.ItemStore
	logger   *slog.Logger
}

// NewIngestService constructs the ingestion service.
func NewIngestService(deps IngestDeps) *IngestService {
	return &IngestService{
		videos:   deps.Videos,
		articles: deps.Articles,
		store:    deps.Store,
		logger:   deps.Logger.With("component", "ingest"),
	}
}

// Run pulls items published within the window from all sources.
func (s *IngestService) Run(ctx context.Context, window time.Duration) (IngestStats, error) {
	var stats IngestStats

	if s.videos != nil {
		items, err := s.videos.FetchVideos(ctx, window)
		if err != nil {
			stats.SourceFailures++
			s.logger.Error("video fetch failed", "error", err)
		} else {
			count, err := s.store.AddVideos(ctx, items)
			if err != nil {
				return stats, fmt.Errorf("store videos: %w", err)
			}
			stats.Videos = count
			s.logger.Info("videos ingested", "count", count)
		}
	}

	for _, src := range s.articles {
		kind := src.Kind()
		items, err := src.FetchArticles(ctx, window)
		if err != nil {
			stats.SourceFailures++
			s.logger.Error("article fetch failed", "source", string(kind), "error", err)
			continue
		}

		count, err := s.store.AddArticles(ctx, kind, items)
		if err != nil {
			return stats, fmt.Errorf("store %s articles: %w", kind, err)
		}
		stats.Articles += count
		s.logger.Info("articles ingested", "source", string(kind), "count", count)
	}

	return stats, nil
}

// kindLabel is shared by logging and digest content typing.
func kindLabel(kind domain.SourceKind) string {
	if kind == domain.SourceYouTube {
		return "video"
	}
	return "article"
}
