package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"NewsDigest/internal/ports"
)

// TranscriptStats reports one backfill run.
type TranscriptStats struct {
	Candidates int
	Filled     int
	Failed     int
}

// TranscriptDeps wires the transcript provider and storage together.
type TranscriptDeps struct {
	Store    ports.TranscriptStore
	Provider ports.TranscriptProvider
	Logger   *slog.Logger
}

// TranscriptService fills in transcripts for stored videos that have none.
// Each video is fetched independently; a failed fetch is counted and the run
// continues with the next candidate.
type TranscriptService struct {
	store    ports.TranscriptStore
	provider ports.TranscriptProvider
	logger   *slog.Logger
}

// NewTranscriptService constructs the backfill service.
func NewTranscriptService(deps TranscriptDeps) *TranscriptService {
	return &TranscriptService{
		store:    deps.Store,
		provider: deps.Provider,
		logger:   deps.Logger.With("component", "transcripts"),
	}
}

// Backfill fetches transcripts for up to limit videos missing one.
func (s *TranscriptService) Backfill(ctx context.Context, limit int) (TranscriptStats, error) {
	var stats TranscriptStats

	videos, err := s.store.VideosWithoutTranscript(ctx, limit)
	if err != nil {
		return stats, fmt.Errorf("select videos without transcript: %w", err)
	}
	stats.Candidates = len(videos)

	for _, v := range videos {
		transcript, err := s.provider.Transcript(ctx, v.VideoID)
		if err != nil {
			stats.Failed++
			s.logger.Error("transcript fetch failed", "video_id", v.VideoID, "error", err)
			continue
		}
		if transcript == "" {
			stats.Failed++
			s.logger.Warn("empty transcript", "video_id", v.VideoID)
			continue
		}

		updated, err := s.store.SetTranscript(ctx, v.VideoID, transcript)
		if err != nil {
			return stats, fmt.Errorf("store transcript for %s: %w", v.VideoID, err)
		}
		if updated {
			stats.Filled++
		}
	}

	s.logger.Info("transcript backfill finished",
		"candidates", stats.Candidates, "filled", stats.Filled, "failed", stats.Failed)

	return stats, nil
}
