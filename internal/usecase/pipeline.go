package usecase

import (
	"context"
	"log/slog"
	"time"

	"NewsDigest/internal/domain"
)

// PipelineResult collects per-stage stats and errors for one full run.
// Stage errors do not stop the pipeline: later stages still run on whatever
// earlier stages managed to persist.
type PipelineResult struct {
	Ingest  IngestStats
	Digest  DigestStats
	Ranking RankingStats

	IngestErr  error
	DigestErr  error
	RankingErr error
	NotifyErr  error
}

// Failed reports whether any stage returned an error.
func (r PipelineResult) Failed() bool {
	return r.IngestErr != nil || r.DigestErr != nil || r.RankingErr != nil || r.NotifyErr != nil
}

// PipelineDeps wires the stage services into the full pipeline.
type PipelineDeps struct {
	Ingest  *IngestService
	Digest  *DigestService
	Ranking *RankingService
	Notify  *NotifyService
	Profile domain.ProfileSpec
	Window  time.Duration
	Limit   int
	Logger  *slog.Logger
}

// Pipeline runs the full cycle: ingest, summarize, rank, notify.
type Pipeline struct {
	ingest  *IngestService
	digest  *DigestService
	ranking *RankingService
	notify  *NotifyService
	profile domain.ProfileSpec
	window  time.Duration
	limit   int
	logger  *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		ingest:  deps.Ingest,
		digest:  deps.Digest,
		ranking: deps.Ranking,
		notify:  deps.Notify,
		profile: deps.Profile,
		window:  deps.Window,
		limit:   deps.Limit,
		logger:  deps.Logger.With("component", "pipeline"),
	}
}

// Run executes all stages in order, continuing past stage failures.
func (p *Pipeline) Run(ctx context.Context) PipelineResult {
	var result PipelineResult
	started := time.Now()

	if p.ingest != nil {
		result.Ingest, result.IngestErr = p.ingest.Run(ctx, p.window)
		if result.IngestErr != nil {
			p.logger.Error("ingest stage failed", "error", result.IngestErr)
		}
	}

	if p.digest != nil {
		result.Digest, result.DigestErr = p.digest.Process(ctx, p.window)
		if result.DigestErr != nil {
			p.logger.Error("digest stage failed", "error", result.DigestErr)
		}
	}

	if p.ranking != nil {
		result.Ranking, result.RankingErr = p.ranking.Rank(ctx, p.profile, p.window)
		if result.RankingErr != nil {
			p.logger.Error("ranking stage failed", "error", result.RankingErr)
		}
	}

	if p.notify != nil {
		result.NotifyErr = p.notify.Notify(ctx, p.profile, p.window, p.limit)
		if result.NotifyErr != nil {
			p.logger.Error("notify stage failed", "error", result.NotifyErr)
		}
	}

	p.logger.Info("pipeline run finished",
		"duration", time.Since(started).Round(time.Millisecond),
		"failed", result.Failed())

	return result
}
