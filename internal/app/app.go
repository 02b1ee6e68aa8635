// Package app wires configuration, storage, sources and collaborators into
// runnable services.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/infrastructure/feeds"
	"NewsDigest/internal/infrastructure/llm"
	"NewsDigest/internal/infrastructure/scheduler"
	"NewsDigest/internal/infrastructure/smtp"
	"NewsDigest/internal/infrastructure/transcripts"
	"NewsDigest/internal/logging"
	"NewsDigest/internal/ports"
	"NewsDigest/internal/profiles"
	"NewsDigest/internal/store"
	"NewsDigest/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg     config.Config
	logger  *slog.Logger
	store   *store.Store
	profile domain.ProfileSpec

	ingest      *usecase.IngestService
	digest      *usecase.DigestService
	ranking     *usecase.RankingService
	notify      *usecase.NotifyService
	transcripts *usecase.TranscriptService
	pipeline    *usecase.Pipeline
}

// New builds a runnable application instance from configuration.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	a := &Application{cfg: cfg, logger: baseLogger, store: st}

	if cfg.Profile.Path != "" {
		spec, err := profiles.Load(cfg.Profile.Path)
		if err != nil {
			baseLogger.Warn("profile not loaded", "path", cfg.Profile.Path, "error", err)
		} else {
			a.profile = spec
		}
	}

	a.ingest = usecase.NewIngestService(usecase.IngestDeps{
		Videos:   a.videoSource(),
		Articles: a.articleSources(),
		Store:    st,
		Logger:   baseLogger,
	})

	if cfg.LLM.APIKey != "" {
		summarizer, err := llm.NewSummarizer(cfg.LLM.APIKey, agentSettings(cfg.LLM.Summarizer), baseLogger)
		if err != nil {
			st.Close()
			return nil, err
		}
		ranker, err := llm.NewRanker(cfg.LLM.APIKey, agentSettings(cfg.LLM.Ranker), baseLogger)
		if err != nil {
			st.Close()
			return nil, err
		}
		drafter, err := llm.NewDrafter(cfg.LLM.APIKey, agentSettings(cfg.LLM.Drafter), baseLogger)
		if err != nil {
			st.Close()
			return nil, err
		}

		a.digest = usecase.NewDigestService(usecase.DigestDeps{
			Store:      st,
			Summarizer: summarizer,
			Logger:     baseLogger,
		})
		a.ranking = usecase.NewRankingService(usecase.RankingDeps{
			Store:  st,
			Ranker: ranker,
			Logger: baseLogger,
		})
		a.notify = usecase.NewNotifyService(usecase.NotifyDeps{
			Store:     st,
			Drafter:   drafter,
			Transport: a.transport(),
			Recipient: cfg.Email.To,
			Logger:    baseLogger,
		})
	} else {
		baseLogger.Warn("llm api key not configured, summarization, ranking and notification disabled")
	}

	if cfg.Transcripts.APIURL != "" {
		provider := transcripts.NewClient(cfg.Transcripts.APIURL, cfg.Transcripts.APIKey, cfg.Transcripts.Retries, baseLogger)
		a.transcripts = usecase.NewTranscriptService(usecase.TranscriptDeps{
			Store:    st,
			Provider: provider,
			Logger:   baseLogger,
		})
	}

	a.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Ingest:  a.ingest,
		Digest:  a.digest,
		Ranking: a.ranking,
		Notify:  a.notify,
		Profile: a.profile,
		Window:  a.Window(),
		Limit:   cfg.Pipeline.Limit,
		Logger:  baseLogger,
	})

	return a, nil
}

// Close releases the application's resources.
func (a *Application) Close() error {
	return a.store.Close()
}

// Window is the lookback period for all stages.
func (a *Application) Window() time.Duration {
	return time.Duration(a.cfg.Pipeline.Hours) * time.Hour
}

// Ingest fetches fresh items from all configured sources.
func (a *Application) Ingest(ctx context.Context) (usecase.IngestStats, error) {
	return a.ingest.Run(ctx, a.Window())
}

// Digest summarizes all stored items without a digest record.
func (a *Application) Digest(ctx context.Context) (usecase.DigestStats, error) {
	if a.digest == nil {
		return usecase.DigestStats{}, errors.New("llm api key not configured")
	}
	return a.digest.Process(ctx, a.Window())
}

// Rank orders recent digest records for the configured profile.
func (a *Application) Rank(ctx context.Context) (usecase.RankingStats, error) {
	if a.ranking == nil {
		return usecase.RankingStats{}, errors.New("llm api key not configured")
	}
	return a.ranking.Rank(ctx, a.profile, a.Window())
}

// Notify drafts and sends the digest email for the configured profile.
func (a *Application) Notify(ctx context.Context) error {
	if a.notify == nil {
		return errors.New("llm api key not configured")
	}
	return a.notify.Notify(ctx, a.profile, a.Window(), a.cfg.Pipeline.Limit)
}

// Transcripts backfills missing video transcripts.
func (a *Application) Transcripts(ctx context.Context, limit int) (usecase.TranscriptStats, error) {
	if a.transcripts == nil {
		return usecase.TranscriptStats{}, errors.New("transcript api not configured")
	}
	return a.transcripts.Backfill(ctx, limit)
}

// RunOnce executes the full pipeline a single time.
func (a *Application) RunOnce(ctx context.Context) usecase.PipelineResult {
	return a.pipeline.Run(ctx)
}

// Schedule runs the pipeline on the configured cron expression until ctx is
// cancelled.
func (a *Application) Schedule(ctx context.Context) error {
	cr := scheduler.New(a.cfg.Scheduler.CronExpression, a.cfg.Scheduler.Location(), a.logger)

	err := cr.Start(ctx, func(at time.Time) {
		a.logger.Info("scheduled run fired", "at", at.Format(time.RFC3339))
		result := a.pipeline.Run(ctx)
		if result.Failed() {
			a.logger.Error("scheduled run had failures")
		}
	})
	if err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return cr.Stop(stopCtx)
}

func (a *Application) videoSource() ports.VideoSource {
	if len(a.cfg.Sources.YouTubeChannels) == 0 {
		return nil
	}
	return feeds.NewYouTubeSource(a.cfg.Sources.YouTubeChannels, a.logger)
}

func (a *Application) articleSources() []ports.ArticleSource {
	var enricher *feeds.ContentEnricher
	if a.cfg.Sources.FetchFullContent {
		enricher = feeds.NewContentEnricher()
	}

	var sources []ports.ArticleSource
	if a.cfg.Sources.OpenAIFeed != "" {
		sources = append(sources, feeds.NewRSSSource(
			domain.SourceOpenAI,
			[]feeds.Feed{{Name: "openai-news", URL: a.cfg.Sources.OpenAIFeed}},
			enricher,
			a.logger,
		))
	}
	if len(a.cfg.Sources.AnthropicFeeds) > 0 {
		var specs []feeds.Feed
		for _, f := range a.cfg.Sources.AnthropicFeeds {
			specs = append(specs, feeds.Feed{Name: f.Name, URL: f.URL})
		}
		sources = append(sources, feeds.NewRSSSource(domain.SourceAnthropic, specs, enricher, a.logger))
	}
	return sources
}

func (a *Application) transport() ports.Transport {
	e := a.cfg.Email
	if e.SMTPHost == "" || e.Username == "" || e.From == "" {
		return nil
	}
	return smtp.NewSender(e.SMTPHost, e.SMTPPort, e.Username, e.Password, e.From, a.logger)
}

func agentSettings(s config.AgentSettings) llm.Settings {
	return llm.Settings{MaxTokens: s.MaxTokens, Temperature: s.Temperature}
}
