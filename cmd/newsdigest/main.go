package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"NewsDigest/internal/app"
	"NewsDigest/internal/config"
	"NewsDigest/internal/logging"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var hours int
	var limit int

	root := &cobra.Command{
		Use:   "newsdigest",
		Short: "Personalized AI news digest pipeline",
		Long:  "Collects AI news from YouTube channels and vendor blogs, summarizes new items, ranks them for a user profile and emails a daily digest.",
	}

	root.PersistentFlags().IntVar(&hours, "hours", 0, "lookback window in hours (default from config)")
	root.PersistentFlags().IntVar(&limit, "limit", 0, "max items in the digest email (default from config)")

	build := func() (*app.Application, error) {
		cfg := config.Load()
		if hours > 0 {
			cfg.Pipeline.Hours = hours
		}
		if limit > 0 {
			cfg.Pipeline.Limit = limit
		}
		logger := logging.New(cfg.Logging.Level)
		return app.New(cfg, logger)
	}

	root.AddCommand(
		runCommand(build),
		ingestCommand(build),
		digestCommand(build),
		rankCommand(build),
		notifyCommand(build),
		transcriptsCommand(build),
		scheduleCommand(build),
	)

	return root
}

type builder func() (*app.Application, error)

func runCommand(build builder) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Execute the full pipeline once",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := build()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signalContext()
			defer stop()

			result := a.RunOnce(ctx)
			fmt.Printf("ingest: videos=%d articles=%d source_failures=%d\n",
				result.Ingest.Videos, result.Ingest.Articles, result.Ingest.SourceFailures)
			fmt.Printf("digest: processed=%d success=%d failed=%d skipped=%d\n",
				result.Digest.Processed, result.Digest.Success, result.Digest.Failed, result.Digest.Skipped)
			fmt.Printf("ranking: items=%d ranked=%d stored=%d\n",
				result.Ranking.Items, result.Ranking.Ranked, result.Ranking.Stored)

			// Per-item failures are already reflected in the stage stats;
			// the run as a whole still counts as delivered work.
			return nil
		},
	}
}

func ingestCommand(build builder) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Fetch fresh items from all sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := build()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signalContext()
			defer stop()

			stats, err := a.Ingest(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("videos=%d articles=%d source_failures=%d\n",
				stats.Videos, stats.Articles, stats.SourceFailures)
			return nil
		},
	}
}

func digestCommand(build builder) *cobra.Command {
	return &cobra.Command{
		Use:   "digest",
		Short: "Summarize stored items without a digest record",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := build()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signalContext()
			defer stop()

			stats, err := a.Digest(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("processed=%d success=%d failed=%d skipped=%d\n",
				stats.Processed, stats.Success, stats.Failed, stats.Skipped)
			return nil
		},
	}
}

func rankCommand(build builder) *cobra.Command {
	return &cobra.Command{
		Use:   "rank",
		Short: "Rank recent digests for the configured profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := build()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signalContext()
			defer stop()

			stats, err := a.Rank(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("items=%d ranked=%d stored=%d\n", stats.Items, stats.Ranked, stats.Stored)
			return nil
		},
	}
}

func notifyCommand(build builder) *cobra.Command {
	return &cobra.Command{
		Use:   "notify",
		Short: "Draft and send the digest email",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := build()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signalContext()
			defer stop()

			return a.Notify(ctx)
		},
	}
}

func transcriptsCommand(build builder) *cobra.Command {
	var batch int

	cmd := &cobra.Command{
		Use:   "transcripts",
		Short: "Backfill transcripts for stored videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := build()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signalContext()
			defer stop()

			stats, err := a.Transcripts(ctx, batch)
			if err != nil {
				return err
			}
			fmt.Printf("candidates=%d filled=%d failed=%d\n",
				stats.Candidates, stats.Filled, stats.Failed)
			return nil
		},
	}
	cmd.Flags().IntVar(&batch, "batch", 20, "max videos to backfill in one run")
	return cmd
}

func scheduleCommand(build builder) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run the pipeline on the configured cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := build()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signalContext()
			defer stop()

			return a.Schedule(ctx)
		},
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
