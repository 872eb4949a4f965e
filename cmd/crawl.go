package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nirobo/nirobo-crawler/internal/api"
	"github.com/nirobo/nirobo-crawler/internal/crawler"
	"github.com/nirobo/nirobo-crawler/internal/extract"
	"github.com/nirobo/nirobo-crawler/internal/store"
)

func newCrawlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crawl",
		Short: "Crawl the configured news domains",
		Long: `Crawls the configured seed URLs across the allowlisted domains,
extracting one normalized record per page into the deduplicated JSON
collection. The run stops once the visited-page ceiling is reached.`,
		RunE: runCrawlCommand,
	}
}

func runCrawlCommand(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	log := logger.With(zap.String("run_id", runID))

	fetcher, err := crawler.NewCollyFetcher(cfg.Crawler, log)
	if err != nil {
		return fmt.Errorf("init fetcher: %w", err)
	}

	frontier := crawler.NewFrontier(
		cfg.Crawler.AllowedDomains,
		cfg.Crawler.ExcludeKeywords,
		cfg.Crawler.MaxURLLength,
		cfg.Crawler.MaxPages,
	)
	progress := crawler.NewProgress(runID)
	engine := crawler.NewEngine(
		cfg.Crawler,
		frontier,
		fetcher,
		extract.New(cfg.Crawler, log),
		store.New(cfg.Crawler.OutputFile, log),
		progress,
		log,
	)

	if cfg.Server.Port > 0 {
		server := api.NewServer(progress, log)
		go func() {
			if serr := server.Serve(ctx, cfg.Server.Port); serr != nil {
				log.Warn("status server stopped", zap.Error(serr))
			}
		}()
	}

	log.Info("starting crawl",
		zap.Strings("seeds", cfg.Crawler.Seeds),
		zap.Int("max_pages", cfg.Crawler.MaxPages),
		zap.Int("concurrency", cfg.Crawler.Concurrency),
	)
	if err := engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run crawl: %w", err)
	}
	return nil
}
