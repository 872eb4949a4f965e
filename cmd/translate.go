package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nirobo/nirobo-crawler/internal/enrich"
	"github.com/nirobo/nirobo-crawler/internal/store"
)

var translateOutput string

func newTranslateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate <inputFile> <targetLanguageCode>",
		Short: "Add translated title/description fields to stored records",
		Long: `Reads the record collection from inputFile, translates the title
and description of every record into the target language, and writes the
enriched collection. Translated fields are additive; original fields are
never overwritten. Transient translation failures are retried with
exponential backoff.`,
		Args: cobra.ExactArgs(2),
		RunE: runTranslateCommand,
	}
	cmd.Flags().StringVarP(&translateOutput, "output", "o", "",
		"output file (default: <input>_translated_<lang>.json)")
	return cmd
}

func runTranslateCommand(cmd *cobra.Command, args []string) error {
	inputFile, targetLang := args[0], args[1]
	outputFile := translateOutput
	if outputFile == "" {
		outputFile = defaultTranslateOutput(inputFile, targetLang)
	}

	if _, err := os.Stat(inputFile); err != nil {
		return fmt.Errorf("open input file: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	translator, err := enrich.NewGoogleTranslator(ctx, cfg.Enrich.CredentialsFile)
	if err != nil {
		return fmt.Errorf("init translator: %w", err)
	}
	defer translator.Close()

	in := store.New(inputFile, logger)
	records := in.LoadAll()
	logger.Info("loaded records",
		zap.Int("count", len(records)),
		zap.String("input", inputFile),
		zap.String("target_lang", targetLang),
		zap.String("output", outputFile),
	)

	policy := enrich.NewRetryPolicy(
		cfg.Enrich.MaxRetries,
		cfg.Enrich.BackoffInitial(),
		cfg.Enrich.BackoffMax(),
	)
	engine := enrich.NewEngine(translator, policy, logger)
	enriched, stats := engine.Run(ctx, records, targetLang)

	// Merge back via the store's update contract: enriched records replace
	// their originals in place.
	out := store.New(outputFile, logger)
	for _, rec := range enriched {
		if err := out.Update(rec); err != nil {
			return fmt.Errorf("write enriched record %s: %w", rec.URL, err)
		}
	}

	logger.Info("translation finished",
		zap.Int("attempted", stats.Attempted),
		zap.Int("succeeded", stats.Succeeded),
		zap.Int("failed", stats.Failed),
		zap.Duration("elapsed", stats.Elapsed),
	)
	return nil
}

func defaultTranslateOutput(inputFile, targetLang string) string {
	ext := filepath.Ext(inputFile)
	base := strings.TrimSuffix(inputFile, ext)
	if ext == "" {
		ext = ".json"
	}
	return fmt.Sprintf("%s_translated_%s%s", base, targetLang, ext)
}
