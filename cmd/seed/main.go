package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spacesedan/feedbackflow/config"
	"github.com/spacesedan/feedbackflow/internal/bootstrap"
	"github.com/spacesedan/feedbackflow/internal/db"
	"github.com/spacesedan/feedbackflow/internal/logging"
	"github.com/spacesedan/feedbackflow/internal/models"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Validate a YAML/JSON feedback file and insert it into the configured store",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			return seed(input)
		},
	}
	cmd.Flags().String("input", "config/seed/feedback.yaml", "YAML/JSON file with feedback entries")
	return cmd
}

func seed(input string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logging.InitLogger(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	entries, err := db.NewFileSource(input).ListFeedback(ctx)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	validator := models.NewEntryValidator()
	valid := make([]models.FeedbackEntry, 0, len(entries))
	for _, entry := range entries {
		if err := validator.Validate(entry); err != nil {
			slog.Warn("[Seed] Skipping invalid entry", slog.String("error", err.Error()))
			continue
		}
		valid = append(valid, entry)
	}

	store, closeStore, err := bootstrap.FeedbackStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open feedback store: %w", err)
	}
	defer closeStore()

	if pg, ok := store.(*db.PostgresStore); ok {
		if err := pg.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("prepare schema: %w", err)
		}
	}

	if err := store.InsertFeedback(ctx, valid); err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	slog.Info("[Seed] Done", slog.Int("inserted", len(valid)), slog.Int("skipped", len(entries)-len(valid)))
	return nil
}
