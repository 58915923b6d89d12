package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spacesedan/feedbackflow/config"
	"github.com/spacesedan/feedbackflow/internal/bootstrap"
	"github.com/spacesedan/feedbackflow/internal/db"
	"github.com/spacesedan/feedbackflow/internal/logging"
	"github.com/spf13/cobra"
)

type commandEnv struct {
	cfg    config.Config
	source db.FeedbackSource
	close  func()
}

// openEnv loads the config, points logging at stderr so stdout carries only
// the JSON result, and opens the feedback source named by --input or the config.
func openEnv(cmd *cobra.Command, load configLoader) (commandEnv, error) {
	cfg, err := load()
	if err != nil {
		return commandEnv{}, fmt.Errorf("invalid configuration: %w", err)
	}
	slog.SetDefault(slog.New(logging.NewHandler(cmd.ErrOrStderr(), logging.ParseLevel(cfg.LogLevel))))

	input, _ := cmd.Flags().GetString("input")
	if input != "" {
		return commandEnv{cfg: cfg, source: db.NewFileSource(input), close: func() {}}, nil
	}

	store, closeStore, err := bootstrap.FeedbackStore(cmd.Context(), cfg)
	if err != nil {
		return commandEnv{}, fmt.Errorf("open feedback store: %w", err)
	}
	return commandEnv{cfg: cfg, source: store, close: closeStore}, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
