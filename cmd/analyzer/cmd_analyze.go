package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/spacesedan/feedbackflow/internal/bootstrap"
	"github.com/spacesedan/feedbackflow/internal/models"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Run the full analysis and print an AnalysisReport",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, load)
		},
	}
}

func runAnalyze(cmd *cobra.Command, load configLoader) error {
	ctx := cmd.Context()
	env, err := openEnv(cmd, load)
	if err != nil {
		return err
	}
	defer env.close()

	pipeline, closeBackends, err := bootstrap.Pipeline(ctx, env.cfg)
	if err != nil {
		return err
	}
	defer closeBackends()

	entries, err := env.source.ListFeedback(ctx)
	if err != nil {
		return err
	}

	return writeJSON(cmd, models.AnalysisReport{
		RunID:      uuid.NewString(),
		EntryCount: len(entries),
		AnalyzedAt: time.Now().UTC(),
		Result:     pipeline.Analyze(ctx, entries),
	})
}
