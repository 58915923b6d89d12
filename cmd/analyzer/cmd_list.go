package main

import (
	"github.com/spacesedan/feedbackflow/internal/analysis"
	"github.com/spacesedan/feedbackflow/internal/backend"
	"github.com/spacesedan/feedbackflow/internal/bootstrap"
	"github.com/spf13/cobra"
)

func newListCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print \"<name>: <classification>\" for every entry using ratings and keywords only",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, load)
		},
	}
}

func runList(cmd *cobra.Command, load configLoader) error {
	env, err := openEnv(cmd, load)
	if err != nil {
		return err
	}
	defer env.close()

	lex, err := bootstrap.Lexicon(env.cfg)
	if err != nil {
		return err
	}
	// listing never calls a backend, so none are built
	noBackends := backend.NewBackends(backend.None[backend.Scorer](), backend.None[backend.Condenser](), backend.None[backend.Generator]())
	pipeline := analysis.New(lex, noBackends, analysis.Settings{MaxInputRunes: env.cfg.MaxInputRunes})

	entries, err := env.source.ListFeedback(cmd.Context())
	if err != nil {
		return err
	}
	return writeJSON(cmd, pipeline.DefaultClassifications(entries))
}
