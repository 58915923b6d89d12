package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/feedbackflow/config"
	"github.com/spf13/cobra"
)

// configLoader lets tests hand the commands a Config without touching the environment.
type configLoader func() (config.Config, error)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(config.Load).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(load configLoader) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "analyzer",
		Short: "Analyze customer feedback once and print the report as JSON",
		Long: `analyzer reads every feedback entry from the configured store (or a
YAML/JSON file), classifies it, summarizes pains and praises and asks the
configured generator for one recommendation.

Without a subcommand it behaves like "analyze", or like "list" with --list.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			listOnly, _ := cmd.Flags().GetBool("list")
			if listOnly {
				return runList(cmd, load)
			}
			return runAnalyze(cmd, load)
		},
	}

	rootCmd.PersistentFlags().String("input", "", "read feedback from a YAML/JSON file instead of the configured store")
	rootCmd.Flags().Bool("list", false, "print rating-based labels only, without calling any backend")

	rootCmd.AddCommand(
		newAnalyzeCmd(load),
		newListCmd(load),
	)
	return rootCmd
}
