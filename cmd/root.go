package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const appName = "offerworker"

// rootOptions holds the persistent flags shared by every subcommand
type rootOptions struct {
	logLevel string
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   appName,
		Short: "Collects package holiday offers from travel agency sites into a catalog",
		Long: `offerworker scrapes the search pages of Travelplanet, Wakacje.pl and Fly.pl,
normalizes the offers against a search profile and merges them into the
offer catalog. Configuration comes from the environment (and .env).`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")

	root.AddCommand(
		newScrapeCmd(opts),
		newScheduleCmd(opts),
		newCleanupCmd(opts),
	)
	return root
}

// Execute runs the CLI until it finishes or the process is interrupted
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}
