package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newCleanupCmd(root *rootOptions) *cobra.Command {
	var retention time.Duration

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete collection run history older than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, appOptions{logLevel: root.logLevel, logOut: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			defer a.close()

			if retention <= 0 {
				retention = a.cfg.RunRetention
			}
			deleted, err := a.worker(a.cfg.StrictNormalize).Cleanup(ctx, retention)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d runs older than %s\n", deleted, retention)
			return nil
		},
	}

	cmd.Flags().DurationVar(&retention, "retention", 0, "history to keep (default RUN_RETENTION_HOURS)")
	return cmd
}
