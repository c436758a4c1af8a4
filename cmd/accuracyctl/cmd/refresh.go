package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Recompute and persist per-period accuracy metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, ctx, cleanup, err := dial(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		resp, err := client.RefreshMetrics(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to refresh metrics: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Refreshed %d metric snapshots\n", int(resp.GetFields()["updated"].GetNumberValue()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
