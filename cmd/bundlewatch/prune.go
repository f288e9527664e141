package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove local history older than storage.retention_days",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), 0)
			if err != nil {
				return err
			}
			defer rt.Close()
			if rt.local == nil {
				return errLocalOnly
			}
			if err := rt.local.Prune(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned history older than %d days\n", rt.cfg.Storage.RetentionDays)
			return nil
		},
	}
}
