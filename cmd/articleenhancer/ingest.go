package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Scrape the oldest blog posts and store them as originals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, cleanup, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			summary, err := application.Ingest(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved: %d, skipped: %d, failed: %d\n", summary.Saved, summary.Skipped, summary.Failed)
			return nil
		},
	}
}
