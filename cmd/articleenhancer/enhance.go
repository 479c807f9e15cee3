package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ArticleEnhancer/internal/domain"
)

func newEnhanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enhance <article-id>",
		Short: "Enhance one original article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, cleanup, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := application.Enhance(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", domain.Kind(err), err)
			}

			out := cmd.OutOrStdout()
			if res.AlreadyExisted {
				fmt.Fprintf(out, "enhanced version already exists: %s\n", res.Article.ID)
				return nil
			}
			fmt.Fprintf(out, "enhanced %s -> %s (%d references)\n", args[0], res.Article.ID, len(res.Article.References))
			return nil
		},
	}
}

func newEnhanceAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enhance-all",
		Short: "Enhance every original article that has no enhanced version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, cleanup, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			summary, err := application.EnhanceAll(cmd.Context())
			fmt.Fprint(cmd.OutOrStdout(), summary.Message())
			return err
		},
	}
}
