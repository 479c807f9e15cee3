package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ArticleEnhancer/internal/app"
	"ArticleEnhancer/internal/config"
	"ArticleEnhancer/internal/logging"
)

var configPath string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "articleenhancer",
		Short:        "Rewrite blog articles using top-ranking references",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config (default $ARTICLE_ENHANCER_CONFIG)")

	root.AddCommand(newServeCmd(), newEnhanceCmd(), newEnhanceAllCmd(), newIngestCmd())
	return root
}

// buildApp loads configuration and wires the application for a subcommand.
func buildApp(cmd *cobra.Command) (*app.Application, func(), error) {
	cfg := config.Load(configPath)
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	application, err := app.New(cmd.Context(), cfg, logger)
	if err != nil {
		logger.Error("application init failed", "error", err)
		return nil, nil, err
	}
	cleanup := func() {
		if err := application.Close(); err != nil {
			logger.Warn("close application", "error", err)
		}
	}
	return application, cleanup, nil
}
