package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"NavScan/internal/di"
	"NavScan/pkg/config"
	"NavScan/pkg/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "navscan",
		Short:        "Fetch fund NAV history and flag anomalous return patterns",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "config file path (empty for defaults)")

	stage := func(use, short string, run func(*server.App, context.Context) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := config.LoadWithEnv(configPath)
				if err != nil {
					return fmt.Errorf("config load failed: %w", err)
				}

				app, cleanup, err := di.InitializeApp(cfg)
				if err != nil {
					return fmt.Errorf("app initialization failed: %w", err)
				}
				defer cleanup()

				return run(app, cmd.Context())
			},
		}
	}

	root.AddCommand(
		stage("fetch", "Download NAV history and write the flat dataset", (*server.App).Fetch),
		stage("analyze", "Tag outliers and bursts, render charts and print the summary", (*server.App).Analyze),
		stage("run", "Fetch then analyze", (*server.App).Run),
	)
	return root
}
