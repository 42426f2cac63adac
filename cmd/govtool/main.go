package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stake-plus/govtool/src/config"
	"github.com/stake-plus/govtool/src/logging"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "govtool",
		Short:         "Cardano governance proposals and DRep registration",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newMetadataCommand())
	cmd.AddCommand(newProposalsCommand())
	cmd.AddCommand(newDRepIDCommand())
	return cmd
}

// setup loads configuration and builds the logger every command uses.
func setup() (config.Config, *zap.Logger, error) {
	cfg := config.Load()
	logger, err := logging.New(logging.Options{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		File:        cfg.Log.File,
	})
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger, nil
}
