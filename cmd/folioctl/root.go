package main

import (
	"github.com/dunamismax/folio/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd(cfg config.Config, logger *zap.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "folioctl",
		Short:         "Maintenance tasks for the folio portfolio backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newNormalizeCmd(cfg, logger),
		newHashPasswordCmd(),
		newMigrateCmd(cfg, logger),
	)
	return root
}
