package main

import (
	"os"

	"github.com/dunamismax/folio/internal/config"
	"github.com/dunamismax/folio/internal/logging"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logger, err := logging.New("folioctl", cfg.Log.Level)
	if err != nil {
		logger = zap.NewNop()
	}
	defer func() { _ = logger.Sync() }()

	if err := newRootCmd(cfg, logger).Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}
