package cmd

import (
	"context"
	"fmt"
	"recommendationService/pkg/config"
	"recommendationService/pkg/logger"
	"time"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the recommendations table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger.Init(cfg.App.Environment, cfg.App.LogLevel)
		defer logger.Sync()

		if cfg.Database.Driver == config.DriverMemory {
			return fmt.Errorf("migrate needs a SQL driver, DB_DRIVER is %q", cfg.Database.Driver)
		}

		s, closeStore, err := openStore(cfg.Database)
		if err != nil {
			return err
		}
		defer closeStore()

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		return migrate(ctx, s)
	},
}
