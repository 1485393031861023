package cmd

import (
	"context"
	"fmt"
	"recommendationService/business/recommendation"
	"recommendationService/pkg/config"
	"recommendationService/pkg/logger"
	"time"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every recommendation",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger.Init(cfg.App.Environment, cfg.App.LogLevel)
		defer logger.Sync()

		s, closeStore, err := openStore(cfg.Database)
		if err != nil {
			return err
		}
		defer closeStore()

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		return recommendation.NewRecommendationService(s).ResetRecommendations(ctx)
	},
}
