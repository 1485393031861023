package cmd

import (
	"context"
	"fmt"
	"recommendationService/business/recommendation"
	"recommendationService/internal/repository/memory"
	psqlRepo "recommendationService/internal/repository/postgres"
	"recommendationService/pkg/config"
	"recommendationService/pkg/database"
	"recommendationService/pkg/logger"
)

type store interface {
	recommendation.RecommendationRepository
	Ping(ctx context.Context) error
}

type migrator interface {
	Migrate(ctx context.Context) error
}

// openStore returns the repository selected by DB_DRIVER and a func that
// releases it.
func openStore(cfg config.DatabaseConfig) (store, func(), error) {
	if cfg.Driver == config.DriverMemory {
		logger.Warn("Using in-memory store, data is lost on exit")
		return memory.NewRecommendationRepository(), func() {}, nil
	}

	db, err := database.InitDatabase(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Database connected successfully", "driver", cfg.Driver)

	closeFn := func() {
		if err := database.Close(db); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}

	return psqlRepo.NewRecommendationRepository(db), closeFn, nil
}

func migrate(ctx context.Context, s store) error {
	m, ok := s.(migrator)
	if !ok {
		return nil
	}

	if err := m.Migrate(ctx); err != nil {
		return err
	}

	logger.Info("Database schema is up to date")

	return nil
}
