package recommendation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"recommendationService/domain"
	"recommendationService/pkg/logger"
	"recommendationService/pkg/metrics"
)

// RecommendationRepository contract interface
type RecommendationRepository interface {
	Create(ctx context.Context, rec *domain.Recommendation) error
	FindByID(ctx context.Context, id uint64) (domain.Recommendation, error)
	FindAll(ctx context.Context) ([]domain.Recommendation, error)
	FindByFilter(ctx context.Context, filter domain.RecommendationFilter) ([]domain.Recommendation, error)
	Update(ctx context.Context, rec *domain.Recommendation) error
	IncrementSuccess(ctx context.Context, id uint64) error
	Delete(ctx context.Context, id uint64) error
	DeleteAll(ctx context.Context) error
}

// storableID reports whether id fits the BIGINT primary key. Other ids can
// never match a row.
func storableID(id uint64) bool {
	return id > 0 && id <= math.MaxInt64
}

type recommendationService struct {
	recommendationRepo RecommendationRepository
}

func NewRecommendationService(recommendationRepo RecommendationRepository) *recommendationService {
	return &recommendationService{
		recommendationRepo: recommendationRepo,
	}
}

// ListRecommendations returns every recommendation when filter is empty,
// otherwise the rows matching all of its set fields.
func (s *recommendationService) ListRecommendations(ctx context.Context, filter domain.RecommendationFilter) ([]domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when listing recommendations", "error", err)
		return nil, fmt.Errorf("context error: %w", err)
	}

	var (
		recs []domain.Recommendation
		err  error
	)
	if filter.IsEmpty() {
		recs, err = s.recommendationRepo.FindAll(ctx)
	} else {
		recs, err = s.recommendationRepo.FindByFilter(ctx, filter)
	}
	metrics.ObserveOperation("list", err)
	if err != nil {
		logger.Error("Failed to list recommendations", "error", err)
		return nil, err
	}

	if recs == nil {
		recs = []domain.Recommendation{}
	}

	return recs, nil
}

func (s *recommendationService) GetRecommendation(ctx context.Context, id uint64) (domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get recommendation by id", "error", err)
		return domain.Recommendation{}, fmt.Errorf("context error: %w", err)
	}

	if !storableID(id) {
		return domain.Recommendation{}, domain.ErrRecommendationNotFound
	}

	rec, err := s.recommendationRepo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrRecommendationNotFound) {
			logger.Error("Failed to find recommendation", "id", id, "error", err)
		}
		return domain.Recommendation{}, err
	}

	return rec, nil
}

func (s *recommendationService) CreateRecommendation(ctx context.Context, in domain.RecommendationInput) (domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create recommendation", "error", err)
		return domain.Recommendation{}, fmt.Errorf("context error: %w", err)
	}

	if err := in.Validate(); err != nil {
		return domain.Recommendation{}, err
	}

	rec := domain.NewRecommendation(in)

	err := s.recommendationRepo.Create(ctx, &rec)
	metrics.ObserveOperation("create", err)
	if err != nil {
		logger.Error("Failed to create recommendation", "error", err)
		return domain.Recommendation{}, err
	}

	logger.Info("Recommendation created", "id", rec.ID)

	return rec, nil
}

// UpdateRecommendation overwrites every client-managed field of an existing
// row; rec_success is left as stored.
func (s *recommendationService) UpdateRecommendation(ctx context.Context, id uint64, in domain.RecommendationInput) (domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when updating recommendation", "error", err)
		return domain.Recommendation{}, fmt.Errorf("context error: %w", err)
	}

	// Verify recommendation exists
	rec, err := s.GetRecommendation(ctx, id)
	if err != nil {
		return domain.Recommendation{}, err
	}

	if err := in.Validate(); err != nil {
		return domain.Recommendation{}, err
	}

	rec.ApplyInput(in)
	rec.ID = id

	err = s.recommendationRepo.Update(ctx, &rec)
	metrics.ObserveOperation("update", err)
	if err != nil {
		logger.Error("Failed to update recommendation", "id", id, "error", err)
		return domain.Recommendation{}, err
	}

	// Get updated recommendation from database
	updated, err := s.recommendationRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to fetch updated recommendation", "id", id, "error", err)
		return domain.Recommendation{}, err
	}

	logger.Info("Recommendation updated", "id", id)

	return updated, nil
}

func (s *recommendationService) IncrementSuccess(ctx context.Context, id uint64) (domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when incrementing recommendation success", "error", err)
		return domain.Recommendation{}, fmt.Errorf("context error: %w", err)
	}

	if !storableID(id) {
		return domain.Recommendation{}, domain.ErrRecommendationNotFound
	}

	err := s.recommendationRepo.IncrementSuccess(ctx, id)
	metrics.ObserveOperation("success", err)
	if err != nil {
		if !errors.Is(err, domain.ErrRecommendationNotFound) {
			logger.Error("Failed to increment recommendation success", "id", id, "error", err)
		}
		return domain.Recommendation{}, err
	}
	metrics.RecommendationSuccessIncrements.Inc()

	rec, err := s.recommendationRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to fetch recommendation after increment", "id", id, "error", err)
		return domain.Recommendation{}, err
	}

	return rec, nil
}

// DeleteRecommendation removes the row if present. A missing id is not an error.
func (s *recommendationService) DeleteRecommendation(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when deleting recommendation", "error", err)
		return fmt.Errorf("context error: %w", err)
	}

	if !storableID(id) {
		return nil
	}

	err := s.recommendationRepo.Delete(ctx, id)
	metrics.ObserveOperation("delete", err)
	if err != nil {
		logger.Error("Failed to delete recommendation", "id", id, "error", err)
		return err
	}

	logger.Info("Recommendation deleted", "id", id)

	return nil
}

func (s *recommendationService) ResetRecommendations(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when resetting recommendations", "error", err)
		return fmt.Errorf("context error: %w", err)
	}

	err := s.recommendationRepo.DeleteAll(ctx)
	metrics.ObserveOperation("reset", err)
	if err != nil {
		logger.Error("Failed to reset recommendations", "error", err)
		return err
	}

	logger.Warn("All recommendations removed")

	return nil
}
