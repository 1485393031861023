package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"recommendationService/domain"

	"gorm.io/gorm"
)

// RecommendationRepository is the gorm-backed store. The queries are plain
// enough to run on the mysql dialector as well.
type RecommendationRepository struct {
	DB *gorm.DB
}

func NewRecommendationRepository(db *gorm.DB) *RecommendationRepository {
	return &RecommendationRepository{
		DB: db,
	}
}

// Migrate creates or alters the recommendations table to match the model.
func (r *RecommendationRepository) Migrate(ctx context.Context) error {
	if err := r.DB.WithContext(ctx).AutoMigrate(&domain.Recommendation{}); err != nil {
		return fmt.Errorf("failed to migrate recommendations: %w: %w", domain.ErrPersistence, err)
	}

	return nil
}

func (r *RecommendationRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql db: %w", err)
	}

	return sqlDB.PingContext(ctx)
}

func (r *RecommendationRepository) Create(ctx context.Context, rec *domain.Recommendation) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to create recommendation: %w: %w", domain.ErrPersistence, err)
	}

	return nil
}

func (r *RecommendationRepository) FindByID(ctx context.Context, id uint64) (domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return domain.Recommendation{}, fmt.Errorf("context error: %w", err)
	}

	// ids past the BIGINT range cannot be encoded as a parameter
	if id > math.MaxInt64 {
		return domain.Recommendation{}, domain.ErrRecommendationNotFound
	}

	var rec domain.Recommendation

	err := r.DB.WithContext(ctx).First(&rec, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Recommendation{}, domain.ErrRecommendationNotFound
		}
		return domain.Recommendation{}, fmt.Errorf("failed to find recommendation: %w: %w", domain.ErrPersistence, err)
	}

	return rec, nil
}

func (r *RecommendationRepository) FindAll(ctx context.Context) ([]domain.Recommendation, error) {
	return r.FindByFilter(ctx, domain.RecommendationFilter{})
}

func (r *RecommendationRepository) FindByFilter(ctx context.Context, filter domain.RecommendationFilter) ([]domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	query := r.DB.WithContext(ctx).Model(&domain.Recommendation{})
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.RecommendType != "" {
		query = query.Where("recommend_type = ?", filter.RecommendType)
	}

	var recs []domain.Recommendation
	if err := query.Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to find recommendations: %w: %w", domain.ErrPersistence, err)
	}

	return recs, nil
}

// Update writes the client-managed columns only. rec_success is changed
// exclusively through IncrementSuccess.
func (r *RecommendationRepository) Update(ctx context.Context, rec *domain.Recommendation) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).Model(&domain.Recommendation{}).
		Where("id = ?", rec.ID).
		Updates(map[string]any{
			"product_id":           rec.ProductID,
			"customer_id":          rec.CustomerID,
			"recommend_type":       rec.RecommendType,
			"recommend_product_id": rec.RecommendProductID,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update recommendation: %w: %w", domain.ErrPersistence, err)
	}

	return nil
}

// IncrementSuccess bumps rec_success in a single UPDATE so concurrent calls
// never lose a count.
func (r *RecommendationRepository) IncrementSuccess(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if id > math.MaxInt64 {
		return domain.ErrRecommendationNotFound
	}

	result := r.DB.WithContext(ctx).Model(&domain.Recommendation{}).
		Where("id = ?", id).
		UpdateColumn("rec_success", gorm.Expr("rec_success + ?", 1))
	if result.Error != nil {
		return fmt.Errorf("failed to increment recommendation success: %w: %w", domain.ErrPersistence, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrRecommendationNotFound
	}

	return nil
}

func (r *RecommendationRepository) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if id > math.MaxInt64 {
		return nil
	}

	if err := r.DB.WithContext(ctx).Delete(&domain.Recommendation{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete recommendation: %w: %w", domain.ErrPersistence, err)
	}

	return nil
}

func (r *RecommendationRepository) DeleteAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&domain.Recommendation{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete all recommendations: %w: %w", domain.ErrPersistence, err)
	}

	return nil
}
