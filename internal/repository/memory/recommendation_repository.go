package memory

import (
	"context"
	"fmt"
	"recommendationService/domain"
	"sort"
	"sync"
)

// RecommendationRepository keeps recommendations in process memory. It
// satisfies the same contract as the gorm repository and backs DB_DRIVER=memory.
type RecommendationRepository struct {
	mu     sync.RWMutex
	nextID uint64
	rows   map[uint64]domain.Recommendation
}

func NewRecommendationRepository() *RecommendationRepository {
	return &RecommendationRepository{
		rows: make(map[uint64]domain.Recommendation),
	}
}

func (r *RecommendationRepository) Create(ctx context.Context, rec *domain.Recommendation) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	rec.ID = r.nextID
	r.rows[rec.ID] = *rec

	return nil
}

func (r *RecommendationRepository) FindByID(ctx context.Context, id uint64) (domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return domain.Recommendation{}, fmt.Errorf("context error: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.rows[id]
	if !ok {
		return domain.Recommendation{}, domain.ErrRecommendationNotFound
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

	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := make([]domain.Recommendation, 0, len(r.rows))
	for _, rec := range r.rows {
		if filter.Matches(rec) {
			recs = append(recs, rec)
		}
	}

	sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })

	return recs, nil
}

// Update overwrites the client-managed fields. Unknown ids are ignored; callers
// check existence first.
func (r *RecommendationRepository) Update(ctx context.Context, rec *domain.Recommendation) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.rows[rec.ID]
	if !ok {
		return nil
	}

	stored.ProductID = rec.ProductID
	stored.CustomerID = rec.CustomerID
	stored.RecommendType = rec.RecommendType
	stored.RecommendProductID = rec.RecommendProductID
	r.rows[rec.ID] = stored

	return nil
}

func (r *RecommendationRepository) IncrementSuccess(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.rows[id]
	if !ok {
		return domain.ErrRecommendationNotFound
	}

	stored.RecSuccess++
	r.rows[id] = stored

	return nil
}

func (r *RecommendationRepository) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rows, id)

	return nil
}

func (r *RecommendationRepository) DeleteAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.rows = make(map[uint64]domain.Recommendation)

	return nil
}

// Ping always succeeds; there is no server to reach.
func (r *RecommendationRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}
