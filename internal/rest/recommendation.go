package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"recommendationService/domain"
	"recommendationService/pkg/logger"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

const defaultTimeout = 10 * time.Second

// errIDOutOfRange marks a well-formed integer id too large for the store.
// No row can have it.
var errIDOutOfRange = fmt.Errorf("out of range: %w", domain.ErrRecommendationNotFound)

type RecommendationService interface {
	ListRecommendations(ctx context.Context, filter domain.RecommendationFilter) ([]domain.Recommendation, error)
	GetRecommendation(ctx context.Context, id uint64) (domain.Recommendation, error)
	CreateRecommendation(ctx context.Context, in domain.RecommendationInput) (domain.Recommendation, error)
	UpdateRecommendation(ctx context.Context, id uint64, in domain.RecommendationInput) (domain.Recommendation, error)
	IncrementSuccess(ctx context.Context, id uint64) (domain.Recommendation, error)
	DeleteRecommendation(ctx context.Context, id uint64) error
	ResetRecommendations(ctx context.Context) error
}

type RecommendationHandler struct {
	recommendationService RecommendationService
	timeout               time.Duration
}

func NewRecommendationHandler(recommendationService RecommendationService, timeout time.Duration) *RecommendationHandler {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &RecommendationHandler{
		recommendationService: recommendationService,
		timeout:               timeout,
	}
}

// ListRecommendations handles GET /recommendations. Query parameters use
// underscores; product-id, customer-id and recommend-type are accepted when the
// underscore form is missing.
func (h *RecommendationHandler) ListRecommendations(c echo.Context) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	recs, err := h.recommendationService.ListRecommendations(ctx, filter)
	if err != nil {
		return err
	}

	if len(recs) == 0 && !filter.IsEmpty() {
		return fmt.Errorf("no recommendations match the given filters: %w", domain.ErrRecommendationNotFound)
	}

	return c.JSON(http.StatusOK, recs)
}

func (h *RecommendationHandler) GetRecommendation(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rec, err := h.recommendationService.GetRecommendation(ctx, id)
	if err != nil {
		return notFoundWithID(err, id)
	}

	return c.JSON(http.StatusOK, rec)
}

func (h *RecommendationHandler) CreateRecommendation(c echo.Context) error {
	in, err := readInput(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rec, err := h.recommendationService.CreateRecommendation(ctx, in)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, resourceURL(c, rec.ID))

	return c.JSON(http.StatusCreated, rec)
}

// UpdateRecommendation handles PUT /recommendations/:id. A missing row wins
// over a bad body.
func (h *RecommendationHandler) UpdateRecommendation(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	in, decodeErr := readInput(c)
	if decodeErr != nil {
		if _, err := h.recommendationService.GetRecommendation(ctx, id); err != nil {
			return notFoundWithID(err, id)
		}
		return decodeErr
	}

	rec, err := h.recommendationService.UpdateRecommendation(ctx, id, in)
	if err != nil {
		return notFoundWithID(err, id)
	}

	return c.JSON(http.StatusOK, rec)
}

func (h *RecommendationHandler) IncrementSuccess(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rec, err := h.recommendationService.IncrementSuccess(ctx, id)
	if err != nil {
		return notFoundWithID(err, id)
	}

	return c.JSON(http.StatusOK, rec)
}

func (h *RecommendationHandler) DeleteRecommendation(c echo.Context) error {
	id, err := parseID(c)
	if errors.Is(err, errIDOutOfRange) {
		return c.NoContent(http.StatusNoContent)
	}
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.recommendationService.DeleteRecommendation(ctx, id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *RecommendationHandler) ResetRecommendations(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.recommendationService.ResetRecommendations(ctx); err != nil {
		return err
	}

	logger.Warn("Recommendations reset over HTTP", "remote_ip", c.RealIP())

	return c.NoContent(http.StatusNoContent)
}

// parseID reads the :id path parameter. Anything that is not a positive
// integer in the BIGINT range cannot name a row, so it is reported as not found.
func parseID(c echo.Context) (uint64, error) {
	raw := c.Param("id")

	id, err := strconv.ParseUint(raw, 10, 63)
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("recommendation id %s: %w", raw, errIDOutOfRange)
	}
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid recommendation id %q: %w", raw, domain.ErrRecommendationNotFound)
	}

	return id, nil
}

func notFoundWithID(err error, id uint64) error {
	if errors.Is(err, domain.ErrRecommendationNotFound) {
		return domain.NotFoundError{ID: id}
	}

	return err
}

func readInput(c echo.Context) (domain.RecommendationInput, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		// BodyLimit reports oversized chunked bodies through the reader
		var herr *echo.HTTPError
		if errors.As(err, &herr) {
			return domain.RecommendationInput{}, herr
		}
		return domain.RecommendationInput{}, domain.NewValidationError("body", "could not be read")
	}

	return domain.DecodeRecommendationInput(body)
}

func parseFilter(c echo.Context) (domain.RecommendationFilter, error) {
	var filter domain.RecommendationFilter
	verr := &domain.ValidationError{}

	if raw := queryParam(c, "product_id", "product-id"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			verr.Add("product_id", "must be an integer")
		} else {
			filter.ProductID = &v
		}
	}

	if raw := queryParam(c, "customer_id", "customer-id"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			verr.Add("customer_id", "must be an integer")
		} else {
			filter.CustomerID = &v
		}
	}

	filter.RecommendType = queryParam(c, "recommend_type", "recommend-type")

	if len(verr.Errors) > 0 {
		return domain.RecommendationFilter{}, verr
	}

	return filter, nil
}

func queryParam(c echo.Context, name, alias string) string {
	if v := c.QueryParam(name); v != "" {
		return v
	}

	return c.QueryParam(alias)
}

func resourceURL(c echo.Context, id uint64) string {
	return fmt.Sprintf("%s://%s/recommendations/%d", c.Scheme(), c.Request().Host, id)
}
