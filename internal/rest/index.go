package rest

import (
	"context"
	"net/http"
	"recommendationService/pkg/logger"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type ServiceInfo struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Resources map[string]string `json:"resources"`
}

type IndexHandler struct {
	info   ServiceInfo
	health HealthChecker
}

func NewIndexHandler(name, version string, health HealthChecker) *IndexHandler {
	return &IndexHandler{
		info: ServiceInfo{
			Name:    name,
			Version: version,
			Resources: map[string]string{
				"recommendations": "/recommendations",
				"health":          "/healthz",
				"metrics":         "/metrics",
			},
		},
		health: health,
	}
}

func (h *IndexHandler) Index(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.info))
}

func (h *IndexHandler) Health(c echo.Context) error {
	if h.health == nil {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.health.Ping(ctx); err != nil {
		logger.Warn("Health check failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
