package router

import (
	"context"
	"net/http"
	"recommendationService/internal/middleware"
	"recommendationService/internal/rest"
	"recommendationService/pkg/config"
	"recommendationService/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options collects what New needs beyond the handlers themselves.
type Options struct {
	CORSAllowOrigins []string
	RateLimit        echo.MiddlewareFunc
}

// New builds the echo instance with global middleware and every route wired.
func New(recommendationHandler *rest.RecommendationHandler, indexHandler *rest.IndexHandler, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.JSONSerializer = rest.JSONSerializer{}

	allowOrigins := opts.CORSAllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"*"}
	}

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := []any{
				"method", v.Method,
				"uri", v.URI,
				"route", v.RoutePath,
				"status", v.Status,
				"latency", v.Latency.String(),
				"request_id", v.RequestID,
				"remote_ip", v.RemoteIP,
			}
			if v.Error != nil {
				fields = append(fields, "error", v.Error)
			}
			logger.Info("HTTP request", fields...)
			return nil
		},
	}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  allowOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
		ExposeHeaders: []string{echo.HeaderLocation, echo.HeaderXRequestID},
	}))
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(middleware.Metrics())

	SetupIndexRoutes(e, indexHandler)
	SetupRecommendationRoutes(e, recommendationHandler, opts.RateLimit)

	return e
}

func SetupIndexRoutes(e *echo.Echo, handler *rest.IndexHandler) {
	e.GET("/", handler.Index)
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// SetupRecommendationRoutes registers the recommendation resource. rateLimit
// may be nil; when set it guards the mutating routes only.
func SetupRecommendationRoutes(e *echo.Echo, handler *rest.RecommendationHandler, rateLimit echo.MiddlewareFunc) {
	recommendations := e.Group("/recommendations")

	mutating := []echo.MiddlewareFunc{}
	if rateLimit != nil {
		mutating = append(mutating, rateLimit)
	}
	withJSON := append(append([]echo.MiddlewareFunc{}, mutating...), middleware.RequireJSON())

	recommendations.GET("", handler.ListRecommendations)
	recommendations.POST("", handler.CreateRecommendation, withJSON...)
	recommendations.DELETE("/reset", handler.ResetRecommendations, mutating...)
	recommendations.GET("/:id", handler.GetRecommendation)
	recommendations.PUT("/:id", handler.UpdateRecommendation, withJSON...)
	recommendations.PUT("/:id/success", handler.IncrementSuccess, withJSON...)
	recommendations.DELETE("/:id", handler.DeleteRecommendation, mutating...)
}

// Shutdown stops e, waiting at most cfg.ShutdownTimeout for in-flight requests.
func Shutdown(e *echo.Echo, cfg config.ServerConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	return e.Shutdown(ctx)
}
