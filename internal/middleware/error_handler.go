package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"recommendationService/domain"
	"recommendationService/pkg/logger"
	jsonres "recommendationService/pkg/response"

	"github.com/labstack/echo/v4"
)

const (
	MessageUnsupportedMediaType = "Content-Type must be application/json"
	MessageInternal             = "An unexpected error occurred"
	MessageRateLimited          = "Too many requests, slow down"
	MessageTimeout              = "The request took too long to complete"
)

// ErrorHandler renders every error returned by a handler or middleware as the
// JSON error envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := toResponse(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"error", err,
		)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, body)
	}
	if werr != nil {
		logger.Error("Failed to write error response", "error", werr)
	}
}

func toResponse(err error) (int, jsonres.ErrorResponse) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, jsonres.Error(http.StatusBadRequest, verr.Error(), verr.Fields())
	}

	switch {
	case errors.Is(err, domain.ErrRecommendationNotFound):
		return http.StatusNotFound, jsonres.Error(http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, domain.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, jsonres.Error(http.StatusUnsupportedMediaType, MessageUnsupportedMediaType, nil)
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, jsonres.Error(http.StatusServiceUnavailable, MessageTimeout, nil)
	}

	var herr *echo.HTTPError
	if errors.As(err, &herr) {
		msg := http.StatusText(herr.Code)
		switch m := herr.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		case nil:
		default:
			msg = fmt.Sprint(m)
		}
		if herr.Code >= http.StatusInternalServerError {
			msg = MessageInternal
		}
		return herr.Code, jsonres.Error(herr.Code, msg, nil)
	}

	return http.StatusInternalServerError, jsonres.Error(http.StatusInternalServerError, MessageInternal, nil)
}
