package middleware

import (
	"mime"
	"recommendationService/domain"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireJSON rejects requests whose Content-Type media type is not
// application/json. Parameters such as charset are ignored.
func RequireJSON() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !IsJSONContentType(c.Request().Header.Get(echo.HeaderContentType)) {
				return domain.ErrUnsupportedMediaType
			}

			return next(c)
		}
	}
}

func IsJSONContentType(header string) bool {
	if strings.TrimSpace(header) == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return false
	}

	return mediaType == echo.MIMEApplicationJSON
}
