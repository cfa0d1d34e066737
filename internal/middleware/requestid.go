package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/magic-villa-api/internal/logger"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestID keeps an incoming X-Request-ID or generates one, echoes it on
// the response and scopes a logger to it.  The logger is stored both on the
// echo context and on the request context so services log with the same id.
func RequestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Request().Header.Set(RequestIDHeader, requestID)
		c.Response().Header().Set(RequestIDHeader, requestID)
		c.Set("request_id", requestID)

		l := logger.GetLogger().With(zap.String("request_id", requestID))
		c.Set("logger", l)
		c.SetRequest(c.Request().WithContext(logger.WithContext(c.Request().Context(), l)))

		return next(c)
	}
}
