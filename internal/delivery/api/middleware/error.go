package middleware

import (
	"log/slog"
	"net/http"

	"socialgraph/internal/delivery/api/response"
	deliverycontext "socialgraph/internal/delivery/context"
	domainerrors "socialgraph/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const internalErrorMessage = "Internal server error"

// ErrorMiddleware handles errors in the HTTP pipeline
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	logger := deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)

	// Attempt to parse as AppError
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPCode() >= http.StatusInternalServerError {
			m.logServerError(c, logger, err)
			_ = response.InternalServerError(c, internalErrorMessage)

			return
		}
		_ = response.Error(c, appErr.HTTPCode(), appErr.Message(), appErr.Details())

		return
	}

	// Check if it is an Echo HTTPError
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
		if httpErr.Code >= http.StatusInternalServerError {
			m.logServerError(c, logger, err)
			message = internalErrorMessage
		}

		_ = response.Error(c, httpErr.Code, message, "")

		return
	}

	// Default to internal error, log the error but return a generic message (do not expose internal details)
	m.logServerError(c, logger, err)
	_ = response.InternalServerError(c, internalErrorMessage)
}

func (m *ErrorMiddleware) logServerError(c echo.Context, logger *slog.Logger, err error) {
	logger.Error("Unhandled error",
		slog.String("error", err.Error()),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)
}
