// Package response renders the JSON envelope shared by every API endpoint:
// {success, data, error, message}.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope defines the structure of every JSON response.
type Envelope struct {
	Success bool    `json:"success"`
	Data    any     `json:"data"`
	Error   *string `json:"error"`
	Message *string `json:"message"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

// Success returns a successful response
func Success(c echo.Context, statusCode int, data any, message ...string) error {
	var msg string
	if len(message) > 0 {
		msg = message[0]
	}

	return c.JSON(statusCode, Envelope{
		Success: true,
		Data:    data,
		Message: optional(msg),
	})
}

// Error returns an error response. The detail is dropped for 5xx and
// authentication errors so that internals never reach the client.
func Error(c echo.Context, statusCode int, errorMessage string, detail string) error {
	if statusCode >= http.StatusInternalServerError || statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		detail = ""
	}

	return c.JSON(statusCode, Envelope{
		Success: false,
		Error:   optional(errorMessage),
		Message: optional(detail),
	})
}

// InternalServerError returns a 500 error
func InternalServerError(c echo.Context, message string) error {
	return Error(c, http.StatusInternalServerError, message, "")
}
