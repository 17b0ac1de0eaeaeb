package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	apimiddleware "socialgraph/internal/delivery/api/middleware"
	"socialgraph/internal/delivery/api/response"
	"socialgraph/internal/delivery/api/validator"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = apimiddleware.NewErrorMiddleware(newDiscardLogger()).HandleHTTPError

	return e
}

type testRequest struct {
	method string
	path   string
	body   string
	params map[string]string
}

// serve invokes h the way echo's router would, including the centralized error handler.
func serve(t *testing.T, h echo.HandlerFunc, r testRequest) (*httptest.ResponseRecorder, response.Envelope) {
	t.Helper()

	e := newTestEcho()
	var body io.Reader
	if r.body != "" {
		body = strings.NewReader(r.body)
	}
	req := httptest.NewRequest(r.method, r.path, body)
	if r.body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(r.params) > 0 {
		names := make([]string, 0, len(r.params))
		values := make([]string, 0, len(r.params))
		for name, value := range r.params {
			names = append(names, name)
			values = append(values, value)
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}

	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	return rec, envelope
}

func dataMap(t *testing.T, envelope response.Envelope) map[string]any {
	t.Helper()

	m, ok := envelope.Data.(map[string]any)
	require.True(t, ok, "data is %T", envelope.Data)

	return m
}
