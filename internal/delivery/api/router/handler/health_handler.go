package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthCheck reports that the process is serving requests.
func HealthCheck(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// Metrics exposes the Prometheus registry.
func Metrics(gatherer prometheus.Gatherer) echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
