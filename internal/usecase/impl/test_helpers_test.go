package impl

import (
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"socialgraph/config"
	"socialgraph/internal/domain/service"
	"socialgraph/internal/infra/metrics"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

const testDummyHash = "$argon2id$dummy"

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMetrics() service.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

func newTestConfig(uniformLoginErrors bool) *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			UniformLoginErrors: uniformLoginErrors,
		},
	}
}
