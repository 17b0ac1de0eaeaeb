package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"socialgraph/config"
	"socialgraph/internal/domain/lifecycle"
	"socialgraph/internal/errors"
	"socialgraph/internal/infra/persistence/migrations"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sethvargo/go-retry"
	pgLib "github.com/slighter12/go-lib/database/postgres"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const (
	poolWatchInterval      = 5 * time.Second
	poolWaitWarnThreshold  = 50 * time.Millisecond
	poolStatsCollectorName = "socialgraph"

	pingInitialBackoff = 200 * time.Millisecond
	pingMaxRetries     = 5
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config     *config.Config
	Logger     *slog.Logger
	Registerer prometheus.Registerer `optional:"true"`
}

// New creates PostgreSQL client mapping
func New(params Params) (*gorm.DB, error) {
	db, err := pgLib.New(params.Config.Postgres)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create PostgreSQL client")
	}
	db = db.Session(&gorm.Session{
		// Disable GORM's per-statement implicit transaction.
		// We keep explicit transactions via txManager.Execute for multi-step atomic operations.
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(params.Logger, params.Config),
	})

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}

	var poolStats prometheus.Collector
	if params.Registerer != nil {
		poolStats = collectors.NewDBStatsCollector(sqlDB, poolStatsCollectorName)
		if err := params.Registerer.Register(poolStats); err != nil {
			return nil, errors.Wrap(err, "failed to register pool stats collector")
		}
	}

	watchCtx, cancelWatch := context.WithCancel(context.Background())

	// Add lifecycle management
	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := pingWithRetry(ctx, params.Logger, sqlDB); err != nil {
				return errors.Wrap(err, "failed to ping PostgreSQL")
			}

			if params.Config.Migration != nil && params.Config.Migration.AutoMigrate {
				if err := migrations.Up(ctx, sqlDB); err != nil {
					return err
				}
				params.Logger.Info("Database migrations applied")
			}

			go watchPoolWaits(watchCtx, params.Logger, sqlDB, poolWatchInterval)

			return nil
		},
		OnStop: func(_ context.Context) error {
			cancelWatch()
			if poolStats != nil {
				params.Registerer.Unregister(poolStats)
			}

			return sqlDB.Close()
		},
	})

	return db, nil
}

// pingWithRetry waits for the database to accept connections, backing off exponentially.
func pingWithRetry(ctx context.Context, logger *slog.Logger, sqlDB *sql.DB) error {
	backoff := retry.WithMaxRetries(pingMaxRetries, retry.NewExponential(pingInitialBackoff))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := sqlDB.PingContext(ctx); err != nil {
			logger.Warn("PostgreSQL not ready, retrying", slog.Any("error", err))

			return retry.RetryableError(err)
		}

		return nil
	})
}

// watchPoolWaits warns when requests queue for a pool connection.
// Pool gauges themselves are exported by the DBStats collector.
func watchPoolWaits(ctx context.Context, logger *slog.Logger, sqlDB *sql.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	prev := sqlDB.Stats()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := sqlDB.Stats()
			if waits := cur.WaitCount - prev.WaitCount; waits > 0 {
				waited := cur.WaitDuration - prev.WaitDuration
				if waited >= poolWaitWarnThreshold {
					logger.LogAttrs(ctx, slog.LevelWarn, "Postgres pool saturated",
						slog.Int64("waits", waits),
						slog.Duration("waited", waited),
						slog.Int("maxOpenConns", cur.MaxOpenConnections),
						slog.Int("inUseConns", cur.InUse),
					)
				}
			}
			prev = cur
		}
	}
}
