package main

import (
	"context"
	"log/slog"
	"os"

	"socialgraph/config"
	"socialgraph/internal/delivery"
	"socialgraph/internal/delivery/api"
	"socialgraph/internal/delivery/api/middleware"
	"socialgraph/internal/delivery/api/router/handler"
	"socialgraph/internal/infra/auth"
	logs "socialgraph/internal/infra/log"
	"socialgraph/internal/infra/metrics"
	"socialgraph/internal/infra/persistence/postgres"
	"socialgraph/internal/usecase/impl"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
	Logger     *slog.Logger
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			fx.New(appOptions(cfg)).Run()

			return nil
		},
	}
}

// appOptions assembles the full dependency graph around an already loaded config.
func appOptions(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	)
}

func injectInfra() fx.Option {
	return fx.Provide(
		logs.New,
		context.Background,
		postgres.New,
		fx.Annotate(
			metrics.NewRegistry,
			fx.As(new(prometheus.Registerer)),
			fx.As(new(prometheus.Gatherer)),
		),
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewFollowRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewArgon2Hasher,
			auth.NewJWTService,
			metrics.New,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewUserService,
			impl.NewFollowService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewUserHandler,
			handler.NewFollowHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				params.Logger.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
