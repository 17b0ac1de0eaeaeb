// Package router contains routing setup for the REST API.
package router

import (
	"socialgraph/config"
	"socialgraph/internal/delivery/api/middleware"
	"socialgraph/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler    *handler.UserHandler
	FollowHandler  *handler.FollowHandler
	AuthMiddleware *middleware.AuthMiddleware
	Gatherer       prometheus.Gatherer
	Config         *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler    *handler.UserHandler
	followHandler  *handler.FollowHandler
	authMiddleware *middleware.AuthMiddleware
	gatherer       prometheus.Gatherer
	config         *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:    params.UserHandler,
		followHandler:  params.FollowHandler,
		authMiddleware: params.AuthMiddleware,
		gatherer:       params.Gatherer,
		config:         params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	protect := r.authMiddleware.Protect

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	api := e.Group(r.config.HTTP.APIPrefix)

	// Auth routes
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", r.userHandler.Login)
	}

	// User routes; the guard is applied per route because registration and counts are public.
	usersGroup := api.Group("/users")
	{
		usersGroup.POST("", r.userHandler.Register)
		usersGroup.GET("/me", protect(r.userHandler.Me))
		usersGroup.GET("/:id", protect(r.userHandler.GetByID))

		usersGroup.POST("/:id/follow", protect(r.followHandler.Follow))
		usersGroup.DELETE("/:id/unfollow", protect(r.followHandler.Unfollow))
		usersGroup.GET("/:id/followers/count", r.followHandler.FollowerCount)
		usersGroup.GET("/:id/following/count", r.followHandler.FollowingCount)
		usersGroup.GET("/:id/following/:targetId", protect(r.followHandler.IsFollowing))
	}
}

// RegisterMetricsRoute exposes the Prometheus endpoint when enabled.
func (r *router) RegisterMetricsRoute(e *echo.Echo) {
	if r.config.Metrics != nil && r.config.Metrics.Enabled && r.gatherer != nil {
		e.GET(r.config.Metrics.Path, handler.Metrics(r.gatherer))
	}
}
