package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fittrack/backend/api/handler"
)

type Handlers struct {
	Auth     *apiHandler.AuthHandler
	Profile  *apiHandler.ProfileHandler
	Activity *apiHandler.ActivityHandler
	Metrics  *apiHandler.MetricsHandler
	Health   *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/register", handlers.Auth.Register)
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/logout", authMiddleware(handlers.Auth.Logout))

	// Protected routes
	r.GET("/api/v1/profile", authMiddleware(handlers.Profile.GetProfile))
	r.PUT("/api/v1/profile", authMiddleware(handlers.Profile.UpdateProfile))

	r.GET("/api/v1/activities", authMiddleware(handlers.Activity.ListActivities))
	r.POST("/api/v1/activities", authMiddleware(handlers.Activity.CreateActivity))
	r.PATCH("/api/v1/activities/{id}/complete", authMiddleware(handlers.Activity.CompleteActivity))

	r.GET("/api/v1/metrics", authMiddleware(handlers.Metrics.GetMetrics))

	return r
}
