package app

import (
	"nutri_edu_backend/internal/config"
	"nutri_edu_backend/internal/middleware"
	"nutri_edu_backend/internal/model"
	"nutri_edu_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. Public, session-scoped routes (no login).
	a.registerPublicRoutes(router, c)

	// 2. Back-office routes.
	a.registerAdminRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/login", c.auth.Login)

		// Questionnaire scoring.
		quiz := public.Group("/quiz")
		{
			quiz.POST("/responses", c.quiz.SubmitQuiz)
			quiz.POST("/responses/:id/resort", c.quiz.ResortResult)
		}

		// Behavioral collection, one tracker per (session, surface).
		telemetry := public.Group("/telemetry")
		{
			telemetry.POST("/:surfaceId/start", c.telemetry.StartTracking)
			telemetry.POST("/:surfaceId/events", c.telemetry.HandleEvents)
			telemetry.POST("/:surfaceId/stop", c.telemetry.StopTracking)
			telemetry.GET("/:surfaceId/metrics", c.telemetry.GetMetrics)
		}

		// Conversion prompt state machine.
		surfaces := public.Group("/surfaces")
		{
			surfaces.GET("/:surfaceId/presentation", c.surface.GetPresentation)
			surfaces.POST("/:surfaceId/presentation/expand", c.surface.Expand)
			surfaces.POST("/:surfaceId/presentation/click", c.surface.Click)
			surfaces.POST("/:surfaceId/presentation/dismiss", c.surface.Dismiss)
			surfaces.GET("/:surfaceId/tally", c.surface.GetTally)
		}
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		admin.GET("/profile", c.auth.GetProfile)

		// Editors may browse the engagement funnel and leads.
		admin.GET("/analytics/engagement", c.analytics.GetEngagementOverview)
		admin.GET("/analytics/engagement/:surfaceId/history", c.analytics.GetSurfaceHistory)
		admin.GET("/leads", c.quiz.ListLeads)
		admin.GET("/supplements", c.catalog.ListSupplements)
		admin.GET("/supplements/:id", c.catalog.GetSupplement)

		// Everything that mutates or exports is admin only.
		adminOnly := admin.Group("/")
		adminOnly.Use(middleware.RoleMiddleware(model.Admin))
		{
			adminOnly.POST("/register", c.auth.Register)
			adminOnly.POST("/supplements", c.catalog.CreateSupplement)
			adminOnly.PUT("/supplements/:id", c.catalog.UpdateSupplement)
			adminOnly.DELETE("/supplements/:id", c.catalog.DeleteSupplement)
			adminOnly.POST("/leads/export", c.analytics.ExportLeads)
		}
	}
}
