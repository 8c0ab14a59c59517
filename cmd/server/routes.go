package main

import (
	"github.com/gin-gonic/gin"

	"github.com/ValterGames-Coder/IDMS/internal/middleware"
	"github.com/ValterGames-Coder/IDMS/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiters for the unauthenticated surface
	loginLimiter := middleware.NewRateLimiter(5, 10)
	inviteLimiter := middleware.NewRateLimiter(10, 20)

	// Health check
	r.GET("/health", svc.healthHandler.CheckHealth)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", loginLimiter.Middleware(), svc.authHandler.Register)
			auth.POST("/login", loginLimiter.Middleware(), svc.authHandler.Login)
			auth.POST("/refresh", svc.authHandler.Refresh)
			auth.GET("/config", svc.authHandler.GetAuthConfig)
		}

		// Invite preview (public so the landing page works before sign-in)
		api.GET("/invites/:token", inviteLimiter.Middleware(), svc.inviteHandler.Resolve)

		// SSE lock events (public route with internal token validation)
		api.GET("/events/locks", svc.eventsHandler.StreamLockEvents)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.AuditLog())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)

			// Projects
			protected.GET("/projects", svc.projectHandler.List)
			protected.POST("/projects", svc.projectHandler.Create)
			protected.GET("/projects/:id", svc.projectHandler.GetByID)
			protected.PUT("/projects/:id", svc.projectHandler.Update)
			protected.DELETE("/projects/:id", svc.projectHandler.Delete)

			// Members
			protected.GET("/projects/:id/members", svc.memberHandler.List)
			protected.DELETE("/projects/:id/members/:user_id", svc.memberHandler.Remove)

			// Invites (owner-side management)
			protected.GET("/projects/:id/invites", svc.inviteHandler.List)
			protected.POST("/projects/:id/invites", svc.inviteHandler.Create)
			protected.DELETE("/projects/:id/invites/:invite_id", svc.inviteHandler.Deactivate)
			protected.POST("/invites/:token/accept", svc.inviteHandler.Accept)

			// Diagrams
			protected.GET("/projects/:id/diagrams", svc.diagramHandler.ListByProject)
			protected.POST("/projects/:id/diagrams", svc.diagramHandler.Create)
			protected.GET("/diagrams/:id", svc.diagramHandler.GetByID)
			protected.PUT("/diagrams/:id", svc.diagramHandler.Update)
			protected.DELETE("/diagrams/:id", svc.diagramHandler.Delete)

			// Diagram elements
			protected.GET("/diagrams/:id/elements", svc.diagramHandler.ListElements)
			protected.POST("/diagrams/:id/elements", svc.diagramHandler.CreateElement)
			protected.PUT("/elements/:id", svc.diagramHandler.UpdateElement)
			protected.DELETE("/elements/:id", svc.diagramHandler.DeleteElement)

			// Diagram locks
			protected.POST("/diagrams/:id/lock", svc.lockHandler.Acquire)
			protected.DELETE("/diagrams/:id/lock", svc.lockHandler.Release)
			protected.GET("/diagrams/:id/lock", svc.lockHandler.Get)
		}

		// Admin only routes
		admin := api.Group("")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/system-logs", svc.systemLogHandler.List)
			admin.GET("/system-logs/modules", svc.systemLogHandler.GetModules)
		}
	}
}
