package main

import (
	"github.com/gin-gonic/gin"
	"github.com/teamkasa/teamkasa/internal/handlers"
	"github.com/teamkasa/teamkasa/internal/middleware"
	"github.com/teamkasa/teamkasa/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for the public auth routes
	authLimiter := middleware.NewRateLimiter(5, 10)

	// Health check
	r.GET("/health", handlers.Health)

	// WebSocket relay (domain-free broadcast)
	r.GET("/ws", handlers.Relay)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public, rate limited)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/register", svc.authHandler.Register)
			auth.POST("/login", svc.authHandler.Login)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)

			// Users (self-service)
			protected.PUT("/users/me/profile", svc.userHandler.UpdateProfile)
			protected.PUT("/users/me/darkmode", svc.userHandler.UpdateDarkmode)
			protected.PUT("/users/me/language", svc.userHandler.UpdateLanguage)
			protected.PUT("/users/me/last-team", svc.userHandler.UpdateLastTeam)
			protected.DELETE("/users/me", svc.userHandler.Delete)

			// Teams
			protected.POST("/teams", svc.teamHandler.Create)
			protected.GET("/teams", svc.teamHandler.List)
			protected.GET("/teams/:id/members", svc.teamHandler.Members)
			protected.GET("/teams/:id/member-count", svc.teamHandler.MemberCount)
			protected.GET("/teams/:id/role", svc.teamHandler.Role)

			// Invitations
			protected.POST("/invitations", svc.invitationHandler.Create)
			protected.GET("/invitations", svc.invitationHandler.List)
			protected.POST("/invitations/:team_id/accept", svc.invitationHandler.Accept)
			protected.POST("/invitations/:team_id/decline", svc.invitationHandler.Decline)

			// Fines
			protected.POST("/fines", svc.fineHandler.Define)
			protected.POST("/fines/assign", svc.fineHandler.Assign)
			protected.GET("/teams/:id/fines", svc.fineHandler.List)
			protected.GET("/teams/:id/members/:user_id/fines", svc.fineHandler.Assignments)
			protected.DELETE("/teams/:id/fines/:fine_id", svc.fineHandler.Delete)
			protected.DELETE("/teams/:id/fines", svc.fineHandler.Purge)

			// Monthly standings
			protected.GET("/teams/:id/stats/top-payer", svc.statsHandler.TopPayer)
			protected.GET("/teams/:id/stats/bottom-payer", svc.statsHandler.BottomPayer)
		}
	}
}
