package main

import (
	"github.com/gin-gonic/gin"

	"github.com/clubhq/clubhub/backend/internal/config"
	"github.com/clubhq/clubhub/backend/internal/middleware"
	"github.com/clubhq/clubhub/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices, cfg *config.Config) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS(cfg.CORS.Origins))
	r.Use(middleware.Identify(cfg.JWT.CookieName))

	// Rate limiter for the credential endpoints
	authLimiter := middleware.NewRateLimiter(5, 10)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "clubhub"})
	})

	api := r.Group("/api")
	{
		// Auth routes (public, rate limited where credentials flow)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authLimiter.Middleware(), svc.authHandler.Register)
			auth.POST("/login", authLimiter.Middleware(), svc.authHandler.Login)
			auth.POST("/forgot-password", authLimiter.Middleware(), svc.authHandler.ForgotPassword)
			auth.POST("/reset-password", authLimiter.Middleware(), svc.authHandler.ResetPassword)
			auth.POST("/logout", svc.authHandler.Logout)
		}

		// Public read surface
		api.GET("/leaderboard", svc.userHandler.Leaderboard)
		api.GET("/events", svc.eventHandler.List)
		api.GET("/news", svc.newsHandler.List)
		api.GET("/workshops", svc.workshopHandler.List)
		api.GET("/community", svc.communityHandler.List)
		api.GET("/board", svc.boardHandler.List)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/auth/me", svc.authHandler.Me)
			protected.GET("/dashboard", svc.userHandler.Dashboard)

			// Projects
			protected.POST("/projects", svc.projectHandler.Create)
			protected.GET("/projects", svc.projectHandler.List)
			protected.GET("/projects/:id", svc.projectHandler.Get)
			protected.PUT("/projects/:id", svc.projectHandler.Update)
			protected.PUT("/projects/:id/join", svc.projectHandler.Join)
			protected.PUT("/projects/:id/members/:uid/approve", svc.projectHandler.ApproveMember)
			protected.POST("/projects/:id/completion/request", svc.projectHandler.RequestCompletion)

			// Notifications
			protected.GET("/notifications", svc.notificationHandler.List)
			protected.PUT("/notifications/:id/read", svc.notificationHandler.MarkRead)

			// Gallery
			protected.GET("/gallery", svc.galleryHandler.List)
			protected.POST("/gallery", svc.galleryHandler.Create)

			// Posts (reading and reacting; authoring is admin-only)
			protected.GET("/posts", svc.postHandler.List)
			protected.GET("/posts/:id", svc.postHandler.Get)
			protected.PUT("/posts/:id/like", svc.postHandler.Like)
			protected.POST("/posts/:id/comments", svc.postHandler.Comment)
		}

		// Admin only routes
		admin := api.Group("")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			// Project lifecycle decisions
			admin.DELETE("/projects/:id", svc.projectHandler.Delete)
			admin.PUT("/projects/:id/approve", svc.projectHandler.Approve)
			admin.POST("/projects/:id/decline", svc.projectHandler.Decline)
			admin.PUT("/projects/:id/members/:uid/decline", svc.projectHandler.DeclineMember)
			admin.PUT("/projects/:id/completion/approve", svc.projectHandler.ApproveCompletion)
			admin.PUT("/projects/:id/completion/decline", svc.projectHandler.DeclineCompletion)

			// Users
			admin.GET("/users", svc.userHandler.List)
			admin.POST("/users", svc.userHandler.Create)
			admin.GET("/users/:uid", svc.userHandler.Get)
			admin.PUT("/users/:uid", svc.userHandler.Update)
			admin.DELETE("/users/:uid", svc.userHandler.Delete)

			// Content
			admin.POST("/events", svc.eventHandler.Create)
			admin.PUT("/events/:id", svc.eventHandler.Update)
			admin.DELETE("/events/:id", svc.eventHandler.Delete)

			admin.POST("/news", svc.newsHandler.Create)
			admin.PUT("/news/:id", svc.newsHandler.Update)
			admin.DELETE("/news/:id", svc.newsHandler.Delete)

			admin.POST("/workshops", svc.workshopHandler.Create)
			admin.PUT("/workshops/:id", svc.workshopHandler.Update)
			admin.DELETE("/workshops/:id", svc.workshopHandler.Delete)

			admin.POST("/community", svc.communityHandler.Create)
			admin.PUT("/community/:id", svc.communityHandler.Update)
			admin.DELETE("/community/:id", svc.communityHandler.Delete)

			admin.POST("/board", svc.boardHandler.Create)
			admin.PUT("/board/:id", svc.boardHandler.Update)
			admin.DELETE("/board/:id", svc.boardHandler.Delete)

			admin.POST("/posts", svc.postHandler.Create)
			admin.DELETE("/posts/:id", svc.postHandler.Delete)

			admin.DELETE("/gallery/:id", svc.galleryHandler.Delete)

			// Direct media uploads for content images
			admin.POST("/media", svc.mediaHandler.Upload)
			admin.DELETE("/media", svc.mediaHandler.Delete)
		}
	}
}
