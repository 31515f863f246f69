package main

import (
	"github.com/campushub/backend/internal/config"
	"github.com/campushub/backend/internal/handlers"
	"github.com/campushub/backend/internal/middleware"
	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/internal/services"
	"github.com/campushub/backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices, cfg *config.Config) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for public auth and code redemption endpoints
	authLimiter := middleware.NewRateLimiter(5, 10)

	// Health check
	healthHandler := handlers.NewHealthHandler()
	r.GET("/health", healthHandler.CheckHealth)

	db := models.GetDB()

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public, rate limited)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/register", svc.authHandler.Register)
			auth.POST("/login", svc.authHandler.Login)
			auth.POST("/refresh", svc.authHandler.Refresh)
		}

		// SSE stream (public route with internal token validation)
		sseHandler := handlers.NewSSEHandler(db, services.GetSSEHub())
		api.GET("/events/stream", sseHandler.Stream)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.AuditLog())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.Me)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)

			// Classes
			classHandler := handlers.NewClassHandler(db)
			protected.GET("/classes", classHandler.List)
			protected.GET("/classes/:id", classHandler.GetByID)
			protected.POST("/classes", classHandler.Create)
			protected.PUT("/classes/:id", classHandler.Update)
			protected.DELETE("/classes/:id", classHandler.Delete)
			protected.POST("/classes/:id/regenerate-code", classHandler.RegenerateCode)
			protected.GET("/classes/:id/members", classHandler.ListMembers)
			protected.DELETE("/classes/:id/members/:userId", classHandler.RemoveMember)
			protected.POST("/classes/:id/transfer", classHandler.Transfer)

			// Join requests (code redemption is rate limited)
			joinHandler := handlers.NewJoinRequestHandler(db)
			protected.POST("/join-requests", authLimiter.Middleware(), joinHandler.Submit)
			protected.POST("/join-requests/check-code", authLimiter.Middleware(), joinHandler.CheckCode)
			protected.POST("/join-requests/:id/approve", joinHandler.Approve)
			protected.POST("/join-requests/:id/reject", joinHandler.Reject)
			protected.GET("/classes/:id/join-requests", joinHandler.ListForClass)
			protected.GET("/classes/:id/join-requests/status", joinHandler.Status)

			// Units
			unitHandler := handlers.NewClassUnitHandler(db)
			protected.GET("/classes/:id/units", unitHandler.List)
			protected.POST("/classes/:id/units", unitHandler.Create)
			protected.PUT("/units/:id", unitHandler.Update)
			protected.DELETE("/units/:id", unitHandler.Delete)

			// Notes
			noteHandler := handlers.NewNoteHandler(db, &cfg.Upload)
			protected.GET("/classes/:id/notes", noteHandler.List)
			protected.POST("/classes/:id/notes", noteHandler.Create)
			protected.GET("/notes/:id", noteHandler.GetByID)
			protected.GET("/notes/:id/download", noteHandler.Download)
			protected.DELETE("/notes/:id", noteHandler.Delete)

			// Assignments
			assignmentHandler := handlers.NewAssignmentHandler(db)
			protected.GET("/classes/:id/assignments", assignmentHandler.List)
			protected.POST("/classes/:id/assignments", assignmentHandler.Create)
			protected.DELETE("/assignments/:id", assignmentHandler.Delete)

			// Events
			eventHandler := handlers.NewEventHandler(db, svc.holidayService)
			protected.GET("/classes/:id/events", eventHandler.List)
			protected.POST("/classes/:id/events", eventHandler.Create)
			protected.PUT("/events/:id", eventHandler.Update)
			protected.DELETE("/events/:id", eventHandler.Delete)
			protected.GET("/events/countries", eventHandler.Countries)

			// Chat
			chatHandler := handlers.NewChatHandler(db)
			protected.GET("/classes/:id/messages", chatHandler.List)
			protected.POST("/classes/:id/messages", chatHandler.Post)

			// Notifications
			notificationHandler := handlers.NewNotificationHandler(db)
			protected.GET("/notifications", notificationHandler.List)
			protected.POST("/notifications/:id/read", notificationHandler.MarkRead)
			protected.POST("/notifications/read-all", notificationHandler.MarkAllRead)

			// Gamification
			gamificationHandler := handlers.NewGamificationHandler(db)
			protected.GET("/leaderboard", gamificationHandler.Leaderboard)
			protected.GET("/characters", gamificationHandler.Characters)
			protected.POST("/characters/:id/select", gamificationHandler.SelectCharacter)
			protected.GET("/achievements", gamificationHandler.Achievements)
			protected.GET("/points/history", gamificationHandler.History)
		}

		// Admin only routes
		admin := api.Group("")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired(), middleware.AuditLog())
		{
			// Users
			userHandler := handlers.NewUserHandler(db)
			admin.GET("/users", userHandler.List)
			admin.PUT("/users/:id", userHandler.Update)
			admin.DELETE("/users/:id", userHandler.Delete)

			// Dashboard
			dashboardHandler := handlers.NewDashboardHandler(db)
			admin.GET("/dashboard/stats", dashboardHandler.GetStats)

			// System Logs
			systemLogHandler := handlers.NewSystemLogHandler(db)
			admin.GET("/system-logs", systemLogHandler.List)
			admin.GET("/system-logs/modules", systemLogHandler.GetModules)
			admin.GET("/system-logs/retention", systemLogHandler.GetRetention)
			admin.PUT("/system-logs/retention", systemLogHandler.SetRetention)

			// System Config
			systemConfigHandler := handlers.NewSystemConfigHandler(db)
			admin.GET("/system-config/ldap", systemConfigHandler.GetLDAPConfig)
			admin.PUT("/system-config/ldap", systemConfigHandler.UpdateLDAPConfig)
			admin.GET("/system-config/email", systemConfigHandler.GetEmailConfig)
			admin.PUT("/system-config/email", systemConfigHandler.UpdateEmailConfig)
			admin.GET("/system-config/group/:group", systemConfigHandler.GetByGroup)
			admin.PUT("/system-config", systemConfigHandler.Set)

			// Weekly digests
			digestHandler := handlers.NewDigestHandler(db, svc.holidayService)
			admin.GET("/digests", digestHandler.List)
			admin.POST("/digests/generate", digestHandler.Generate)
		}
	}
}
