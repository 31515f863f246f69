package main

import (
	"os"

	"github.com/campushub/backend/internal/config"
	"github.com/campushub/backend/internal/handlers"
	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/internal/services"
	"github.com/campushub/backend/internal/utils"
	"github.com/campushub/backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	holidayService *services.HolidayService
	digestService  *services.DigestService
	taskQueue      services.TaskQueue
	worker         *services.Worker
	authHandler    *handlers.AuthHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	if err := models.SeedDefaultData(); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		logger.Warn().Err(err).Str("dir", cfg.Upload.Dir).Msg("Failed to create upload dir")
	}

	// Initialize system logger and its cleanup schedule
	services.InitSystemLogger(models.GetDB())
	services.StartLogCleanupScheduler(models.GetDB())

	// Expire pending join requests left unreviewed too long
	services.StartJoinRequestSweeper(models.GetDB())

	// Weekly activity digest
	holidayService := services.NewHolidayService()
	digestService := services.NewDigestService(models.GetDB(), holidayService)
	digestService.StartScheduler()

	// Notification delivery queue (Redis if enabled, otherwise sync mode)
	notificationService := services.NewNotificationService(models.GetDB())
	taskQueue := services.InitTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(notificationService.Deliver)
	}

	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(notificationService.Deliver)
			worker.Start()
		}
	}

	// Default admin account
	authHandler := handlers.NewAuthHandler(models.GetDB(), &cfg.JWT)
	if err := services.NewAuthService(models.GetDB(), &cfg.JWT).CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	return &appServices{
		holidayService: holidayService,
		digestService:  digestService,
		taskQueue:      taskQueue,
		worker:         worker,
		authHandler:    authHandler,
	}
}

// shutdown gracefully stops all background services.
func (s *appServices) shutdown() {
	s.digestService.StopScheduler()
	logger.Info().Msg("schedulers stopped")

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
}
