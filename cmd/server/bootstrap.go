package main

import (
	"github.com/ValterGames-Coder/IDMS/internal/config"
	"github.com/ValterGames-Coder/IDMS/internal/handlers"
	"github.com/ValterGames-Coder/IDMS/internal/models"
	"github.com/ValterGames-Coder/IDMS/internal/services"
	"github.com/ValterGames-Coder/IDMS/internal/utils"
	"github.com/ValterGames-Coder/IDMS/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	maintenanceService *services.MaintenanceService
	authHandler        *handlers.AuthHandler
	projectHandler     *handlers.ProjectHandler
	memberHandler      *handlers.MemberHandler
	inviteHandler      *handlers.InviteHandler
	diagramHandler     *handlers.DiagramHandler
	lockHandler        *handlers.LockHandler
	eventsHandler      *handlers.EventsHandler
	systemLogHandler   *handlers.SystemLogHandler
	healthHandler      *handlers.HealthHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize system logger
	services.InitSystemLogger(models.GetDB())

	// Start nightly maintenance (log retention, dead invite and lock row purge)
	maintenanceService := services.NewMaintenanceService(models.GetDB(), &cfg.System)
	maintenanceService.StartScheduler()

	db := models.GetDB()
	return &appServices{
		maintenanceService: maintenanceService,
		authHandler:        handlers.NewAuthHandler(db, cfg),
		projectHandler:     handlers.NewProjectHandler(db),
		memberHandler:      handlers.NewMemberHandler(db),
		inviteHandler:      handlers.NewInviteHandler(db, cfg),
		diagramHandler:     handlers.NewDiagramHandler(db),
		lockHandler:        handlers.NewLockHandler(db),
		eventsHandler:      handlers.NewEventsHandler(),
		systemLogHandler:   handlers.NewSystemLogHandler(db),
		healthHandler:      handlers.NewHealthHandler(),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.maintenanceService.StopScheduler()
	logger.Info().Msg("All schedulers stopped")
}
