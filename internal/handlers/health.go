package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ValterGames-Coder/IDMS/internal/models"
	"github.com/ValterGames-Coder/IDMS/internal/services"
)

// HealthHandler reports service health for load balancers and uptime probes.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// CheckHealth returns the health status of all subsystems.
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"

	// Database check
	dbStatus := "ok"
	sqlDB, err := models.GetDB().DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	}

	// Live edit sessions
	var activeLocks int64
	models.GetDB().Model(&models.DiagramLock{}).
		Where("is_active = ?", true).
		Count(&activeLocks)

	c.JSON(200, gin.H{
		"status":  overall,
		"service": "idms",
		"components": gin.H{
			"database":      dbStatus,
			"event_clients": services.GetLockEventHub().ClientCount(),
			"active_locks":  activeLocks,
		},
	})
}
