package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ValterGames-Coder/IDMS/internal/middleware"
	"github.com/ValterGames-Coder/IDMS/internal/services"
	"github.com/ValterGames-Coder/IDMS/pkg/response"
)

type LockHandler struct {
	lockService *services.LockService
}

func NewLockHandler(db *gorm.DB) *LockHandler {
	return &LockHandler{
		lockService: services.NewLockService(db),
	}
}

// Acquire takes or refreshes the single-writer lock on a diagram.
// When someone else holds it, the holder's lock is returned with 200
// and acquired=false so the editor can show who is in the way.
// POST /api/diagrams/:id/lock
func (h *LockHandler) Acquire(c *gin.Context) {
	diagramID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	lock, acquired, err := h.lockService.Acquire(diagramID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":     0,
		"message":  "ok",
		"acquired": acquired,
		"data":     lock,
	})
}

// Release drops the caller's lock. Releasing a lock you do not hold is
// a silent no-op.
// DELETE /api/diagrams/:id/lock
func (h *LockHandler) Release(c *gin.Context) {
	diagramID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.lockService.Release(diagramID, middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "lock released"})
}

// Get reports the current holder of a diagram lock
// GET /api/diagrams/:id/lock
func (h *LockHandler) Get(c *gin.Context) {
	diagramID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	lock, err := h.lockService.Get(diagramID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, lock)
}
