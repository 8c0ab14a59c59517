package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ValterGames-Coder/IDMS/internal/config"
	"github.com/ValterGames-Coder/IDMS/internal/middleware"
	"github.com/ValterGames-Coder/IDMS/internal/services"
	"github.com/ValterGames-Coder/IDMS/pkg/response"
)

type InviteHandler struct {
	inviteService *services.InviteService
}

func NewInviteHandler(db *gorm.DB, cfg *config.Config) *InviteHandler {
	return &InviteHandler{
		inviteService: services.NewInviteService(db, &cfg.Invite),
	}
}

// Create issues a new invite link for a project, owner only
// POST /api/projects/:id/invites
func (h *InviteHandler) Create(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	invite, err := h.inviteService.Create(projectID, &req, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, invite)
}

// List returns the live invites of a project, owner only
// GET /api/projects/:id/invites
func (h *InviteHandler) List(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invites, err := h.inviteService.ListActive(projectID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, invites)
}

// Deactivate kills an invite link before its expiry, owner only
// DELETE /api/projects/:id/invites/:invite_id
func (h *InviteHandler) Deactivate(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	inviteID, ok := parseIDParam(c, "invite_id")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.inviteService.Deactivate(projectID, inviteID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "invite deactivated"})
}

// Resolve previews an invite without accepting it. Public, so a landing
// page can show the project before the visitor signs in.
// GET /api/invites/:token
func (h *InviteHandler) Resolve(c *gin.Context) {
	info, err := h.inviteService.Resolve(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, info)
}

// Accept joins the caller to the invite's project
// POST /api/invites/:token/accept
func (h *InviteHandler) Accept(c *gin.Context) {
	userID := middleware.GetUserID(c)
	result, err := h.inviteService.Accept(c.Param("token"), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
