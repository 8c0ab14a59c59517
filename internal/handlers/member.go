package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ValterGames-Coder/IDMS/internal/middleware"
	"github.com/ValterGames-Coder/IDMS/internal/services"
	"github.com/ValterGames-Coder/IDMS/pkg/response"
)

type MemberHandler struct {
	membershipService *services.MembershipService
}

func NewMemberHandler(db *gorm.DB) *MemberHandler {
	return &MemberHandler{
		membershipService: services.NewMembershipService(db),
	}
}

// List returns the member roster of a project
// GET /api/projects/:id/members
func (h *MemberHandler) List(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	members, err := h.membershipService.ListMembers(projectID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, members)
}

// Remove kicks a member out of a project, owner only
// DELETE /api/projects/:id/members/:user_id
func (h *MemberHandler) Remove(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	requesterID := middleware.GetUserID(c)
	if err := h.membershipService.RemoveMember(projectID, userID, requesterID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "member removed"})
}
