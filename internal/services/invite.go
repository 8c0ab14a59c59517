package services

import (
	"errors"
	"time"

	"github.com/ValterGames-Coder/IDMS/internal/config"
	"github.com/ValterGames-Coder/IDMS/internal/models"
	"github.com/ValterGames-Coder/IDMS/internal/utils"
	"github.com/ValterGames-Coder/IDMS/pkg/response"
	"gorm.io/gorm"
)

// InviteService issues and redeems shareable membership tokens. Invites are
// link-shares, not single-use vouchers: accepting one leaves it usable by
// others until it expires or the owner deactivates it. Expiry is evaluated
// lazily at read time; nothing sweeps invites in the background.
type InviteService struct {
	db         *gorm.DB
	membership *MembershipService
	cfg        *config.InviteConfig
}

func NewInviteService(db *gorm.DB, cfg *config.InviteConfig) *InviteService {
	return &InviteService{
		db:         db,
		membership: NewMembershipService(db),
		cfg:        cfg,
	}
}

type CreateInviteRequest struct {
	ExpiresInHours int `json:"expires_in_hours"`
}

// InviteInfo is the public view of an invite: enough for a landing page to
// render the project and validity, never membership details.
type InviteInfo struct {
	ProjectName        string `json:"project_name"`
	ProjectDescription string `json:"project_description"`
	OwnerUsername      string `json:"owner_username"`
	IsValid            bool   `json:"is_valid"`
	IsExpired          bool   `json:"is_expired"`
}

type AcceptInviteResult struct {
	ProjectID     uint `json:"project_id"`
	AlreadyMember bool `json:"already_member"`
}

// Create issues a new invite token for a project. Owner-only.
func (s *InviteService) Create(projectID uint, req *CreateInviteRequest, issuerID uint) (*models.ProjectInvite, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	if project.OwnerID != issuerID {
		return nil, response.NewForbidden("only the project owner can create invites")
	}

	ttl := req.ExpiresInHours
	if ttl == 0 {
		ttl = s.cfg.DefaultTTLHours
	}
	if ttl < 0 || ttl > s.cfg.MaxTTLHours {
		return nil, response.NewBadRequest("invalid invite lifetime")
	}

	token, err := utils.GenerateInviteToken()
	if err != nil {
		return nil, err
	}

	invite := models.ProjectInvite{
		Token:     token,
		ProjectID: projectID,
		CreatedBy: issuerID,
		ExpiresAt: time.Now().Add(time.Duration(ttl) * time.Hour),
		IsActive:  true,
	}
	if err := s.db.Create(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// Resolve returns the public info for a token. No authentication required.
func (s *InviteService) Resolve(token string) (*InviteInfo, error) {
	var invite models.ProjectInvite
	if err := s.db.Where("token = ?", token).First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("invite not found")
		}
		return nil, err
	}

	var project models.Project
	if err := s.db.Preload("Owner").First(&project, invite.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	info := &InviteInfo{
		ProjectName:        project.Name,
		ProjectDescription: project.Description,
		IsExpired:          invite.IsExpired(),
		IsValid:            invite.IsValid(),
	}
	if project.Owner != nil {
		info.OwnerUsername = project.Owner.Username
	}
	return info, nil
}

// Accept redeems a token for the calling user. Accepting twice, or accepting
// as the owner or an existing member, succeeds without side effect.
func (s *InviteService) Accept(token string, userID uint) (*AcceptInviteResult, error) {
	var invite models.ProjectInvite
	if err := s.db.Where("token = ?", token).First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("invite not found")
		}
		return nil, err
	}

	if !invite.IsActive {
		return nil, response.NewBadRequest("invite is no longer active")
	}
	if invite.IsExpired() {
		return nil, response.NewGone("invite has expired")
	}

	already, err := s.membership.IsMember(invite.ProjectID, userID)
	if err != nil {
		return nil, err
	}
	if already {
		return &AcceptInviteResult{ProjectID: invite.ProjectID, AlreadyMember: true}, nil
	}

	// Insert-if-absent keeps concurrent accepts of the same user idempotent.
	if err := s.membership.AddMember(invite.ProjectID, userID); err != nil {
		return nil, err
	}
	return &AcceptInviteResult{ProjectID: invite.ProjectID}, nil
}

// Deactivate turns an invite off. Owner-only, idempotent.
func (s *InviteService) Deactivate(projectID, inviteID, requesterID uint) error {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("project not found")
		}
		return err
	}

	if project.OwnerID != requesterID {
		return response.NewForbidden("only the project owner can deactivate invites")
	}

	return s.db.Model(&models.ProjectInvite{}).
		Where("id = ? AND project_id = ?", inviteID, projectID).
		Update("is_active", false).Error
}

// ListActive returns the project's invites that are active and not yet
// expired. Owner-only.
func (s *InviteService) ListActive(projectID, requesterID uint) ([]models.ProjectInvite, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	if project.OwnerID != requesterID {
		return nil, response.NewForbidden("only the project owner can list invites")
	}

	var invites []models.ProjectInvite
	if err := s.db.Where("project_id = ? AND is_active = ? AND expires_at > ?", projectID, true, time.Now()).
		Order("created_at DESC").
		Find(&invites).Error; err != nil {
		return nil, err
	}
	return invites, nil
}
