package services

import (
	"errors"

	"github.com/ValterGames-Coder/IDMS/internal/models"
	"github.com/ValterGames-Coder/IDMS/pkg/response"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MembershipService is the single source of truth for project access. A user
// may access a project iff they own it or hold a membership row. Diagrams
// inherit the policy of their parent project.
type MembershipService struct {
	db *gorm.DB
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db}
}

// IsMember reports whether the user is an effective member of the project:
// the owner or an explicit member. The owner is never duplicated into the
// member table, so ownership is checked first.
func (s *MembershipService) IsMember(projectID, userID uint) (bool, error) {
	var project models.Project
	if err := s.db.Select("id", "owner_id").First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	if project.OwnerID == userID {
		return true, nil
	}

	var count int64
	if err := s.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

type AccessibleProjectsRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type AccessibleProjectsResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Project `json:"items"`
}

// AccessibleProjects returns the union of owned and member projects as one
// deduplicated query, with pagination applied to the union rather than to
// each sub-query.
func (s *MembershipService) AccessibleProjects(userID uint, req *AccessibleProjectsRequest) (*AccessibleProjectsResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	memberOf := s.db.Model(&models.ProjectMember{}).
		Select("project_id").
		Where("user_id = ?", userID)

	query := s.db.Model(&models.Project{}).
		Where("owner_id = ? OR id IN (?)", userID, memberOf)

	var total int64
	query.Count(&total)

	var projects []models.Project
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("created_at DESC").Offset(offset).Limit(req.PageSize).Find(&projects).Error; err != nil {
		return nil, err
	}

	return &AccessibleProjectsResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    projects,
	}, nil
}

// AddMember inserts a membership row if absent. The insert is atomic: the
// composite unique index plus ON CONFLICT DO NOTHING makes concurrent adds of
// the same user converge on a single row without lost updates.
func (s *MembershipService) AddMember(projectID, userID uint) error {
	member := models.ProjectMember{ProjectID: projectID, UserID: userID}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&member).Error
}

// RemoveMember removes a user from the project's member set. Owner-only.
// Removing the owner is impossible since the owner has no membership row.
func (s *MembershipService) RemoveMember(projectID, userID, requesterID uint) error {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("project not found")
		}
		return err
	}

	if project.OwnerID != requesterID {
		return response.NewForbidden("only the project owner can remove members")
	}

	return s.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{}).Error
}

// ListMembers returns the project's explicit member rows with user info.
// Any effective member may list; the owner is reported via the project itself.
func (s *MembershipService) ListMembers(projectID, requesterID uint) ([]models.ProjectMember, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	ok, err := s.IsMember(projectID, requesterID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, response.NewForbidden("not a member of this project")
	}

	var members []models.ProjectMember
	if err := s.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
