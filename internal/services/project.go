package services

import (
	"errors"

	"github.com/ValterGames-Coder/IDMS/internal/models"
	"github.com/ValterGames-Coder/IDMS/pkg/response"
	"gorm.io/gorm"
)

type ProjectService struct {
	db         *gorm.DB
	membership *MembershipService
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{
		db:         db,
		membership: NewMembershipService(db),
	}
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description"`
}

// UpdateProjectRequest is a sparse patch: nil fields are left untouched.
// The owner is immutable and deliberately not patchable.
type UpdateProjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=200"`
	Description *string `json:"description"`
}

// Create creates a project owned by the caller.
func (s *ProjectService) Create(req *CreateProjectRequest, userID uint) (*models.Project, error) {
	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     userID,
	}

	if err := s.db.Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List returns the projects the caller can access, paginated over the
// owned-or-member union.
func (s *ProjectService) List(userID uint, req *AccessibleProjectsRequest) (*AccessibleProjectsResponse, error) {
	return s.membership.AccessibleProjects(userID, req)
}

// GetByID returns a project if the caller is an effective member.
func (s *ProjectService) GetByID(id, userID uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.Preload("Owner").First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	ok, err := s.membership.IsMember(id, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, response.NewForbidden("not a member of this project")
	}

	return &project, nil
}

// Update applies a sparse patch. Any effective member may update.
func (s *ProjectService) Update(id uint, req *UpdateProjectRequest, userID uint) (*models.Project, error) {
	project, err := s.GetByID(id, userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) == 0 {
		return project, nil
	}

	if err := s.db.Model(project).Updates(updates).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes a project and everything it owns: diagrams, their elements
// and locks, invites, and membership rows. Owner-only. The whole subtree goes
// in one transaction so a partial failure leaves no orphans.
func (s *ProjectService) Delete(id, userID uint) error {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("project not found")
		}
		return err
	}

	if project.OwnerID != userID {
		return response.NewForbidden("only the project owner can delete the project")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var diagramIDs []uint
		if err := tx.Model(&models.Diagram{}).
			Where("project_id = ?", id).
			Pluck("id", &diagramIDs).Error; err != nil {
			return err
		}

		if len(diagramIDs) > 0 {
			if err := tx.Where("diagram_id IN ?", diagramIDs).Delete(&models.DiagramElement{}).Error; err != nil {
				return err
			}
			if err := tx.Where("diagram_id IN ?", diagramIDs).Delete(&models.DiagramLock{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", id).Delete(&models.Diagram{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectInvite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&project).Error
	})
}
