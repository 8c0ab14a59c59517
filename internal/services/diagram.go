package services

import (
	"errors"

	"github.com/ValterGames-Coder/IDMS/internal/models"
	"github.com/ValterGames-Coder/IDMS/pkg/response"
	"gorm.io/gorm"
)

type DiagramService struct {
	db         *gorm.DB
	membership *MembershipService
}

func NewDiagramService(db *gorm.DB) *DiagramService {
	return &DiagramService{
		db:         db,
		membership: NewMembershipService(db),
	}
}

type CreateDiagramRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Type    string `json:"diagram_type" binding:"required,oneof=bpmn erd dfd"`
	Content string `json:"content"`
}

// UpdateDiagramRequest is a sparse patch; the type and parent project are
// fixed at creation.
type UpdateDiagramRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=200"`
	Content *string `json:"content"`
}

// load fetches a diagram and authorizes the caller against its parent
// project. Every diagram operation goes through this gate; a diagram is
// never checked in isolation.
func (s *DiagramService) load(diagramID, userID uint) (*models.Diagram, error) {
	var diagram models.Diagram
	if err := s.db.First(&diagram, diagramID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("diagram not found")
		}
		return nil, err
	}

	ok, err := s.membership.IsMember(diagram.ProjectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, response.NewForbidden("not a member of this project")
	}

	return &diagram, nil
}

// ListByProject returns all diagrams in a project the caller can access.
func (s *DiagramService) ListByProject(projectID, userID uint) ([]models.Diagram, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	ok, err := s.membership.IsMember(projectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, response.NewForbidden("not a member of this project")
	}

	var diagrams []models.Diagram
	if err := s.db.Where("project_id = ?", projectID).Order("created_at ASC").Find(&diagrams).Error; err != nil {
		return nil, err
	}
	return diagrams, nil
}

// Create adds a diagram to a project the caller can access.
func (s *DiagramService) Create(projectID uint, req *CreateDiagramRequest, userID uint) (*models.Diagram, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	ok, err := s.membership.IsMember(projectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, response.NewForbidden("not a member of this project")
	}

	if !models.ValidDiagramType(req.Type) {
		return nil, response.NewBadRequest("invalid diagram type")
	}

	diagram := models.Diagram{
		Name:      req.Name,
		Type:      req.Type,
		ProjectID: projectID,
		Content:   req.Content,
	}
	if err := s.db.Create(&diagram).Error; err != nil {
		return nil, err
	}
	return &diagram, nil
}

// GetByID returns a diagram; access inherited from the parent project.
func (s *DiagramService) GetByID(id, userID uint) (*models.Diagram, error) {
	return s.load(id, userID)
}

// Update applies a sparse patch to name and content.
func (s *DiagramService) Update(id uint, req *UpdateDiagramRequest, userID uint) (*models.Diagram, error) {
	diagram, err := s.load(id, userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}

	if len(updates) == 0 {
		return diagram, nil
	}

	if err := s.db.Model(diagram).Updates(updates).Error; err != nil {
		return nil, err
	}
	return diagram, nil
}

// Delete removes a diagram together with its elements and lock rows, in one
// transaction.
func (s *DiagramService) Delete(id, userID uint) error {
	diagram, err := s.load(id, userID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("diagram_id = ?", id).Delete(&models.DiagramElement{}).Error; err != nil {
			return err
		}
		if err := tx.Where("diagram_id = ?", id).Delete(&models.DiagramLock{}).Error; err != nil {
			return err
		}
		return tx.Delete(diagram).Error
	})
}

// --- Elements ---

type CreateElementRequest struct {
	ElementType string `json:"element_type" binding:"required,max=50"`
	ElementData string `json:"element_data" binding:"required"`
	PositionX   *int   `json:"position_x"`
	PositionY   *int   `json:"position_y"`
}

type UpdateElementRequest struct {
	ElementType *string `json:"element_type" binding:"omitempty,max=50"`
	ElementData *string `json:"element_data"`
	PositionX   *int    `json:"position_x"`
	PositionY   *int    `json:"position_y"`
}

// ListElements returns a diagram's elements.
func (s *DiagramService) ListElements(diagramID, userID uint) ([]models.DiagramElement, error) {
	if _, err := s.load(diagramID, userID); err != nil {
		return nil, err
	}

	var elements []models.DiagramElement
	if err := s.db.Where("diagram_id = ?", diagramID).Order("id ASC").Find(&elements).Error; err != nil {
		return nil, err
	}
	return elements, nil
}

// CreateElement adds an element to a diagram.
func (s *DiagramService) CreateElement(diagramID uint, req *CreateElementRequest, userID uint) (*models.DiagramElement, error) {
	if _, err := s.load(diagramID, userID); err != nil {
		return nil, err
	}

	element := models.DiagramElement{
		DiagramID:   diagramID,
		ElementType: req.ElementType,
		ElementData: req.ElementData,
		PositionX:   req.PositionX,
		PositionY:   req.PositionY,
	}
	if err := s.db.Create(&element).Error; err != nil {
		return nil, err
	}
	return &element, nil
}

// UpdateElement applies a sparse patch to an element, gated through its
// diagram's parent project.
func (s *DiagramService) UpdateElement(elementID uint, req *UpdateElementRequest, userID uint) (*models.DiagramElement, error) {
	element, err := s.loadElement(elementID, userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.ElementType != nil {
		updates["element_type"] = *req.ElementType
	}
	if req.ElementData != nil {
		updates["element_data"] = *req.ElementData
	}
	if req.PositionX != nil {
		updates["position_x"] = *req.PositionX
	}
	if req.PositionY != nil {
		updates["position_y"] = *req.PositionY
	}

	if len(updates) == 0 {
		return element, nil
	}

	if err := s.db.Model(element).Updates(updates).Error; err != nil {
		return nil, err
	}
	return element, nil
}

// DeleteElement removes a single element.
func (s *DiagramService) DeleteElement(elementID, userID uint) error {
	element, err := s.loadElement(elementID, userID)
	if err != nil {
		return err
	}
	return s.db.Delete(element).Error
}

func (s *DiagramService) loadElement(elementID, userID uint) (*models.DiagramElement, error) {
	var element models.DiagramElement
	if err := s.db.First(&element, elementID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("element not found")
		}
		return nil, err
	}

	if _, err := s.load(element.DiagramID, userID); err != nil {
		return nil, err
	}
	return &element, nil
}
