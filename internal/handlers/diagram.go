package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ValterGames-Coder/IDMS/internal/middleware"
	"github.com/ValterGames-Coder/IDMS/internal/services"
	"github.com/ValterGames-Coder/IDMS/pkg/response"
)

type DiagramHandler struct {
	diagramService *services.DiagramService
}

func NewDiagramHandler(db *gorm.DB) *DiagramHandler {
	return &DiagramHandler{
		diagramService: services.NewDiagramService(db),
	}
}

// ListByProject returns all diagrams of a project
// GET /api/projects/:id/diagrams
func (h *DiagramHandler) ListByProject(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	diagrams, err := h.diagramService.ListByProject(projectID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, diagrams)
}

// Create adds a diagram to a project
// POST /api/projects/:id/diagrams
func (h *DiagramHandler) Create(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateDiagramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	diagram, err := h.diagramService.Create(projectID, &req, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, diagram)
}

// GetByID returns a single diagram
// GET /api/diagrams/:id
func (h *DiagramHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	diagram, err := h.diagramService.GetByID(id, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, diagram)
}

// Update patches name and/or content
// PUT /api/diagrams/:id
func (h *DiagramHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateDiagramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	diagram, err := h.diagramService.Update(id, &req, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, diagram)
}

// Delete removes a diagram with its elements and lock row
// DELETE /api/diagrams/:id
func (h *DiagramHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.diagramService.Delete(id, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "diagram deleted"})
}

// ListElements returns the elements of a diagram
// GET /api/diagrams/:id/elements
func (h *DiagramHandler) ListElements(c *gin.Context) {
	diagramID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	elements, err := h.diagramService.ListElements(diagramID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, elements)
}

// CreateElement adds an element to a diagram
// POST /api/diagrams/:id/elements
func (h *DiagramHandler) CreateElement(c *gin.Context) {
	diagramID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateElementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	element, err := h.diagramService.CreateElement(diagramID, &req, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, element)
}

// UpdateElement patches an element
// PUT /api/elements/:id
func (h *DiagramHandler) UpdateElement(c *gin.Context) {
	elementID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateElementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	element, err := h.diagramService.UpdateElement(elementID, &req, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, element)
}

// DeleteElement removes an element
// DELETE /api/elements/:id
func (h *DiagramHandler) DeleteElement(c *gin.Context) {
	elementID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.diagramService.DeleteElement(elementID, middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "element deleted"})
}
