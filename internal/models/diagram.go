package models

import (
	"time"

	"gorm.io/gorm"
)

// Diagram types
const (
	DiagramTypeBPMN = "bpmn"
	DiagramTypeERD  = "erd"
	DiagramTypeDFD  = "dfd"
)

// ValidDiagramType reports whether t is one of the supported diagram types.
func ValidDiagramType(t string) bool {
	switch t {
	case DiagramTypeBPMN, DiagramTypeERD, DiagramTypeDFD:
		return true
	}
	return false
}

// Diagram is a typed document within a project. Access control is inherited
// from the parent project; there is no per-diagram ACL.
type Diagram struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:200;not null" json:"name"`
	Type      string         `gorm:"size:20;not null" json:"diagram_type"` // bpmn, erd, dfd
	ProjectID uint           `gorm:"index;not null" json:"project_id"`
	Content   string         `gorm:"type:text" json:"content"` // opaque JSON blob
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Diagram) TableName() string { return "diagrams" }

// DiagramElement is a typed node or edge belonging to a diagram. Elements are
// never locked individually; locking happens at diagram granularity.
type DiagramElement struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	DiagramID   uint      `gorm:"index;not null" json:"diagram_id"`
	ElementType string    `gorm:"size:50;not null" json:"element_type"` // node, edge, ...
	ElementData string    `gorm:"type:text;not null" json:"element_data"`
	PositionX   *int      `json:"position_x"`
	PositionY   *int      `json:"position_y"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (DiagramElement) TableName() string { return "diagram_elements" }
