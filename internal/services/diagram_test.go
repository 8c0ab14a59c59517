package services

import (
	"net/http"
	"testing"

	"github.com/ValterGames-Coder/IDMS/internal/models"
)

func TestValidDiagramType(t *testing.T) {
	for _, valid := range []string{"bpmn", "erd", "dfd"} {
		if !models.ValidDiagramType(valid) {
			t.Errorf("%q should be valid", valid)
		}
	}
	for _, invalid := range []string{"", "BPMN", "uml", "flowchart"} {
		if models.ValidDiagramType(invalid) {
			t.Errorf("%q should be invalid", invalid)
		}
	}
}

func TestCreateDiagram(t *testing.T) {
	db := newTestDB(t)
	svc := NewDiagramService(db)

	owner := createTestUser(t, db, "owner")
	stranger := createTestUser(t, db, "stranger")
	project := createTestProject(t, db, owner.ID, "p1")

	diagram, err := svc.Create(project.ID, &CreateDiagramRequest{Name: "order flow", Type: "bpmn"}, owner.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if diagram.ProjectID != project.ID || diagram.Type != models.DiagramTypeBPMN {
		t.Error("diagram fields not persisted")
	}

	_, err = svc.Create(project.ID, &CreateDiagramRequest{Name: "x", Type: "bpmn"}, stranger.ID)
	assertStatus(t, err, http.StatusForbidden)

	_, err = svc.Create(9999, &CreateDiagramRequest{Name: "x", Type: "bpmn"}, owner.ID)
	assertStatus(t, err, http.StatusNotFound)

	_, err = svc.Create(project.ID, &CreateDiagramRequest{Name: "x", Type: "uml"}, owner.ID)
	assertStatus(t, err, http.StatusBadRequest)
}

func TestDiagramAccess_InheritedFromProject(t *testing.T) {
	db := newTestDB(t)
	svc := NewDiagramService(db)

	owner := createTestUser(t, db, "owner")
	member := createTestUser(t, db, "member")
	stranger := createTestUser(t, db, "stranger")
	project := createTestProject(t, db, owner.ID, "p1")
	addTestMember(t, db, project.ID, member.ID)
	diagram := createTestDiagram(t, db, project.ID, "d1")

	if _, err := svc.GetByID(diagram.ID, member.ID); err != nil {
		t.Errorf("member GetByID: %v", err)
	}

	_, err := svc.GetByID(diagram.ID, stranger.ID)
	assertStatus(t, err, http.StatusForbidden)

	_, err = svc.ListByProject(project.ID, stranger.ID)
	assertStatus(t, err, http.StatusForbidden)

	diagrams, err := svc.ListByProject(project.ID, member.ID)
	if err != nil {
		t.Fatalf("ListByProject: %v", err)
	}
	if len(diagrams) != 1 {
		t.Errorf("diagrams = %d, expected 1", len(diagrams))
	}
}

func TestUpdateDiagram_SparsePatch(t *testing.T) {
	db := newTestDB(t)
	svc := NewDiagramService(db)

	owner := createTestUser(t, db, "owner")
	project := createTestProject(t, db, owner.ID, "p1")
	diagram := createTestDiagram(t, db, project.ID, "before")

	content := `{"nodes":[]}`
	if _, err := svc.Update(diagram.ID, &UpdateDiagramRequest{Content: &content}, owner.ID); err != nil {
		t.Fatalf("Update: %v", err)
	}

	var got models.Diagram
	db.First(&got, diagram.ID)
	if got.Content != content {
		t.Errorf("Content = %q", got.Content)
	}
	if got.Name != "before" {
		t.Error("name should be untouched by a content-only patch")
	}
	if got.Type != models.DiagramTypeBPMN {
		t.Error("type is fixed at creation")
	}
}

func TestDeleteDiagram_RemovesElementsAndLock(t *testing.T) {
	db := newTestDB(t)
	svc := NewDiagramService(db)
	locks := NewLockService(db)

	owner := createTestUser(t, db, "owner")
	project := createTestProject(t, db, owner.ID, "p1")
	diagram := createTestDiagram(t, db, project.ID, "d1")
	db.Create(&models.DiagramElement{DiagramID: diagram.ID, ElementType: "node", ElementData: "{}"})
	if _, _, err := locks.Acquire(diagram.ID, owner.ID); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	if err := svc.Delete(diagram.ID, owner.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var elements, lockRows int64
	db.Model(&models.DiagramElement{}).Where("diagram_id = ?", diagram.ID).Count(&elements)
	db.Model(&models.DiagramLock{}).Where("diagram_id = ?", diagram.ID).Count(&lockRows)
	if elements != 0 || lockRows != 0 {
		t.Errorf("orphans left: %d elements, %d lock rows", elements, lockRows)
	}

	_, err := svc.GetByID(diagram.ID, owner.ID)
	assertStatus(t, err, http.StatusNotFound)
}

func TestElements_CRUD(t *testing.T) {
	db := newTestDB(t)
	svc := NewDiagramService(db)

	owner := createTestUser(t, db, "owner")
	stranger := createTestUser(t, db, "stranger")
	project := createTestProject(t, db, owner.ID, "p1")
	diagram := createTestDiagram(t, db, project.ID, "d1")

	x, y := 10, 20
	element, err := svc.CreateElement(diagram.ID, &CreateElementRequest{
		ElementType: "node",
		ElementData: `{"label":"start"}`,
		PositionX:   &x,
		PositionY:   &y,
	}, owner.ID)
	if err != nil {
		t.Fatalf("CreateElement: %v", err)
	}
	if element.PositionX == nil || *element.PositionX != 10 {
		t.Error("position not persisted")
	}

	_, err = svc.CreateElement(diagram.ID, &CreateElementRequest{ElementType: "node", ElementData: "{}"}, stranger.ID)
	assertStatus(t, err, http.StatusForbidden)

	newX := 99
	updated, err := svc.UpdateElement(element.ID, &UpdateElementRequest{PositionX: &newX}, owner.ID)
	if err != nil {
		t.Fatalf("UpdateElement: %v", err)
	}
	if updated.PositionX == nil || *updated.PositionX != 99 {
		t.Error("patch not applied")
	}

	var got models.DiagramElement
	db.First(&got, element.ID)
	if got.PositionY == nil || *got.PositionY != 20 {
		t.Error("unpatched field changed")
	}
	if got.ElementData != `{"label":"start"}` {
		t.Error("element data should be untouched")
	}

	_, err = svc.UpdateElement(element.ID, &UpdateElementRequest{}, stranger.ID)
	assertStatus(t, err, http.StatusForbidden)

	if err := svc.DeleteElement(element.ID, owner.ID); err != nil {
		t.Fatalf("DeleteElement: %v", err)
	}
	_, err = svc.UpdateElement(element.ID, &UpdateElementRequest{}, owner.ID)
	assertStatus(t, err, http.StatusNotFound)

	elements, err := svc.ListElements(diagram.ID, owner.ID)
	if err != nil {
		t.Fatalf("ListElements: %v", err)
	}
	if len(elements) != 0 {
		t.Errorf("elements = %d, expected 0", len(elements))
	}
}
