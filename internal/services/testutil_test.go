package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ValterGames-Coder/IDMS/internal/models"
	"github.com/ValterGames-Coder/IDMS/pkg/response"
)

// newTestDB opens a fresh in-memory database per test. The DSN is keyed by
// test name so parallel tests never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Diagram{},
		&models.DiagramElement{},
		&models.DiagramLock{},
		&models.ProjectInvite{},
		&models.RefreshToken{},
		&models.SystemLog{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     "user",
		AuthType: "local",
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return &user
}

func createTestProject(t *testing.T, db *gorm.DB, ownerID uint, name string) *models.Project {
	t.Helper()
	project := models.Project{Name: name, OwnerID: ownerID}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("create project %s: %v", name, err)
	}
	return &project
}

func createTestDiagram(t *testing.T, db *gorm.DB, projectID uint, name string) *models.Diagram {
	t.Helper()
	diagram := models.Diagram{Name: name, Type: models.DiagramTypeBPMN, ProjectID: projectID}
	if err := db.Create(&diagram).Error; err != nil {
		t.Fatalf("create diagram %s: %v", name, err)
	}
	return &diagram
}

func addTestMember(t *testing.T, db *gorm.DB, projectID, userID uint) {
	t.Helper()
	if err := db.Create(&models.ProjectMember{ProjectID: projectID, UserID: userID}).Error; err != nil {
		t.Fatalf("add member: %v", err)
	}
}

func createTestInvite(t *testing.T, db *gorm.DB, projectID, createdBy uint, expiresAt time.Time, active bool) *models.ProjectInvite {
	t.Helper()
	invite := models.ProjectInvite{
		Token:     fmt.Sprintf("tok-%s-%d", strings.ReplaceAll(t.Name(), "/", "_"), time.Now().UnixNano()),
		ProjectID: projectID,
		CreatedBy: createdBy,
		ExpiresAt: expiresAt,
		IsActive:  active,
	}
	if err := db.Create(&invite).Error; err != nil {
		t.Fatalf("create invite: %v", err)
	}
	return &invite
}

// assertStatus fails unless err is an *response.AppError with the given
// HTTP status.
func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", status)
	}
	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *response.AppError, got %T: %v", err, err)
	}
	if appErr.HTTPStatus != status {
		t.Errorf("status = %d, expected %d (message: %s)", appErr.HTTPStatus, status, appErr.Message)
	}
}
