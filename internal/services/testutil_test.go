package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/teamkasa/teamkasa/internal/models"
	"github.com/teamkasa/teamkasa/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB opens an isolated in-memory SQLite database with foreign keys
// enabled and the full schema migrated.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.Membership{},
		&models.Fine{},
		&models.FineAssignment{},
		&models.Invitation{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := utils.HashPassword("password123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := models.User{
		Name:         "Test",
		Surname:      "User",
		Email:        email,
		PasswordHash: hash,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return &user
}

func createTestTeam(t *testing.T, db *gorm.DB, name string, admin *models.User) *models.Team {
	t.Helper()

	team, err := NewTeamService(db).Create(context.Background(), &CreateTeamRequest{Name: name}, admin.ID)
	if err != nil {
		t.Fatalf("failed to create test team: %v", err)
	}
	return team
}
