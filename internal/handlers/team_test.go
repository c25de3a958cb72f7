package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/teamkasa/teamkasa/internal/middleware"
	"github.com/teamkasa/teamkasa/internal/models"
	"github.com/teamkasa/teamkasa/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupHandlerDB(t *testing.T) *gorm.DB {
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

type roleEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Role string `json:"role"`
	} `json:"data"`
}

func TestRole_DefaultsToCallerAndAcceptsUserID(t *testing.T) {
	db := setupHandlerDB(t)

	admin := models.User{Name: "Admin", Surname: "User", Email: "admin@example.com", PasswordHash: "x"}
	guest := models.User{Name: "Guest", Surname: "User", Email: "guest@example.com", PasswordHash: "x"}
	stranger := models.User{Name: "Stranger", Surname: "User", Email: "stranger@example.com", PasswordHash: "x"}
	for _, u := range []*models.User{&admin, &guest, &stranger} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("creating user: %v", err)
		}
	}

	team, err := services.NewTeamService(db).Create(context.Background(), &services.CreateTeamRequest{Name: "Handlers"}, admin.ID)
	if err != nil {
		t.Fatalf("creating team: %v", err)
	}
	membership := models.Membership{UserID: guest.ID, TeamID: team.ID, Role: models.RoleGuest, Number: 7}
	if err := db.Create(&membership).Error; err != nil {
		t.Fatalf("creating membership: %v", err)
	}

	router := gin.New()
	handler := NewTeamHandler(db)
	router.GET("/api/teams/:id/role", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, admin.ID)
	}, handler.Role)

	tests := []struct {
		name     string
		query    string
		wantRole string
	}{
		{"caller's own role by default", "", models.RoleAdmin},
		{"another member via user_id", "?user_id=" + guest.ID, models.RoleGuest},
		{"non-member yields empty role", "?user_id=" + stranger.ID, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/api/teams/"+team.ID+"/role"+tt.query, nil)
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, expected %d", w.Code, http.StatusOK)
			}

			var resp roleEnvelope
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to parse response: %v", err)
			}
			if resp.Data.Role != tt.wantRole {
				t.Errorf("role = %q, expected %q", resp.Data.Role, tt.wantRole)
			}
		})
	}
}
