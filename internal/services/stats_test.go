package services

import (
	"context"
	"testing"
	"time"

	"github.com/teamkasa/teamkasa/internal/models"
	"gorm.io/gorm"
)

// joinTeam gives a user a guest membership directly, bypassing the
// invitation flow, so stats tests can build rosters quickly.
func joinTeam(t *testing.T, db *gorm.DB, user *models.User, teamID string, number int) {
	t.Helper()

	membership := models.Membership{
		UserID: user.ID,
		TeamID: teamID,
		Role:   models.RoleGuest,
		Number: number,
	}
	if err := db.Create(&membership).Error; err != nil {
		t.Fatalf("failed to create membership: %v", err)
	}
}

func TestMonthlyStats_NoAssignments(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStatsService(db)
	admin := createTestUser(t, db, "quiet@example.com")
	team := createTestTeam(t, db, "Quiet", admin)

	top, err := svc.MonthlyTop(context.Background(), team.ID)
	if err != nil {
		t.Fatalf("MonthlyTop() error = %v", err)
	}
	if top != nil {
		t.Errorf("top = %+v, expected nil for an empty month", top)
	}

	bottom, err := svc.MonthlyBottom(context.Background(), team.ID)
	if err != nil {
		t.Fatalf("MonthlyBottom() error = %v", err)
	}
	if bottom != nil {
		t.Errorf("bottom = %+v, expected nil for an empty month", bottom)
	}
}

func TestMonthlyStats_TopAndBottom(t *testing.T) {
	db := setupTestDB(t)
	statsSvc := NewStatsService(db)
	fineSvc := NewFineService(db)

	admin := createTestUser(t, db, "heavy@example.com")
	light := createTestUser(t, db, "light@example.com")
	team := createTestTeam(t, db, "Split", admin)
	joinTeam(t, db, light, team.ID, 7)

	big, err := fineSvc.Define(context.Background(), &DefineFineRequest{
		TeamID: team.ID, Name: "Big", Amount: 5000,
	})
	if err != nil {
		t.Fatalf("Define() error = %v", err)
	}
	small, err := fineSvc.Define(context.Background(), &DefineFineRequest{
		TeamID: team.ID, Name: "Small", Amount: 3000,
	})
	if err != nil {
		t.Fatalf("Define() error = %v", err)
	}

	if _, err := fineSvc.Assign(context.Background(), &AssignFineRequest{
		TeamID: team.ID, FineID: big.ID, UserID: admin.ID,
	}, admin.ID); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	if _, err := fineSvc.Assign(context.Background(), &AssignFineRequest{
		TeamID: team.ID, FineID: small.ID, UserID: light.ID,
	}, admin.ID); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	top, err := statsSvc.MonthlyTop(context.Background(), team.ID)
	if err != nil {
		t.Fatalf("MonthlyTop() error = %v", err)
	}
	if top == nil || top.UserID != admin.ID {
		t.Fatalf("top = %+v, expected the 5000 payer %q", top, admin.ID)
	}
	if top.TotalAmount != 5000 {
		t.Errorf("top total = %d, expected 5000", top.TotalAmount)
	}

	bottom, err := statsSvc.MonthlyBottom(context.Background(), team.ID)
	if err != nil {
		t.Fatalf("MonthlyBottom() error = %v", err)
	}
	if bottom == nil || bottom.UserID != light.ID {
		t.Fatalf("bottom = %+v, expected the 3000 payer %q", bottom, light.ID)
	}
	if bottom.TotalAmount != 3000 {
		t.Errorf("bottom total = %d, expected 3000", bottom.TotalAmount)
	}
}

func TestMonthlyStats_SumsRepeatAssignments(t *testing.T) {
	db := setupTestDB(t)
	statsSvc := NewStatsService(db)
	fineSvc := NewFineService(db)

	admin := createTestUser(t, db, "repeat@example.com")
	team := createTestTeam(t, db, "Repeat", admin)

	fine, err := fineSvc.Define(context.Background(), &DefineFineRequest{
		TeamID: team.ID, Name: "Again", Amount: 250,
	})
	if err != nil {
		t.Fatalf("Define() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := fineSvc.Assign(context.Background(), &AssignFineRequest{
			TeamID: team.ID, FineID: fine.ID, UserID: admin.ID,
		}, admin.ID); err != nil {
			t.Fatalf("Assign() error = %v", err)
		}
	}

	top, err := statsSvc.MonthlyTop(context.Background(), team.ID)
	if err != nil {
		t.Fatalf("MonthlyTop() error = %v", err)
	}
	if top == nil {
		t.Fatal("top = nil, expected a row")
	}
	if top.TotalAmount != 750 {
		t.Errorf("total = %d, expected 750 (3 x 250)", top.TotalAmount)
	}
	if top.AssignmentCount != 3 {
		t.Errorf("assignment count = %d, expected 3", top.AssignmentCount)
	}
}

func TestMonthlyStats_IgnoresOtherMonths(t *testing.T) {
	db := setupTestDB(t)
	statsSvc := NewStatsService(db)
	fineSvc := NewFineService(db)

	admin := createTestUser(t, db, "lastmonth@example.com")
	team := createTestTeam(t, db, "LastMonth", admin)

	fine, err := fineSvc.Define(context.Background(), &DefineFineRequest{
		TeamID: team.ID, Name: "Old", Amount: 900,
	})
	if err != nil {
		t.Fatalf("Define() error = %v", err)
	}
	assignment, err := fineSvc.Assign(context.Background(), &AssignFineRequest{
		TeamID: team.ID, FineID: fine.ID, UserID: admin.ID,
	}, admin.ID)
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	// Backdate the assignment into the previous month.
	lastMonth := time.Now().AddDate(0, -1, 0)
	if err := db.Model(&models.FineAssignment{}).
		Where("id = ?", assignment.ID).
		UpdateColumn("created_at", lastMonth).Error; err != nil {
		t.Fatalf("backdating assignment: %v", err)
	}

	top, err := statsSvc.MonthlyTop(context.Background(), team.ID)
	if err != nil {
		t.Fatalf("MonthlyTop() error = %v", err)
	}
	if top != nil {
		t.Errorf("top = %+v, expected nil when all assignments fall outside the month", top)
	}
}

func TestMonthlyStats_ScopedToTeam(t *testing.T) {
	db := setupTestDB(t)
	statsSvc := NewStatsService(db)
	fineSvc := NewFineService(db)

	shared := createTestUser(t, db, "shared@example.com")
	other := createTestUser(t, db, "otherteam@example.com")
	teamA := createTestTeam(t, db, "StatsAlpha", shared)
	teamB := createTestTeam(t, db, "StatsBeta", other)
	joinTeam(t, db, shared, teamB.ID, 10)

	fineB, err := fineSvc.Define(context.Background(), &DefineFineRequest{
		TeamID: teamB.ID, Name: "Elsewhere", Amount: 400,
	})
	if err != nil {
		t.Fatalf("Define() error = %v", err)
	}
	if _, err := fineSvc.Assign(context.Background(), &AssignFineRequest{
		TeamID: teamB.ID, FineID: fineB.ID, UserID: shared.ID,
	}, other.ID); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	// Fines collected in another team never leak into this team's stats.
	top, err := statsSvc.MonthlyTop(context.Background(), teamA.ID)
	if err != nil {
		t.Fatalf("MonthlyTop() error = %v", err)
	}
	if top != nil {
		t.Errorf("top = %+v, expected nil: the user's fines belong to another team", top)
	}
}

func TestMonthlyStats_TieBreaksOnLowestUserID(t *testing.T) {
	db := setupTestDB(t)
	statsSvc := NewStatsService(db)
	fineSvc := NewFineService(db)

	// Explicit ids to pin the tie-break order.
	userA := &models.User{ID: "00000000-0000-0000-0000-00000000000a", Name: "A", Surname: "A", Email: "tie-a@example.com", PasswordHash: "x"}
	userB := &models.User{ID: "00000000-0000-0000-0000-00000000000b", Name: "B", Surname: "B", Email: "tie-b@example.com", PasswordHash: "x"}
	for _, u := range []*models.User{userA, userB} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("creating user: %v", err)
		}
	}
	team := createTestTeam(t, db, "Tied", userA)
	joinTeam(t, db, userB, team.ID, 2)

	fine, err := fineSvc.Define(context.Background(), &DefineFineRequest{
		TeamID: team.ID, Name: "Equal", Amount: 500,
	})
	if err != nil {
		t.Fatalf("Define() error = %v", err)
	}
	for _, u := range []*models.User{userB, userA} {
		if _, err := fineSvc.Assign(context.Background(), &AssignFineRequest{
			TeamID: team.ID, FineID: fine.ID, UserID: u.ID,
		}, userA.ID); err != nil {
			t.Fatalf("Assign() error = %v", err)
		}
	}

	// Both users total 500; the lower id wins on both ends.
	top, err := statsSvc.MonthlyTop(context.Background(), team.ID)
	if err != nil {
		t.Fatalf("MonthlyTop() error = %v", err)
	}
	if top == nil || top.UserID != userA.ID {
		t.Errorf("top = %+v, expected tie-break winner %q", top, userA.ID)
	}

	bottom, err := statsSvc.MonthlyBottom(context.Background(), team.ID)
	if err != nil {
		t.Fatalf("MonthlyBottom() error = %v", err)
	}
	if bottom == nil || bottom.UserID != userA.ID {
		t.Errorf("bottom = %+v, expected tie-break winner %q", bottom, userA.ID)
	}
}
