package services

import (
	"context"
	"errors"
	"math"

	"github.com/teamkasa/teamkasa/internal/models"
	"github.com/teamkasa/teamkasa/pkg/response"
	"gorm.io/gorm"
)

type FineService struct {
	db *gorm.DB
}

func NewFineService(db *gorm.DB) *FineService {
	return &FineService{db: db}
}

type DefineFineRequest struct {
	TeamID      string  `json:"team_id" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type AssignFineRequest struct {
	TeamID string `json:"team_id" binding:"required"`
	FineID string `json:"fine_id" binding:"required"`
	UserID string `json:"user_id" binding:"required"`
}

// AssignedFine is one ledger row joined with its catalog entry.
type AssignedFine struct {
	FineID      string `json:"fine_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
}

// Define adds a fine type to a team's catalog. The amount arrives as a
// currency value and is rounded to integer minor units; negative amounts
// are rejected.
func (s *FineService) Define(ctx context.Context, req *DefineFineRequest) (*models.Fine, error) {
	if req.Amount < 0 {
		return nil, response.NewBadRequest("fine amount must not be negative")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Team{}).Where("id = ?", req.TeamID).Count(&count).Error; err != nil {
		return nil, response.NewServerError("failed to check team: " + err.Error())
	}
	if count == 0 {
		return nil, response.NewNotFound("team not found")
	}

	fine := models.Fine{
		TeamID:      req.TeamID,
		Name:        req.Name,
		Description: req.Description,
		Amount:      int64(math.Round(req.Amount)),
	}
	if err := s.db.WithContext(ctx).Create(&fine).Error; err != nil {
		return nil, response.NewServerError("failed to create fine: " + err.Error())
	}

	return &fine, nil
}

// Assign records that a catalog fine was applied to a team member. The fine
// must belong to the team and the target must be a member; the assigner is
// recorded for attribution.
func (s *FineService) Assign(ctx context.Context, req *AssignFineRequest, assignerID string) (*models.FineAssignment, error) {
	var fine models.Fine
	if err := s.db.WithContext(ctx).First(&fine, "id = ?", req.FineID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("fine not found")
		}
		return nil, response.NewServerError("failed to load fine: " + err.Error())
	}
	if fine.TeamID != req.TeamID {
		return nil, response.NewBadRequest("fine does not belong to this team")
	}

	var memberCount int64
	if err := s.db.WithContext(ctx).Model(&models.Membership{}).
		Where("team_id = ? AND user_id = ?", req.TeamID, req.UserID).
		Count(&memberCount).Error; err != nil {
		return nil, response.NewServerError("failed to check membership: " + err.Error())
	}
	if memberCount == 0 {
		return nil, response.NewBadRequest("user is not a member of this team")
	}

	assignment := models.FineAssignment{
		UserID:      req.UserID,
		TeamID:      req.TeamID,
		FineID:      req.FineID,
		CreatedByID: assignerID,
	}
	if err := s.db.WithContext(ctx).Create(&assignment).Error; err != nil {
		return nil, response.NewServerError("failed to assign fine: " + err.Error())
	}

	return &assignment, nil
}

// ListForTeam returns a team's fine catalog.
func (s *FineService) ListForTeam(ctx context.Context, teamID string) ([]models.Fine, error) {
	var fines []models.Fine
	if err := s.db.WithContext(ctx).Where("team_id = ?", teamID).Order("created_at ASC").Find(&fines).Error; err != nil {
		return nil, response.NewServerError("failed to list fines: " + err.Error())
	}
	return fines, nil
}

// AssignmentsForTeamAndUser returns the fines a user has collected in a team.
func (s *FineService) AssignmentsForTeamAndUser(ctx context.Context, teamID, userID string) ([]AssignedFine, error) {
	var rows []AssignedFine
	err := s.db.WithContext(ctx).
		Table("fines f").
		Select("f.id AS fine_id, f.name, f.description, f.amount").
		Joins("JOIN fine_assignments fa ON f.id = fa.fine_id").
		Where("fa.team_id = ? AND fa.user_id = ?", teamID, userID).
		Order("fa.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, response.NewServerError("failed to list assignments: " + err.Error())
	}
	return rows, nil
}

// DeleteOne removes a single catalog fine. Its ledger rows go by cascade.
func (s *FineService) DeleteOne(ctx context.Context, fineID string) error {
	result := s.db.WithContext(ctx).Delete(&models.Fine{}, "id = ?", fineID)
	if result.Error != nil {
		return response.NewServerError("failed to delete fine: " + result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("fine not found")
	}
	return nil
}

// PurgeCatalog deletes every fine of a team, and with them every ledger row
// referencing those fines. Irreversible; the transport boundary demands an
// explicit confirmation before calling this.
func (s *FineService) PurgeCatalog(ctx context.Context, teamID string) ([]models.Fine, error) {
	var fines []models.Fine
	if err := s.db.WithContext(ctx).Where("team_id = ?", teamID).Find(&fines).Error; err != nil {
		return nil, response.NewServerError("failed to load catalog: " + err.Error())
	}

	if len(fines) > 0 {
		if err := s.db.WithContext(ctx).Where("team_id = ?", teamID).Delete(&models.Fine{}).Error; err != nil {
			return nil, response.NewServerError("failed to purge catalog: " + err.Error())
		}
	}

	return fines, nil
}
