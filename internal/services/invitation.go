package services

import (
	"context"
	"errors"
	"strings"

	"github.com/teamkasa/teamkasa/internal/models"
	"github.com/teamkasa/teamkasa/pkg/response"
	"gorm.io/gorm"
)

type InvitationService struct {
	db *gorm.DB
}

func NewInvitationService(db *gorm.DB) *InvitationService {
	return &InvitationService{db: db}
}

type CreateInvitationRequest struct {
	InvitedEmail string `json:"invited_email" binding:"required,email"`
	TeamID       string `json:"team_id" binding:"required"`
	DressNumber  int    `json:"dress_number" binding:"min=0"`
}

// Create invites a user by email to a team, reserving the dress number they
// will wear if they accept.
func (s *InvitationService) Create(ctx context.Context, req *CreateInvitationRequest) (*models.Invitation, error) {
	email := strings.ToLower(strings.TrimSpace(req.InvitedEmail))

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, response.NewServerError("failed to resolve invitee: " + err.Error())
	}

	var team models.Team
	if err := s.db.WithContext(ctx).First(&team, "id = ?", req.TeamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("team not found")
		}
		return nil, response.NewServerError("failed to load team: " + err.Error())
	}

	var memberCount int64
	if err := s.db.WithContext(ctx).Model(&models.Membership{}).
		Where("team_id = ? AND user_id = ?", req.TeamID, user.ID).
		Count(&memberCount).Error; err != nil {
		return nil, response.NewServerError("failed to check membership: " + err.Error())
	}
	if memberCount > 0 {
		return nil, response.NewConflict("user is already a member of the team")
	}

	var pendingCount int64
	if err := s.db.WithContext(ctx).Model(&models.Invitation{}).
		Where("team_id = ? AND user_id = ?", req.TeamID, user.ID).
		Count(&pendingCount).Error; err != nil {
		return nil, response.NewServerError("failed to check invitations: " + err.Error())
	}
	if pendingCount > 0 {
		return nil, response.NewConflict("user is already invited to the team")
	}

	invitation := models.Invitation{
		TeamID:      req.TeamID,
		UserID:      user.ID,
		DressNumber: req.DressNumber,
	}
	if err := s.db.WithContext(ctx).Create(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewConflict("user is already invited to the team")
		}
		return nil, response.NewServerError("failed to create invitation: " + err.Error())
	}

	return &invitation, nil
}

// ListForUser returns the teams the user is invited to, with member counts.
func (s *InvitationService) ListForUser(ctx context.Context, userID string) ([]TeamSummary, error) {
	var teams []TeamSummary
	err := s.db.WithContext(ctx).
		Table("teams t").
		Select("t.id, t.name, t.image, COUNT(m.id) AS member_count").
		Joins("LEFT JOIN memberships m ON t.id = m.team_id").
		Where("t.id IN (?)", s.db.Model(&models.Invitation{}).Select("team_id").Where("user_id = ?", userID)).
		Group("t.id, t.name, t.image").
		Scan(&teams).Error
	if err != nil {
		return nil, response.NewServerError("failed to list invitations: " + err.Error())
	}
	return teams, nil
}

// Accept consumes the pending invitation and creates a guest membership
// carrying its dress number. Delete and insert run in one transaction:
// the invitation cannot end up consumed without a membership, and a second
// accept finds no invitation and fails.
func (s *InvitationService) Accept(ctx context.Context, userID, teamID string) (*models.Membership, error) {
	var membership models.Membership

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invitation models.Invitation
		if err := tx.Where("team_id = ? AND user_id = ?", teamID, userID).First(&invitation).Error; err != nil {
			return err
		}

		if err := tx.Delete(&invitation).Error; err != nil {
			return err
		}

		membership = models.Membership{
			UserID: userID,
			TeamID: teamID,
			Role:   models.RoleGuest,
			Number: invitation.DressNumber,
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("no pending invitation for this team")
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewConflict("user is already a member of the team")
		}
		return nil, response.NewServerError("failed to accept invitation: " + err.Error())
	}

	return &membership, nil
}

// Decline removes a pending invitation without creating a membership.
func (s *InvitationService) Decline(ctx context.Context, userID, teamID string) error {
	result := s.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&models.Invitation{})
	if result.Error != nil {
		return response.NewServerError("failed to decline invitation: " + result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("no pending invitation for this team")
	}
	return nil
}
