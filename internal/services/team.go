package services

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/teamkasa/teamkasa/internal/models"
	"github.com/teamkasa/teamkasa/pkg/response"
	"gorm.io/gorm"
)

type TeamService struct {
	db *gorm.DB
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{db: db}
}

type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required"`
	ImageBase64 string `json:"image_base64"`
}

// TeamSummary is a team row with its member count, as shown in team lists
// and invitation lists.
type TeamSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Image       []byte `json:"image,omitempty"`
	MemberCount int64  `json:"member_count"`
}

// TeamMember is one row of a team roster.
type TeamMember struct {
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Number  int    `json:"number"`
}

// Create inserts the team, makes the creator its admin member with dress
// number 0 and points the creator's last-team marker at it. The three writes
// run in one transaction so a failure leaves no partial team behind.
func (s *TeamService) Create(ctx context.Context, req *CreateTeamRequest, creatorID string) (*models.Team, error) {
	var image []byte
	if req.ImageBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			return nil, response.NewBadRequest("invalid team image encoding")
		}
		image = decoded
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Team{}).Where("name = ?", req.Name).Count(&count).Error; err != nil {
		return nil, response.NewServerError("failed to check team name: " + err.Error())
	}
	if count > 0 {
		return nil, response.NewConflict("team name already taken")
	}

	team := models.Team{
		Name:  req.Name,
		Image: image,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&team).Error; err != nil {
			return err
		}

		// The creator update runs before the membership insert so a missing
		// creator surfaces as RowsAffected == 0, not as an FK violation.
		result := tx.Model(&models.User{}).Where("id = ?", creatorID).Update("last_team_id", team.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		membership := models.Membership{
			UserID: creatorID,
			TeamID: team.ID,
			Role:   models.RoleAdmin,
			Number: 0,
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("creator not found")
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewConflict("team name already taken")
		}
		return nil, response.NewServerError("failed to create team: " + err.Error())
	}

	return &team, nil
}

// ListByUser returns the teams the user belongs to, each with its member count.
func (s *TeamService) ListByUser(ctx context.Context, userID string) ([]TeamSummary, error) {
	var teams []TeamSummary
	err := s.db.WithContext(ctx).
		Table("teams t").
		Select("t.id, t.name, t.image, COUNT(m.id) AS member_count").
		Joins("LEFT JOIN memberships m ON t.id = m.team_id").
		Where("t.id IN (?)", s.db.Model(&models.Membership{}).Select("team_id").Where("user_id = ?", userID)).
		Group("t.id, t.name, t.image").
		Scan(&teams).Error
	if err != nil {
		return nil, response.NewServerError("failed to list teams: " + err.Error())
	}
	return teams, nil
}

// Members returns the roster of a team with dress numbers.
func (s *TeamService) Members(ctx context.Context, teamID string) ([]TeamMember, error) {
	var members []TeamMember
	err := s.db.WithContext(ctx).
		Table("users u").
		Select("u.id AS user_id, u.name, u.surname, m.number").
		Joins("JOIN memberships m ON u.id = m.user_id").
		Where("m.team_id = ?", teamID).
		Order("m.number ASC").
		Scan(&members).Error
	if err != nil {
		return nil, response.NewServerError("failed to list members: " + err.Error())
	}
	return members, nil
}

// MemberCount returns how many users belong to a team.
func (s *TeamService) MemberCount(ctx context.Context, teamID string) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Membership{}).Where("team_id = ?", teamID).Count(&count).Error; err != nil {
		return 0, response.NewServerError("failed to count members: " + err.Error())
	}
	return count, nil
}

// RoleInTeam returns the user's role in a team, or "" when the user is not a
// member. Callers use it for authorization decisions.
func (s *TeamService) RoleInTeam(ctx context.Context, teamID, userID string) (string, error) {
	var membership models.Membership
	err := s.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", response.NewServerError("failed to look up role: " + err.Error())
	}
	return membership.Role, nil
}
